package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeSanitized(t *testing.T) {
	ev := &Event{
		Name:         "issues",
		Action:       ActionEdited,
		Kind:         KindIssue,
		Repo:         Repo{Owner: "getsentry", Name: "sentry"},
		Item:         Item{ID: 1001, Number: 21, Title: "Issue title", Body: "api_token=deadbeef012"},
		PreviousBody: "old api_token=cafe",
	}
	o := &Outcome{
		Event:     ev,
		Status:    StatusRedacted,
		Before:    "api_token=deadbeef012",
		After:     "api_token=redacted",
		Fired:     []Rule{{Pattern: `(api_token=)\w+`}},
		Note:      "do not post your api token",
		Edited:    true,
		DiffStats: &DiffStats{Added: 1, Removed: 1},
	}

	got := o.Sanitized()

	assert.Empty(t, got.Before)
	require.NotNil(t, got.Event)
	assert.Empty(t, got.Event.Item.Body)
	assert.Empty(t, got.Event.PreviousBody)

	assert.Equal(t, "api_token=redacted", got.After)
	assert.Equal(t, "Issue title", got.Event.Item.Title)
	assert.Equal(t, 21, got.Event.Item.Number)
	assert.Equal(t, o.Fired, got.Fired)
	assert.Equal(t, o.Note, got.Note)
	assert.Equal(t, o.DiffStats, got.DiffStats)
	assert.True(t, got.Changed())

	t.Run("original is untouched", func(t *testing.T) {
		assert.Equal(t, "api_token=deadbeef012", o.Before)
		assert.Equal(t, "api_token=deadbeef012", ev.Item.Body)
		assert.Equal(t, "old api_token=cafe", ev.PreviousBody)
	})

	t.Run("without event", func(t *testing.T) {
		got := (&Outcome{Status: StatusUnchanged, Before: "x", After: "x"}).Sanitized()
		assert.Nil(t, got.Event)
		assert.Empty(t, got.Before)
	})
}
