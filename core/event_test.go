package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionTriggers(t *testing.T) {
	tests := []struct {
		action Action
		want   bool
	}{
		{ActionOpened, true},
		{ActionEdited, true},
		{ActionCreated, true},
		{"closed", false},
		{"labeled", false},
		{"deleted", false},
		{"reopened", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.action.Triggers(), "action %q", tt.action)
	}
}

func TestEventSlug(t *testing.T) {
	e := &Event{
		Repo: Repo{Owner: "getsentry", Name: "sentry"},
		Item: Item{ID: 789, Number: 21},
	}
	assert.Equal(t, "getsentry/sentry#21-789", e.Slug())
}

func TestRuleFlags(t *testing.T) {
	assert.Equal(t, "gi", Rule{Pattern: "x"}.Flags())
	assert.Equal(t, "m", Rule{Pattern: "x", Modifier: "m"}.Flags())
}

func TestRuleLabel(t *testing.T) {
	assert.Equal(t, "aws_key", Rule{Name: "aws_key", Pattern: "AKIA"}.Label())
	assert.Equal(t, `token=\w+`, Rule{Pattern: `token=\w+`}.Label())
}
