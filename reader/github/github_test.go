package github

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sonnes/censor/core"
	"github.com/sonnes/censor/reader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testdataPath(name string) string {
	return filepath.Join("testdata", name)
}

func readTestdata(t *testing.T, event, name string) *core.Event {
	t.Helper()
	ev, err := reader.ReadFile(&Reader{}, event, testdataPath(name))
	require.NoError(t, err)
	return ev
}

func TestReadIssueOpened(t *testing.T) {
	ev := readTestdata(t, EventIssues, "issues_opened.json")

	assert.Equal(t, EventIssues, ev.Name)
	assert.Equal(t, core.ActionOpened, ev.Action)
	assert.Equal(t, core.KindIssue, ev.Kind)
	assert.Equal(t, core.Repo{Owner: "getsentry", Name: "sentry"}, ev.Repo)
	assert.Equal(t, core.Item{
		ID:     1001,
		Number: 21,
		Title:  "Issue title",
		Author: "dr_example",
		Body:   "api_token=deadbeef012 ",
	}, ev.Item)
	assert.Empty(t, ev.PreviousBody)
	assert.Equal(t, int64(99), ev.InstallationID)
}

func TestReadIssueEdited(t *testing.T) {
	ev := readTestdata(t, EventIssues, "issues_edited.json")

	assert.Equal(t, core.ActionEdited, ev.Action)
	assert.Equal(t, "api_token=redacted", ev.Item.Body)
	assert.Equal(t, "api_token=abcdef", ev.PreviousBody)
}

func TestReadTitleOnlyEdit(t *testing.T) {
	ev := readTestdata(t, EventIssues, "issues_title_edited.json")

	assert.Empty(t, ev.PreviousBody)
	assert.Empty(t, ev.Item.Body, "null body decodes as empty")
	assert.Zero(t, ev.InstallationID)
}

func TestReadPullRequest(t *testing.T) {
	ev := readTestdata(t, EventPullRequest, "pull_request_opened.json")

	assert.Equal(t, core.KindPullRequest, ev.Kind)
	assert.Equal(t, 22, ev.Item.Number)
	assert.Equal(t, int64(2002), ev.Item.ID)
	assert.Equal(t, "Here is my api_token=deadbeef012", ev.Item.Body)
}

func TestReadPullRequestTarget(t *testing.T) {
	ev := readTestdata(t, EventPullRequestTarget, "pull_request_opened.json")

	assert.Equal(t, EventPullRequestTarget, ev.Name)
	assert.Equal(t, core.KindPullRequest, ev.Kind)
	assert.Equal(t, 22, ev.Item.Number)
}

func TestReadIssueComment(t *testing.T) {
	ev := readTestdata(t, EventIssueComment, "issue_comment_created.json")

	assert.Equal(t, core.KindComment, ev.Kind)
	assert.Equal(t, core.ActionCreated, ev.Action)
	assert.Equal(t, int64(789), ev.Item.ID)
	assert.Equal(t, 21, ev.Item.Number, "number comes from the parent issue")
	assert.Equal(t, "dr_evil", ev.Item.Author)
	assert.Equal(t, "Found my api_token=deadbeef012", ev.Item.Body)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		event   string
		payload string
	}{
		{"malformed json", EventIssues, `{"action":`},
		{"missing repository", EventIssues, `{"action":"opened","issue":{"id":1}}`},
		{"missing item", EventPullRequest, `{"action":"opened","repository":{"name":"r","owner":{"login":"o"}},"issue":{"id":1}}`},
		{"missing comment", EventIssueComment, `{"action":"created","repository":{"name":"r","owner":{"login":"o"}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Reader{}).Read(tt.event, strings.NewReader(tt.payload))
			require.Error(t, err)
			assert.False(t, errors.Is(err, reader.ErrUnsupportedEvent))
		})
	}
}

func TestReadUnsupportedEvent(t *testing.T) {
	_, err := (&Reader{}).Read("push", strings.NewReader(`{}`))
	assert.ErrorIs(t, err, reader.ErrUnsupportedEvent)
}

func TestReadFileMissing(t *testing.T) {
	_, err := reader.ReadFile(&Reader{}, EventIssues, testdataPath("nope.json"))
	assert.Error(t, err)
}
