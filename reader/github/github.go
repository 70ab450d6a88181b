// Package github decodes GitHub webhook payloads for the issues,
// pull_request and issue_comment events.
package github

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sonnes/censor/core"
	"github.com/sonnes/censor/reader"
)

// Event names as sent in the X-GitHub-Event header.
const (
	EventIssues       = "issues"
	EventPullRequest  = "pull_request"
	EventIssueComment = "issue_comment"

	// EventPullRequestTarget carries a pull_request payload. Actions
	// workflows use it to get a writable token on pull requests from forks.
	EventPullRequestTarget = "pull_request_target"
)

// Reader decodes GitHub webhook payloads.
type Reader struct{}

// Raw JSON deserialization types. These mirror the subset of the webhook
// payload the bot reads.

type rawPayload struct {
	Action       string           `json:"action"`
	Issue        *rawItem         `json:"issue"`
	PullRequest  *rawItem         `json:"pull_request"`
	Comment      *rawItem         `json:"comment"`
	Changes      *rawChanges      `json:"changes"`
	Repository   *rawRepository   `json:"repository"`
	Installation *rawInstallation `json:"installation"`
}

type rawItem struct {
	ID     int64   `json:"id"`
	Number int     `json:"number"`
	Title  string  `json:"title"`
	Body   *string `json:"body"`
	User   rawUser `json:"user"`
}

type rawChanges struct {
	Body *rawFrom `json:"body"`
}

type rawFrom struct {
	From string `json:"from"`
}

type rawRepository struct {
	Name  string  `json:"name"`
	Owner rawUser `json:"owner"`
}

type rawUser struct {
	Login string `json:"login"`
}

type rawInstallation struct {
	ID int64 `json:"id"`
}

// Read implements reader.Reader.
func (r *Reader) Read(name string, payload io.Reader) (*core.Event, error) {
	var kind core.Kind
	switch name {
	case EventIssues:
		kind = core.KindIssue
	case EventPullRequest, EventPullRequestTarget:
		kind = core.KindPullRequest
	case EventIssueComment:
		kind = core.KindComment
	default:
		return nil, fmt.Errorf("%w: %q", reader.ErrUnsupportedEvent, name)
	}

	var raw rawPayload
	if err := json.NewDecoder(payload).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", name, err)
	}
	if raw.Repository == nil {
		return nil, fmt.Errorf("%s payload: missing repository", name)
	}

	ev := &core.Event{
		Name:   name,
		Action: core.Action(raw.Action),
		Kind:   kind,
		Repo: core.Repo{
			Owner: raw.Repository.Owner.Login,
			Name:  raw.Repository.Name,
		},
	}
	if raw.Installation != nil {
		ev.InstallationID = raw.Installation.ID
	}
	if raw.Changes != nil && raw.Changes.Body != nil {
		ev.PreviousBody = raw.Changes.Body.From
	}

	var item *rawItem
	switch kind {
	case core.KindIssue:
		item = raw.Issue
	case core.KindPullRequest:
		item = raw.PullRequest
	case core.KindComment:
		item = raw.Comment
	}
	if item == nil {
		return nil, fmt.Errorf("%s payload: missing %s", name, kind)
	}

	ev.Item = core.Item{
		ID:     item.ID,
		Number: item.Number,
		Title:  item.Title,
		Author: item.User.Login,
	}
	if item.Body != nil {
		ev.Item.Body = *item.Body
	}
	// Comments are addressed by ID; the number is the parent issue's.
	if kind == core.KindComment && raw.Issue != nil {
		ev.Item.Number = raw.Issue.Number
	}

	return ev, nil
}
