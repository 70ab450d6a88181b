package core

import "fmt"

// Kind enumerates the trackable item kinds an event can carry.
type Kind string

const (
	KindIssue       Kind = "issue"
	KindPullRequest Kind = "pull_request"
	KindComment     Kind = "comment"
)

// Action is the webhook action that produced an event.
type Action string

const (
	ActionOpened  Action = "opened"
	ActionEdited  Action = "edited"
	ActionCreated Action = "created"
)

// Triggers reports whether the action is a creation or a content edit.
// Every other action (closed, labeled, deleted, ...) leaves the item alone.
func (a Action) Triggers() bool {
	switch a {
	case ActionOpened, ActionEdited, ActionCreated:
		return true
	default:
		return false
	}
}

// Repo names a repository.
type Repo struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// Item is the issue, pull request or comment whose body is inspected.
type Item struct {
	ID     int64  `json:"id"`
	Number int    `json:"number"` // issue/PR number; for comments, the parent's number
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
	Body   string `json:"body"`
}

// Event is a normalized webhook delivery.
type Event struct {
	DeliveryID     string `json:"delivery_id,omitempty"`
	Name           string `json:"name"` // "issues", "pull_request", "issue_comment"
	Action         Action `json:"action"`
	Kind           Kind   `json:"kind"`
	Repo           Repo   `json:"repo"`
	Item           Item   `json:"item"`
	PreviousBody   string `json:"previous_body,omitempty"` // changes.body.from; empty on creation
	InstallationID int64  `json:"installation_id,omitempty"`
}

// Slug renders the event's item as owner/repo#number-id.
func (e *Event) Slug() string {
	return fmt.Sprintf("%s#%d-%d", e.Repo, e.Item.Number, e.Item.ID)
}
