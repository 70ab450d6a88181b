package core

// Status summarizes what handling an event did.
type Status string

const (
	StatusIgnored   Status = "ignored"   // action does not trigger a pass
	StatusDisabled  Status = "disabled"  // no rules configured
	StatusUnchanged Status = "unchanged" // no rule fired
	StatusRedacted  Status = "redacted"  // body rewritten
)

// Outcome is the result of running the rules over one body, with the side
// effects the caller performed (or would have, in dry-run mode).
type Outcome struct {
	Event     *Event     `json:"event,omitempty"`
	Status    Status     `json:"status"`
	Before    string     `json:"before,omitempty"` // empty once sanitized
	After     string     `json:"after"`
	Fired     []Rule     `json:"fired,omitempty"`
	Note      string     `json:"note,omitempty"`
	Edited    bool       `json:"edited"`
	Commented bool       `json:"commented"`
	DryRun    bool       `json:"dry_run,omitempty"`
	DiffStats *DiffStats `json:"diff_stats,omitempty"`
}

// Changed reports whether the body was rewritten.
func (o *Outcome) Changed() bool {
	return o.Status == StatusRedacted
}

// Sanitized returns a copy that no longer carries the text as it was before
// the rewrite: Before, the event's body and its previous revision are
// cleared. Reports built from it can be published, for example in a CI log.
func (o *Outcome) Sanitized() *Outcome {
	c := *o
	c.Before = ""
	if o.Event != nil {
		ev := *o.Event
		ev.Item.Body = ""
		ev.PreviousBody = ""
		c.Event = &ev
	}
	return &c
}
