// Package handler decides what to do with a webhook event: it loads the
// repository's rules, runs the redaction pass over the item's body and
// performs the edit and the follow-up note through a Publisher.
package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/sonnes/censor/config"
	"github.com/sonnes/censor/core"
	"github.com/sonnes/censor/redact"
)

// Publisher performs the side effects of a redaction.
type Publisher interface {
	// EditIssue replaces the body of an issue or pull request.
	EditIssue(ctx context.Context, repo core.Repo, number int, body string) error
	// EditComment replaces the body of a comment.
	EditComment(ctx context.Context, repo core.Repo, id int64, body string) error
	// CreateComment posts a note on an issue or pull request.
	CreateComment(ctx context.Context, repo core.Repo, number int, body string) error
}

// Handler processes events. It holds no per-event state and is safe for
// concurrent use.
type Handler struct {
	Source    config.Source
	Publisher Publisher
	// DryRun computes outcomes without calling the Publisher.
	DryRun bool
	Logger *log.Logger
}

func (h *Handler) logger() *log.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return log.Default()
}

// Evaluate runs cfg's rules over current and builds the note, without any
// side effects. previous is the prior revision of the text, if any.
func Evaluate(cfg *config.Config, current, previous string) (*core.Outcome, error) {
	out := &core.Outcome{Before: current, After: current}
	if !cfg.Enabled() {
		out.Status = core.StatusDisabled
		return out, nil
	}

	r, err := cfg.Redactor()
	if err != nil {
		return nil, err
	}

	res := r.Apply(current, previous)
	out.After = res.Text
	out.Fired = res.Fired
	// A rule can fire and still reproduce the text it matched.
	if !res.Changed() || res.Text == current {
		out.Status = core.StatusUnchanged
		return out, nil
	}

	out.Status = core.StatusRedacted
	out.Note = redact.Compose(cfg.Message, res.Fired)
	out.DiffStats = core.ComputeDiffStats(current, res.Text)
	return out, nil
}

// Handle runs the redaction pass for ev and, if the body changed, edits the
// item and posts the note. The returned Outcome is non-nil whenever the pass
// ran, even if a side effect failed.
func (h *Handler) Handle(ctx context.Context, ev *core.Event) (*core.Outcome, error) {
	logger := h.logger().With("item", ev.Slug(), "event", ev.Name, "action", ev.Action)

	if !ev.Action.Triggers() {
		logger.Debug("ignoring action")
		return &core.Outcome{Event: ev, Status: core.StatusIgnored, Before: ev.Item.Body, After: ev.Item.Body}, nil
	}

	cfg, err := h.Source.Load(ctx, ev.Repo)
	if err != nil {
		return nil, fmt.Errorf("load config for %s: %w", ev.Repo, err)
	}

	out, err := Evaluate(cfg, ev.Item.Body, ev.PreviousBody)
	if err != nil {
		return nil, fmt.Errorf("config for %s: %w", ev.Repo, err)
	}
	out.Event = ev
	out.DryRun = h.DryRun

	switch out.Status {
	case core.StatusDisabled:
		logger.Debug("no rules configured")
		return out, nil
	case core.StatusUnchanged:
		logger.Debug("no rules violated")
		return out, nil
	}

	if h.Publisher == nil && !h.DryRun {
		return out, errors.New("no publisher configured")
	}

	logger.Info("editing item", "violated_rules", len(out.Fired), "dry_run", h.DryRun)
	logger.Debug("new body", "kind", ev.Kind, "body", out.After)

	if !h.DryRun {
		if err := h.edit(ctx, ev, out.After); err != nil {
			return out, fmt.Errorf("edit %s %s: %w", ev.Kind, ev.Slug(), err)
		}
	}
	out.Edited = true

	if out.Note == "" {
		logger.Debug("skipping comment as no messages are configured")
		return out, nil
	}

	logger.Debug("posting comment", "number", ev.Item.Number, "body", out.Note)
	if !h.DryRun {
		if err := h.Publisher.CreateComment(ctx, ev.Repo, ev.Item.Number, out.Note); err != nil {
			return out, fmt.Errorf("comment on %s: %w", ev.Slug(), err)
		}
	}
	out.Commented = true

	return out, nil
}

// edit persists body through the API that owns the item kind.
func (h *Handler) edit(ctx context.Context, ev *core.Event, body string) error {
	if ev.Kind == core.KindComment {
		return h.Publisher.EditComment(ctx, ev.Repo, ev.Item.ID, body)
	}
	return h.Publisher.EditIssue(ctx, ev.Repo, ev.Item.Number, body)
}
