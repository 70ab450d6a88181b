// Package terminal renders redaction outcomes as ANSI-colored reports.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/sonnes/censor/core"
)

const defaultWidth = 100

// Renderer pretty-prints an outcome to the terminal.
type Renderer struct {
	// Width overrides terminal width detection. Zero means auto-detect.
	Width int
}

// New creates a terminal Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render writes the outcome as a short report: a header, the rules that
// fired, the changed lines and the note.
func (r *Renderer) Render(w io.Writer, o *core.Outcome) error {
	width := r.termWidth()
	contentWidth := max(width-4, 40)

	writeHeader(w, o)

	if len(o.Fired) > 0 {
		writeSeparator(w, width)
		fmt.Fprintln(w)
		for _, rule := range o.Fired {
			writeRule(w, rule, contentWidth)
		}
	}

	// Sanitized outcomes have no original text to diff against.
	if o.Changed() && o.Before != "" {
		removed, added := core.ChangedLines(o.Before, o.After)
		writeSeparator(w, width)
		fmt.Fprintln(w)
		for _, line := range removed {
			fmt.Fprintln(w, "  "+styleRemoved.Render("- "+truncate(line, contentWidth-2)))
		}
		for _, line := range added {
			fmt.Fprintln(w, "  "+styleAdded.Render("+ "+truncate(line, contentWidth-2)))
		}
	}

	if o.Note != "" {
		writeSeparator(w, width)
		fmt.Fprintln(w)
		label := "note"
		if !o.Commented {
			label = "note (not posted)"
		}
		fmt.Fprintln(w, " "+styleMeta.Render(label))
		fmt.Fprintln(w, "  "+styleNote.Render(o.Note))
	}

	fmt.Fprintln(w)
	return nil
}

func (r *Renderer) termWidth() int {
	if r.Width > 0 {
		return r.Width
	}
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}

// writeHeader renders the status badge, the item and the edit statistics.
func writeHeader(w io.Writer, o *core.Outcome) {
	// Row 1: badge  title  stats
	row1 := statusBadge(o.Status)
	if o.Event != nil {
		row1 += "  " + styleTitle.Render(o.Event.Slug())
	}
	if o.DiffStats != nil {
		var stats []string
		if o.DiffStats.Added > 0 {
			stats = append(stats, styleAdded.Render(fmt.Sprintf("+%d", o.DiffStats.Added)))
		}
		if o.DiffStats.Removed > 0 {
			stats = append(stats, styleRemoved.Render(fmt.Sprintf("-%d", o.DiffStats.Removed)))
		}
		if len(stats) > 0 {
			row1 += "  " + strings.Join(stats, " ")
		}
	}
	fmt.Fprintln(w, row1)

	// Row 2: kind  @author  action  rules fired  dry run
	var parts []string
	if ev := o.Event; ev != nil {
		parts = append(parts, string(ev.Kind))
		if ev.Item.Author != "" {
			parts = append(parts, "@"+ev.Item.Author)
		}
		if ev.Action != "" {
			parts = append(parts, string(ev.Action))
		}
	}
	switch n := len(o.Fired); n {
	case 0:
	case 1:
		parts = append(parts, "1 rule fired")
	default:
		parts = append(parts, fmt.Sprintf("%d rules fired", n))
	}
	if o.DryRun {
		parts = append(parts, "dry run")
	}
	if len(parts) > 0 {
		fmt.Fprintln(w, styleMeta.Render(strings.Join(parts, "  ")))
	}
}

// writeRule renders one fired rule: its label and what it was replaced with.
func writeRule(w io.Writer, rule core.Rule, width int) {
	name := "⚑ " + rule.Label()
	line := styleRuleName.Render(truncate(name, width))

	replacement := rule.Replacement
	if replacement == "" {
		replacement = "(deleted)"
	}
	nameWidth := lipgloss.Width(name + "  → ")
	if nameWidth < width {
		line += "  " + styleRuleDetail.Render("→ "+truncate(replacement, width-nameWidth))
	}
	fmt.Fprintln(w, "  "+line)
}

// writeSeparator renders a horizontal rule.
func writeSeparator(w io.Writer, width int) {
	n := min(width, 72)
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleSeparator.Render(strings.Repeat("─", n)))
}

func statusBadge(s core.Status) string {
	label := strings.ToUpper(string(s))
	switch s {
	case core.StatusRedacted:
		return styleRedactedBadge.Render(label)
	case core.StatusUnchanged:
		return styleCleanBadge.Render(label)
	default:
		return styleIdleBadge.Render(label)
	}
}

// truncate shortens text to maxWidth, appending "..." if needed.
// Multi-line text is reduced to the first line.
func truncate(s string, maxWidth int) string {
	if maxWidth < 4 {
		maxWidth = 4
	}
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if lipgloss.Width(s) <= maxWidth {
		return s
	}

	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
