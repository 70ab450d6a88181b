// Package redact applies an ordered list of pattern rules to a body of text.
//
// Rules run strictly in sequence: each rule sees the text produced by the
// rules before it. A rule whose pattern also matches the previous revision
// of the text is skipped, so content the bot already rewrote, or a
// placeholder introduced by another rule, does not trigger another edit.
package redact

import (
	"fmt"

	"github.com/sonnes/censor/core"
)

// ConfigError reports a rule whose pattern or modifier does not compile.
type ConfigError struct {
	Index int // position of the rule in the configured list
	Rule  core.Rule
	Err   error
}

func (e *ConfigError) Error() string {
	where := fmt.Sprintf("rule %d", e.Index)
	if e.Rule.Name != "" {
		where += " (" + e.Rule.Name + ")"
	}
	return fmt.Sprintf("%s: invalid pattern /%s/%s: %v", where, e.Rule.Pattern, e.Rule.Flags(), e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Result is the outcome of one pass over a text.
type Result struct {
	Text  string
	Fired []core.Rule // rules that matched and were not suppressed, in order
}

// Changed reports whether any rule fired.
func (r Result) Changed() bool {
	return len(r.Fired) > 0
}

// Redactor holds a compiled rule list. It is immutable and safe for
// concurrent use.
type Redactor struct {
	rules    []core.Rule
	patterns []*pattern
}

// New compiles rules in order. The first rule that fails to compile is
// returned as a *ConfigError.
func New(rules []core.Rule) (*Redactor, error) {
	r := &Redactor{
		rules:    make([]core.Rule, len(rules)),
		patterns: make([]*pattern, len(rules)),
	}
	copy(r.rules, rules)

	for i, rule := range rules {
		p, err := compile(rule)
		if err != nil {
			return nil, &ConfigError{Index: i, Rule: rule, Err: err}
		}
		r.patterns[i] = p
	}
	return r, nil
}

// Rules returns the compiled rules in application order.
func (r *Redactor) Rules() []core.Rule {
	out := make([]core.Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Apply folds the rules over current. previous is the prior revision of the
// text, or empty for a newly created item.
func (r *Redactor) Apply(current, previous string) Result {
	text := current
	var fired []core.Rule

	for i, p := range r.patterns {
		if !p.match(text) {
			continue
		}
		// The previous revision already matched: the match is residue of
		// an earlier pass.
		if p.match(previous) {
			continue
		}
		text = p.replace(text)
		fired = append(fired, r.rules[i])
	}

	return Result{Text: text, Fired: fired}
}

// Apply compiles rules and runs a single pass over current.
func Apply(rules []core.Rule, current, previous string) (Result, error) {
	r, err := New(rules)
	if err != nil {
		return Result{}, err
	}
	return r.Apply(current, previous), nil
}
