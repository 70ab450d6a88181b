// Package core defines the data shared by the redaction engine and the
// collaborators around it: rules, the events that trigger a pass, and the
// outcome of handling one event.
package core

// DefaultModifier is applied to rules that do not set their own flags:
// case-insensitive and global.
const DefaultModifier = "gi"

// Rule is one pattern/replacement/message entry from a censor.yml file.
// Rules are applied in the order they are declared.
type Rule struct {
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	Pattern     string `yaml:"pattern" json:"pattern"`
	Modifier    string `yaml:"modifier,omitempty" json:"modifier,omitempty"`
	Replacement string `yaml:"replacement,omitempty" json:"replacement,omitempty"` // empty deletes the match
	Message     string `yaml:"message,omitempty" json:"message,omitempty"`
}

// Flags returns the rule's modifier, falling back to DefaultModifier.
func (r Rule) Flags() string {
	if r.Modifier == "" {
		return DefaultModifier
	}
	return r.Modifier
}

// Label identifies the rule in logs and reports.
func (r Rule) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Pattern
}
