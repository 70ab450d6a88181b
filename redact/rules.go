package redact

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sonnes/censor/core"
)

// presets maps a preset name, as written under `presets:` in censor.yml, to
// its rule set.
var presets = map[string]func() []core.Rule{
	"secrets": SecretRules,
	"pii":     PIIRules,
}

// Preset returns the built-in rules registered under name.
func Preset(name string) ([]core.Rule, error) {
	fn, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return fn(), nil
}

// PresetNames lists the registered presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// builtin creates a case-sensitive preset rule that replaces every match with
// a [REDACTED:<name>] placeholder.
func builtin(name, pattern, message string) core.Rule {
	return core.Rule{
		Name:        name,
		Pattern:     pattern,
		Modifier:    "g",
		Replacement: fmt.Sprintf("[REDACTED:%s]", name),
		Message:     message,
	}
}

// SecretRules returns the built-in secret detection rules.
func SecretRules() []core.Rule {
	return []core.Rule{
		builtin("aws_key", `AKIA[0-9A-Z]{16}`,
			"Please do not post AWS access keys."),
		builtin("api_key", `(?:sk-[a-zA-Z0-9]{32,}|ghp_[a-zA-Z0-9]{36,}|gho_[a-zA-Z0-9]{36,}|glpat-[a-zA-Z0-9\-]{20,})`,
			"Please do not post API keys."),
		builtin("private_key", `-----BEGIN [A-Z ]+PRIVATE KEY-----`,
			"Please do not post private keys."),
		builtin("connection_string", `(?:postgres|mongodb|mysql|redis)://[^\s"'`+"`"+`]+`,
			"Please do not post database connection strings."),
		builtin("jwt", `eyJ[A-Za-z0-9\-_]+\.eyJ[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_.+/=]+`,
			"Please do not post access tokens."),
	}
}

// PIIRules returns the built-in PII detection rules. They carry no message.
func PIIRules() []core.Rule {
	return []core.Rule{
		builtin("email", `[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`, ""),
		builtin("ipv4", `\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`, ""),
		builtin("phone", `(?:\+\d{1,3}[\s\-]?)?\(?\d{3}\)?[\s\-]?\d{3}[\s\-]?\d{4}`, ""),
	}
}
