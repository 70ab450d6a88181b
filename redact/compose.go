package redact

import (
	"strings"

	"github.com/sonnes/censor/core"
)

// Compose builds the note posted after an edit: the general message followed
// by the message of every fired rule, space separated. An empty result means
// no note should be posted.
func Compose(general string, fired []core.Rule) string {
	parts := make([]string, 0, len(fired)+1)
	if general != "" {
		parts = append(parts, general)
	}
	for _, rule := range fired {
		if rule.Message != "" {
			parts = append(parts, rule.Message)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
