package redact

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sonnes/censor/core"
)

// pattern is a compiled rule.
type pattern struct {
	re          *regexp.Regexp
	global      bool
	named       bool // re declares at least one named group
	replacement string
}

func compile(rule core.Rule) (*pattern, error) {
	prefix, global, err := parseModifier(rule.Flags())
	if err != nil {
		return nil, err
	}
	// Flags never change whether a pattern parses; compiling it bare keeps
	// the inline flag group out of syntax errors.
	if _, err := regexp.Compile(rule.Pattern); err != nil {
		return nil, err
	}
	re, err := regexp.Compile(prefix + rule.Pattern)
	if err != nil {
		return nil, err
	}

	named := false
	for _, name := range re.SubexpNames() {
		if name != "" {
			named = true
			break
		}
	}

	return &pattern{
		re:          re,
		global:      global,
		named:       named,
		replacement: rule.Replacement,
	}, nil
}

// parseModifier turns JavaScript-style regex flags into an inline flag
// group. The g flag selects replace-all; u is accepted and ignored.
func parseModifier(flags string) (prefix string, global bool, err error) {
	var inline []byte
	seen := make(map[rune]bool, len(flags))
	for _, f := range flags {
		if seen[f] {
			return "", false, fmt.Errorf("duplicate flag %q in modifier %q", f, flags)
		}
		seen[f] = true

		switch f {
		case 'g':
			global = true
		case 'i', 'm', 's':
			inline = append(inline, byte(f))
		case 'u':
		default:
			return "", false, fmt.Errorf("unsupported flag %q in modifier %q", f, flags)
		}
	}
	if len(inline) > 0 {
		prefix = "(?" + string(inline) + ")"
	}
	return prefix, global, nil
}

func (p *pattern) match(s string) bool {
	return p.re.MatchString(s)
}

// replace substitutes every match in s, or only the first when the rule is
// not global.
func (p *pattern) replace(s string) string {
	n := -1
	if !p.global {
		n = 1
	}
	matches := p.re.FindAllStringSubmatchIndex(s, n)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		p.expand(&b, s, m)
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// expand writes the replacement for match m of s. Supported references:
// $$, $&, $`, $', $n, $nn and $<name>. Anything else is copied literally.
func (p *pattern) expand(b *strings.Builder, s string, m []int) {
	tmpl := p.replacement
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '$' || i+1 == len(tmpl) {
			b.WriteByte(c)
			continue
		}

		switch next := tmpl[i+1]; {
		case next == '$':
			b.WriteByte('$')
			i++
		case next == '&':
			b.WriteString(s[m[0]:m[1]])
			i++
		case next == '`':
			b.WriteString(s[:m[0]])
			i++
		case next == '\'':
			b.WriteString(s[m[1]:])
			i++
		case isDigit(next):
			group, width := p.groupRef(tmpl[i+1:])
			if width == 0 {
				b.WriteByte('$')
				continue
			}
			writeGroup(b, s, m, group)
			i += width
		case next == '<' && p.named:
			end := strings.IndexByte(tmpl[i+2:], '>')
			if end < 0 {
				b.WriteByte('$')
				continue
			}
			if group := p.re.SubexpIndex(tmpl[i+2 : i+2+end]); group > 0 {
				writeGroup(b, s, m, group)
			}
			i += 2 + end
		default:
			b.WriteByte('$')
		}
	}
}

// groupRef parses the digits following a $ and returns the group number and
// how many digits it consumed. Two digits win when they name an existing
// group; width 0 means the reference is not a group.
func (p *pattern) groupRef(ref string) (group, width int) {
	ncap := p.re.NumSubexp()
	first := int(ref[0] - '0')
	if len(ref) > 1 && isDigit(ref[1]) {
		if two := first*10 + int(ref[1]-'0'); two >= 1 && two <= ncap {
			return two, 2
		}
	}
	if first >= 1 && first <= ncap {
		return first, 1
	}
	return 0, 0
}

// writeGroup writes submatch group of s. Groups that did not participate in
// the match expand to nothing.
func writeGroup(b *strings.Builder, s string, m []int, group int) {
	start, end := m[2*group], m[2*group+1]
	if start >= 0 {
		b.WriteString(s[start:end])
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
