package rule

import (
	"fmt"
	"regexp"
	"strings"
)

// Guard decides whether an insert rule's target state already exists
// anywhere in the current text.
type Guard interface {
	Satisfied(text string) bool
	String() string
}

type containsGuard string

// Contains is satisfied when text contains s.
func Contains(s string) Guard {
	return containsGuard(s)
}

func (g containsGuard) Satisfied(text string) bool {
	return strings.Contains(text, string(g))
}

func (g containsGuard) String() string {
	return fmt.Sprintf("contains(%q)", string(g))
}

type matchesGuard struct {
	re *regexp.Regexp
}

// Matches is satisfied when re matches anywhere in text.
func Matches(re *regexp.Regexp) Guard {
	return matchesGuard{re: re}
}

func (g matchesGuard) Satisfied(text string) bool {
	return g.re.MatchString(text)
}

func (g matchesGuard) String() string {
	return fmt.Sprintf("matches(%q)", g.re.String())
}

type anyGuard []Guard

// AnyOf is satisfied when at least one of guards is.
func AnyOf(guards ...Guard) Guard {
	return anyGuard(guards)
}

func (g anyGuard) Satisfied(text string) bool {
	for _, each := range g {
		if each.Satisfied(text) {
			return true
		}
	}
	return false
}

func (g anyGuard) String() string {
	parts := make([]string, len(g))
	for i, each := range g {
		parts[i] = each.String()
	}
	return "any(" + strings.Join(parts, ", ") + ")"
}

// defaultGuard checks for the first non-blank line of block, trimmed, so
// that a copy at any indentation counts as present.
func defaultGuard(block string) Guard {
	for _, line := range strings.Split(block, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return Contains(t)
		}
	}
	return Contains(block)
}
