package harness

import (
	"fmt"
	"slices"
	"strings"
)

// evaluateAssertion returns a failure message, or "" when a holds.
func evaluateAssertion(a Assertion, r *Result) string {
	switch a.Type {
	case AssertVerdict:
		if got := r.Verdict.String(); got != a.Verdict {
			return fmt.Sprintf("verdict is %s, want %s", got, a.Verdict)
		}

	case AssertRulesChanged:
		want := a.Rules
		if want == nil {
			want = []string{}
		}
		if got := r.ChangedRules(); !slices.Equal(got, want) {
			return fmt.Sprintf("changed rules are %v, want %v", got, want)
		}

	case AssertRuleStatus:
		for _, s := range r.Steps {
			if s.Rule != a.Rule {
				continue
			}
			if string(s.Status) != a.Status {
				return fmt.Sprintf("rule %s ended %s, want %s", a.Rule, s.Status, a.Status)
			}
			return ""
		}
		return fmt.Sprintf("rule %s did not run", a.Rule)

	case AssertContains:
		if !strings.Contains(r.Output, a.Text) {
			return fmt.Sprintf("output does not contain %q", a.Text)
		}

	case AssertNotContains:
		if strings.Contains(r.Output, a.Text) {
			return fmt.Sprintf("output contains %q", a.Text)
		}

	case AssertCount:
		if got := strings.Count(r.Output, a.Text); got != a.Count {
			return fmt.Sprintf("%q occurs %d times, want %d", a.Text, got, a.Count)
		}

	default:
		return fmt.Sprintf("unknown assertion type %q", a.Type)
	}
	return ""
}
