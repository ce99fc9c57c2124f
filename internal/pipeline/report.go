package pipeline

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Verdict is the user-facing summary of a run.
type Verdict int

const (
	Unchanged Verdict = iota
	Changed
)

func (v Verdict) String() string {
	switch v {
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// MarshalText renders the verdict as its name in JSON output.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Report compares the text as loaded with the text that would be written.
func Report(original, final string) Verdict {
	if original == final {
		return Unchanged
	}
	return Changed
}

// StatusLine renders the single line printed after a run.
func StatusLine(v Verdict, path string, changedRules []string) string {
	if v == Unchanged {
		return "No changes needed for " + path
	}
	if len(changedRules) == 0 {
		return "Normalized " + path
	}
	return fmt.Sprintf("Normalized %s in %s", strings.Join(changedRules, ", "), path)
}

// UnifiedDiff renders the change from original to final as a unified diff
// with three lines of context. Equal texts produce an empty string.
func UnifiedDiff(path, original, final string) (string, error) {
	if original == final {
		return "", nil
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(final),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}
	return diff, nil
}
