package rule

import "github.com/roach88/converge/internal/ir"

// Status describes what a single rule application found.
type Status string

const (
	// StatusApplied means the rule edited the text.
	StatusApplied Status = "applied"

	// StatusSatisfied means the target state was already present.
	StatusSatisfied Status = "satisfied"

	// StatusNoMatch means the rule's shape does not occur in the text.
	StatusNoMatch Status = "no-match"

	// StatusAnchorMissing means an insert rule found no anchor. Non-fatal.
	StatusAnchorMissing Status = "anchor-missing"
)

// Outcome is the result of applying one rule.
type Outcome struct {
	// Text is the new working text (equal to the input when unchanged).
	Text string

	// Changed reports whether Text differs from the input.
	Changed bool

	// Status classifies the application.
	Status Status

	// Count is the number of edits made.
	Count int

	// Err carries a non-fatal diagnostic such as *AnchorMissingError.
	Err error
}

// Rule is one named, idempotent text transformation.
type Rule interface {
	Name() string
	Kind() ir.RuleKind
	// Apply transforms text. A non-nil error is a structural defect of the
	// rule itself and must abort the run.
	Apply(text string) (Outcome, error)
}

func unchanged(text string, status Status) Outcome {
	return Outcome{Text: text, Status: status}
}

func changed(before, after string, count int) Outcome {
	if after == before {
		return Outcome{Text: before, Status: StatusSatisfied}
	}
	return Outcome{Text: after, Changed: true, Status: StatusApplied, Count: count}
}
