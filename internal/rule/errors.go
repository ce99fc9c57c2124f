package rule

import (
	"errors"
	"fmt"
)

// StructuralRuleError means a rule is internally inconsistent: a bad
// pattern, an empty canonical form, an unknown kind. It is a defect in the
// rule set, never a property of the input, and aborts the run.
type StructuralRuleError struct {
	Rule    string
	Message string
	Err     error
}

func (e *StructuralRuleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rule %q: %s: %v", e.Rule, e.Message, e.Err)
	}
	return fmt.Sprintf("rule %q: %s", e.Rule, e.Message)
}

func (e *StructuralRuleError) Unwrap() error {
	return e.Err
}

// AnchorMissingError reports that an insert rule's anchor is absent. It is
// expected: the document either predates the construct or an earlier
// transformation already changed its shape.
type AnchorMissingError struct {
	Rule   string
	Anchor string
}

func (e *AnchorMissingError) Error() string {
	return fmt.Sprintf("rule %q: anchor %s not found", e.Rule, e.Anchor)
}

// IsStructural reports whether err is (or wraps) a *StructuralRuleError.
func IsStructural(err error) bool {
	var se *StructuralRuleError
	return errors.As(err, &se)
}

// IsAnchorMissing reports whether err is (or wraps) an *AnchorMissingError.
func IsAnchorMissing(err error) bool {
	var ae *AnchorMissingError
	return errors.As(err, &ae)
}
