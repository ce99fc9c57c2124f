package harness

import (
	"fmt"
	"log/slog"

	"github.com/roach88/converge/internal/pipeline"
	"github.com/roach88/converge/internal/rule"
)

// Run executes a scenario against rules and returns the result.
//
// A defective rule is returned as an error; everything else (wrong
// output, failed assertions, a second run that still edits) is recorded in
// the result.
func Run(s *Scenario, rules []rule.Rule) (*Result, error) {
	if err := pipeline.ValidateNames(rules); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	first, err := pipeline.Run(s.Input, rules)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	result := NewResult()
	result.Output = first.FinalText
	result.Verdict = pipeline.Report(s.Input, first.FinalText)
	result.Steps = first.Steps

	second, err := pipeline.Run(first.FinalText, rules)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: second run: %w", s.Name, err)
	}
	if second.Changed {
		result.AddError(fmt.Sprintf("not idempotent: second run changed %v", second.ChangedRules()))
	}

	if s.Expected != nil && *s.Expected != result.Output {
		diff, err := pipeline.UnifiedDiff(s.Name, *s.Expected, result.Output)
		if err != nil {
			return nil, err
		}
		result.AddError("output does not match expected:\n" + diff)
	}

	for i, a := range s.Assertions {
		if msg := evaluateAssertion(a, result); msg != "" {
			result.AddError(fmt.Sprintf("assertions[%d] (%s): %s", i, a.Type, msg))
		}
	}

	slog.Debug("scenario finished", "scenario", s.Name, "pass", result.Pass, "verdict", result.Verdict)
	return result, nil
}
