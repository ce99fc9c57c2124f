package harness

import "github.com/roach88/converge/internal/pipeline"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: expected text, assertions, and the
	// idempotence check all held.
	Pass bool `json:"pass"`

	// Output is the converged text.
	Output string `json:"-"`

	// Verdict compares the input with Output.
	Verdict pipeline.Verdict `json:"verdict"`

	// Steps records the first run, rule by rule.
	Steps []pipeline.Step `json:"steps"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []pipeline.Step{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// ChangedRules returns the names of rules that edited the text.
func (r *Result) ChangedRules() []string {
	names := []string{}
	for _, s := range r.Steps {
		if s.Changed {
			names = append(names, s.Rule)
		}
	}
	return names
}
