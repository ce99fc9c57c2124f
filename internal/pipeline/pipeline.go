package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/roach88/converge/internal/document"
	"github.com/roach88/converge/internal/ir"
	"github.com/roach88/converge/internal/rule"
)

// Step records what one rule did during a run.
type Step struct {
	Rule    string      `json:"rule"`
	Kind    ir.RuleKind `json:"kind"`
	Status  rule.Status `json:"status"`
	Changed bool        `json:"changed"`
	Count   int         `json:"count,omitempty"`
	Note    string      `json:"note,omitempty"`
}

// Result is the outcome of a run. It is not modified after Run returns.
type Result struct {
	Changed   bool   `json:"changed"`
	FinalText string `json:"-"`
	Steps     []Step `json:"steps"`
}

// ChangedRules returns the names of rules that edited the text, in order.
func (r *Result) ChangedRules() []string {
	var names []string
	for _, s := range r.Steps {
		if s.Changed {
			names = append(names, s.Rule)
		}
	}
	return names
}

// Run applies rules to text in order.
//
// A rule error is returned wrapped with the rule's position; non-structural
// errors are promoted to *rule.StructuralRuleError since a rule may only
// fail by being defective.
func Run(text string, rules []rule.Rule) (*Result, error) {
	res := &Result{Steps: make([]Step, 0, len(rules))}
	current := text

	for i, r := range rules {
		out, err := r.Apply(current)
		if err != nil {
			if !rule.IsStructural(err) {
				err = &rule.StructuralRuleError{Rule: r.Name(), Message: "apply failed", Err: err}
			}
			return nil, fmt.Errorf("pipeline aborted at rule %d (%s): %w", i+1, r.Name(), err)
		}

		step := Step{
			Rule:    r.Name(),
			Kind:    r.Kind(),
			Status:  out.Status,
			Changed: out.Changed,
			Count:   out.Count,
		}
		if out.Err != nil {
			step.Note = out.Err.Error()
		}
		slog.Debug("rule applied",
			"rule", step.Rule,
			"kind", step.Kind,
			"status", step.Status,
			"count", step.Count,
		)

		res.Steps = append(res.Steps, step)
		res.Changed = res.Changed || out.Changed
		current = out.Text
	}

	res.FinalText = current
	return res, nil
}

// RunArtifact runs rules over a.Text and, on success, stores the final text
// as the artifact's working copy. On error the artifact is untouched.
func RunArtifact(a *document.Artifact, rules []rule.Rule) (*Result, error) {
	res, err := Run(a.Text, rules)
	if err != nil {
		return nil, err
	}
	a.Text = res.FinalText
	return res, nil
}

// ValidateNames reports duplicate or empty rule names. Step records and
// status lines identify rules by name, so names must be unique.
func ValidateNames(rules []rule.Rule) error {
	seen := make(map[string]int, len(rules))
	for i, r := range rules {
		name := r.Name()
		if name == "" {
			return &rule.StructuralRuleError{Rule: fmt.Sprintf("#%d", i+1), Message: "rule name is required"}
		}
		if prev, ok := seen[name]; ok {
			return &rule.StructuralRuleError{
				Rule:    name,
				Message: fmt.Sprintf("duplicate rule name (positions %d and %d)", prev+1, i+1),
			}
		}
		seen[name] = i
	}
	return nil
}
