package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/roach88/converge/internal/document"
	"github.com/roach88/converge/internal/rule"
)

// Outcome describes one load, run, and commit cycle over a file.
type Outcome struct {
	Path     string                `json:"path"`
	Verdict  Verdict               `json:"verdict"`
	Commit   document.CommitResult `json:"-"`
	Written  bool                  `json:"written"`
	DryRun   bool                  `json:"dry_run,omitempty"`
	Result   *Result               `json:"result"`
	Original string                `json:"-"`
	Final    string                `json:"-"`
}

// Status returns the outcome's status line.
func (o *Outcome) Status() string {
	return StatusLine(o.Verdict, o.Path, o.Result.ChangedRules())
}

// Converge loads path, runs rules over it, and commits the result through
// st unless dryRun is set. Load and commit failures are *document.Error;
// a defective rule or a duplicate rule name yields an error wrapping
// *rule.StructuralRuleError and nothing is written.
func Converge(path string, rules []rule.Rule, st *document.Store, dryRun bool) (*Outcome, error) {
	if err := ValidateNames(rules); err != nil {
		return nil, fmt.Errorf("converge %s: %w", path, err)
	}

	a, err := document.Load(path)
	if err != nil {
		return nil, err
	}

	res, err := RunArtifact(a, rules)
	if err != nil {
		return nil, fmt.Errorf("converge %s: %w", path, err)
	}

	out := &Outcome{
		Path:     path,
		Verdict:  Report(a.Original(), a.Pending()),
		DryRun:   dryRun,
		Result:   res,
		Original: a.Original(),
		Final:    a.Pending(),
	}
	if dryRun {
		return out, nil
	}

	commit, err := st.CommitIfChanged(a)
	if err != nil {
		return nil, err
	}
	out.Commit = commit
	out.Written = commit == document.Written

	slog.Debug("converged", "path", path, "verdict", out.Verdict, "commit", commit)
	return out, nil
}
