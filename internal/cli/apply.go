package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/converge/internal/compiler"
	"github.com/roach88/converge/internal/document"
	"github.com/roach88/converge/internal/ir"
	"github.com/roach88/converge/internal/pipeline"
	"github.com/roach88/converge/internal/rule"
	"github.com/roach88/converge/internal/ruleset"
	"github.com/roach88/converge/internal/store"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	DryRun  bool
	Journal string

	// RunIDs overrides journal run ID generation (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	RunIDs store.RunIDGenerator

	// WriteFile overrides how the artifact is written (for testing).
	WriteFile document.WriteFunc
}

// ApplyResult is the payload of a successful apply.
type ApplyResult struct {
	Path    string           `json:"path"`
	Verdict pipeline.Verdict `json:"verdict"`
	Message string           `json:"message"`
	Written bool             `json:"written"`
	DryRun  bool             `json:"dry_run,omitempty"`
	Diff    string           `json:"diff,omitempty"`
	RunID   string           `json:"run_id,omitempty"`
	Steps   []pipeline.Step  `json:"steps"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	return newApplyCommand(&ApplyOptions{RootOptions: rootOpts})
}

func newApplyCommand(opts *ApplyOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <file>",
		Short: "Converge a file on its target shape",
		Long: `Run the compiled-in rules over a file and write it back only if the
text changed. Prints one status line.

Exit codes:
  0 - File converged (changed or already up to date)
  1 - A rule is defective; nothing was written
  2 - Command error (file not found, unreadable, or unwritable)

Examples:
  converge apply app/api/generate/route.ts
  converge apply route.ts --dry-run
  converge apply route.ts --journal ./converge.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print a unified diff instead of writing")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "record the run in this SQLite journal")

	return cmd
}

func runApply(opts *ApplyOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	rs, err := ruleset.Default()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRuleSet, "failed to load rule set", err)
	}
	formatter.VerboseLog("Rule set %s: %d rule(s)", rs.Decl.Name, len(rs.Rules))

	var storeOpts []document.Option
	if opts.WriteFile != nil {
		storeOpts = append(storeOpts, document.WithWriter(opts.WriteFile))
	}

	out, err := pipeline.Converge(path, rs.Rules, document.NewStore(storeOpts...), opts.DryRun)
	if err != nil {
		return applyError(formatter, path, err)
	}

	for _, s := range out.Result.Steps {
		formatter.VerboseLog("  %-28s %s", s.Rule, s.Status)
	}

	result := ApplyResult{
		Path:    path,
		Verdict: out.Verdict,
		Message: out.Status(),
		Written: out.Written,
		DryRun:  out.DryRun,
		Steps:   out.Result.Steps,
	}
	if opts.DryRun {
		result.Diff, err = pipeline.UnifiedDiff(path, out.Original, out.Final)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to render diff", err)
		}
	}

	if opts.Journal != "" {
		gen := opts.RunIDs
		if gen == nil {
			gen = store.UUIDv7Generator{}
		}
		result.RunID, err = recordRun(cmd.Context(), opts.Journal, gen.Generate(), rs, out)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to record run", err)
		}
		formatter.VerboseLog("Recorded run %s in %s", result.RunID, opts.Journal)
	}

	if opts.Format == "json" {
		return encodeJSON(formatter.Writer, CLIResponse{Status: "ok", Data: result, RunID: result.RunID})
	}

	w := formatter.Writer
	fmt.Fprintln(w, result.Message)
	if result.Diff != "" {
		fmt.Fprint(w, result.Diff)
	}
	return nil
}

// applyError maps a converge failure to an exit code: document errors are
// command errors, a defective rule is a failure.
func applyError(formatter *OutputFormatter, path string, err error) error {
	var docErr *document.Error
	switch {
	case errors.As(err, &docErr):
		code := ErrCodeGeneric
		switch docErr.Kind {
		case document.NotFound:
			code = ErrCodeNotFound
		case document.ReadError:
			code = ErrCodeReadFailed
		case document.WriteError:
			code = ErrCodeWriteFailed
		}
		return formatter.Fail(ExitCommandError, code, fmt.Sprintf("cannot converge %s", path), err)
	case rule.IsStructural(err):
		return formatter.Fail(ExitFailure, ErrCodeStructural, "defective rule, nothing written", err)
	default:
		return formatter.Fail(ExitFailure, ErrCodeGeneric, fmt.Sprintf("cannot converge %s", path), err)
	}
}

// recordRun writes out to the journal at dbPath and returns the run ID.
func recordRun(ctx context.Context, dbPath, id string, rs *compiler.RuleSet, out *pipeline.Outcome) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	absPath, err := filepath.Abs(out.Path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", out.Path, err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing journal", "error", closeErr)
		}
	}()

	run := store.Run{
		ID:            id,
		Path:          absPath,
		RuleSet:       rs.Decl.Name,
		RuleSetDigest: rs.Digest,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
		BeforeDigest:  ir.TextDigest(out.Original),
		AfterDigest:   ir.TextDigest(out.Final),
		Verdict:       out.Verdict.String(),
		Written:       out.Written,
		DryRun:        out.DryRun,
		ChangedRules:  out.Result.ChangedRules(),
		Outcomes:      make([]store.RuleOutcome, len(out.Result.Steps)),
	}
	for i, s := range out.Result.Steps {
		run.Outcomes[i] = store.RuleOutcome{
			Position: i,
			Rule:     s.Rule,
			Kind:     string(s.Kind),
			Status:   string(s.Status),
			Changed:  s.Changed,
			Count:    s.Count,
			Note:     s.Note,
		}
	}

	seq, err := st.WriteRun(ctx, run)
	if err != nil {
		return "", err
	}
	slog.Debug("run recorded", "id", id, "seq", seq, "path", absPath)
	return id, nil
}
