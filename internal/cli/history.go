package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/converge/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Journal string
	Limit   int
	RunID   string // optional - show one run with its rule outcomes
	Stats   bool
}

// HistoryEntry is one recorded run.
type HistoryEntry struct {
	store.Run
	RecordedAt string `json:"recorded_at,omitempty"`
}

// HistoryResult holds the history output.
type HistoryResult struct {
	Path  string           `json:"path,omitempty"`
	Runs  []HistoryEntry   `json:"runs"`
	Stats []store.RuleStat `json:"stats,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "List runs recorded in a journal",
		Long: `List converge runs recorded with apply --journal, oldest first.

With a path, only runs over that file are listed. With --run, one run is
shown with the status every rule reached.

Examples:
  converge history --journal ./converge.db
  converge history --journal ./converge.db route.ts --limit 5
  converge history --journal ./converge.db --run 0190b2f0-...
  converge history --journal ./converge.db --stats --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runHistory(opts, path, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("journal")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "show at most this many recent runs (0 for all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show one run with its rule outcomes")
	cmd.Flags().BoolVar(&opts.Stats, "stats", false, "include per-rule status counts")

	return cmd
}

func runHistory(opts *HistoryOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := os.Stat(opts.Journal); os.IsNotExist(err) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("journal not found: %s", opts.Journal), nil)
	}

	st, err := store.Open(opts.Journal)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to open journal", err)
	}
	defer st.Close()

	if opts.RunID != "" {
		run, err := st.ReadRun(ctx, opts.RunID)
		if errors.Is(err, store.ErrRunNotFound) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("run not found: %s", opts.RunID), nil)
		}
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to read run", err)
		}
		entry := newHistoryEntry(run)
		if opts.Format == "json" {
			return formatter.Success(entry)
		}
		outputRunText(formatter, entry)
		return nil
	}

	result := HistoryResult{}
	if path != "" {
		if result.Path, err = filepath.Abs(path); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to resolve path", err)
		}
	}

	runs, err := st.ListRuns(ctx, result.Path, opts.Limit)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to list runs", err)
	}
	result.Runs = make([]HistoryEntry, len(runs))
	for i, r := range runs {
		result.Runs[i] = newHistoryEntry(r)
	}

	if opts.Stats {
		if result.Stats, err = st.RuleStats(ctx); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to aggregate rule outcomes", err)
		}
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	outputHistoryText(formatter, result)
	return nil
}

func newHistoryEntry(r store.Run) HistoryEntry {
	entry := HistoryEntry{Run: r}
	if t, ok := store.RunTime(r.ID); ok {
		entry.RecordedAt = t.Format(time.RFC3339)
	}
	return entry
}

func outputHistoryText(formatter *OutputFormatter, result HistoryResult) {
	w := formatter.Writer

	if len(result.Runs) == 0 {
		if result.Path != "" {
			fmt.Fprintf(w, "No runs recorded for %s\n", result.Path)
		} else {
			fmt.Fprintln(w, "No runs recorded.")
		}
	}

	for _, r := range result.Runs {
		fmt.Fprintf(w, "#%d  %-20s  %-9s  %-11s  %s\n",
			r.Seq, orDash(r.RecordedAt), r.Verdict, disposition(r.Run), r.Path)
		if len(r.ChangedRules) > 0 {
			fmt.Fprintf(w, "     %s\n", strings.Join(r.ChangedRules, ", "))
		}
		formatter.VerboseLog("     id=%s ruleset=%s digest=%s", r.ID, r.RuleSet, r.RuleSetDigest)
	}

	if len(result.Stats) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Rule outcomes:")
		for _, s := range result.Stats {
			fmt.Fprintf(w, "  %-28s %-15s %d\n", s.Rule, s.Status, s.Runs)
		}
	}
}

func outputRunText(formatter *OutputFormatter, entry HistoryEntry) {
	w := formatter.Writer
	fmt.Fprintf(w, "Run %s (#%d)\n", entry.ID, entry.Seq)
	fmt.Fprintf(w, "  path:     %s\n", entry.Path)
	fmt.Fprintf(w, "  recorded: %s\n", orDash(entry.RecordedAt))
	fmt.Fprintf(w, "  verdict:  %s (%s)\n", entry.Verdict, disposition(entry.Run))
	fmt.Fprintf(w, "  ruleset:  %s %s\n", entry.RuleSet, entry.RuleSetDigest)
	fmt.Fprintf(w, "  engine:   %s (ir %s)\n", entry.EngineVersion, entry.IRVersion)
	fmt.Fprintln(w)
	for _, o := range entry.Outcomes {
		fmt.Fprintf(w, "  %3d. %-28s %s", o.Position+1, o.Rule, o.Status)
		if o.Note != "" {
			fmt.Fprintf(w, "  (%s)", o.Note)
		}
		fmt.Fprintln(w)
	}
}

func disposition(r store.Run) string {
	switch {
	case r.DryRun:
		return "dry-run"
	case r.Written:
		return "written"
	default:
		return "not written"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
