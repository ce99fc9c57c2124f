package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/converge/internal/ir"
	"github.com/roach88/converge/internal/ruleset"
)

// RulesResult describes the compiled-in rule set.
type RulesResult struct {
	Name          string        `json:"name"`
	Target        string        `json:"target,omitempty"`
	Digest        string        `json:"digest"`
	IRVersion     string        `json:"ir_version"`
	EngineVersion string        `json:"engine_version"`
	Rules         []RuleSummary `json:"rules"`
}

// RuleSummary is one rule in pipeline order.
type RuleSummary struct {
	Position    int         `json:"position"`
	Name        string      `json:"name"`
	Kind        ir.RuleKind `json:"kind"`
	Description string      `json:"description,omitempty"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the compiled-in rules",
		Long: `List the compiled-in rules in the order they run, with the rule-set
fingerprint recorded in the run journal.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(rootOpts, cmd)
		},
	}
	return cmd
}

func runRules(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	rs, err := ruleset.Default()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRuleSet, "failed to load rule set", err)
	}

	result := RulesResult{
		Name:          rs.Decl.Name,
		Target:        rs.Decl.Target,
		Digest:        rs.Digest,
		IRVersion:     ir.IRVersion,
		EngineVersion: ir.EngineVersion,
		Rules:         make([]RuleSummary, len(rs.Decl.Rules)),
	}
	for i, d := range rs.Decl.Rules {
		result.Rules[i] = RuleSummary{
			Position:    i + 1,
			Name:        d.Name,
			Kind:        d.Kind,
			Description: d.Description,
		}
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	header := result.Name
	if result.Target != "" {
		header = fmt.Sprintf("%s (%s)", result.Name, result.Target)
	}
	fmt.Fprintf(w, "%s: %d rule(s)\n", header, len(result.Rules))
	fmt.Fprintf(w, "digest: %s\n\n", result.Digest)
	for _, r := range result.Rules {
		fmt.Fprintf(w, "%3d. %-26s %-9s", r.Position, r.Name, r.Kind)
		if opts.Verbose && r.Description != "" {
			fmt.Fprintf(w, "  %s", r.Description)
		}
		fmt.Fprintln(w)
	}
	return nil
}
