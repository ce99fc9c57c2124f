package compiler

import (
	"fmt"
	"regexp"

	"github.com/roach88/converge/internal/ir"
	"github.com/roach88/converge/internal/rule"
)

// RuleSet is a compiled rule set ready to run.
type RuleSet struct {
	Decl   *ir.RuleSetDecl
	Rules  []rule.Rule
	Digest string
}

// Load compiles, validates, and builds a CUE rule-set document.
// Errors are *CompileError, ValidationErrors, or *rule.StructuralRuleError.
func Load(filename string, src []byte) (*RuleSet, error) {
	decl, err := CompileSource(filename, src)
	if err != nil {
		return nil, err
	}
	if errs := Validate(decl); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	rules, err := Build(decl)
	if err != nil {
		return nil, err
	}
	digest, err := ir.RuleSetDigest(*decl)
	if err != nil {
		return nil, fmt.Errorf("fingerprint rule set %q: %w", decl.Name, err)
	}
	return &RuleSet{Decl: decl, Rules: rules, Digest: digest}, nil
}

// Build turns declarations into executable rules, preserving order.
func Build(set *ir.RuleSetDecl) ([]rule.Rule, error) {
	rules := make([]rule.Rule, 0, len(set.Rules))
	for _, d := range set.Rules {
		r, err := BuildRule(d)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// BuildRule constructs the rule primitive for one declaration.
func BuildRule(d ir.RuleDecl) (rule.Rule, error) {
	switch d.Kind {
	case ir.KindNormalize:
		var opts []rule.NormalizeOption
		if d.All {
			opts = append(opts, rule.ReplaceAll())
		}
		r, err := rule.NewNormalize(d.Name, d.Match, d.Canonical, opts...)
		if err != nil {
			return nil, err
		}
		return r, nil

	case ir.KindPurge:
		var opts []rule.PurgeOption
		if d.KeepFirst {
			opts = append(opts, rule.KeepFirst())
		}
		r, err := rule.NewPurge(d.Name, d.Match, opts...)
		if err != nil {
			return nil, err
		}
		return r, nil

	case ir.KindInsert:
		placement, err := rule.ParsePlacement(d.Placement)
		if err != nil {
			return nil, &rule.StructuralRuleError{Rule: d.Name, Message: "invalid placement", Err: err}
		}
		opts := []rule.InsertOption{rule.WithPlacement(placement)}
		if d.Guard != "" {
			re, err := regexp.Compile(d.Guard)
			if err != nil {
				return nil, &rule.StructuralRuleError{Rule: d.Name, Message: "invalid guard pattern", Err: err}
			}
			opts = append(opts, rule.WithGuard(rule.Matches(re)))
		}
		newInsert := rule.NewInsert
		if d.AnchorLiteral {
			newInsert = rule.NewLiteralInsert
		}
		r, err := newInsert(d.Name, d.Anchor, d.Block, opts...)
		if err != nil {
			return nil, err
		}
		return r, nil

	default:
		return nil, &rule.StructuralRuleError{
			Rule:    d.Name,
			Message: fmt.Sprintf("unknown rule kind %q", d.Kind),
		}
	}
}
