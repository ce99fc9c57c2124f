package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/converge/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// Rule set errors (E101-E109)
	ErrRuleSetNameEmpty = "E101" // rule set name is required
	ErrRuleSetNoRules   = "E102" // at least one rule required
	ErrDuplicateName    = "E103" // duplicate rule name
	ErrRuleNameInvalid  = "E104" // rule name is not kebab-case

	// Rule errors (E110-E119)
	ErrUnknownKind      = "E110" // kind is not normalize, purge, or insert
	ErrMissingField     = "E111" // field required by the kind is empty
	ErrFieldNotAllowed  = "E112" // field set that the kind does not use
	ErrInvalidPattern   = "E113" // match, anchor, or guard is not valid RE2
	ErrInvalidPlacement = "E114" // placement is not after or before
)

var ruleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// ValidationError represents a rule-set validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors is returned by Load when a rule set fails validation.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks a rule set for problems the schema cannot express.
// Returns all errors found (does not fail-fast).
func Validate(set *ir.RuleSetDecl) []ValidationError {
	var errs []ValidationError

	// E101: name is required
	if strings.TrimSpace(set.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "rule set name is required and must be non-empty",
			Code:    ErrRuleSetNameEmpty,
		})
	}

	// E102: at least one rule
	if len(set.Rules) == 0 {
		errs = append(errs, ValidationError{
			Field:   "rules",
			Message: "at least one rule is required",
			Code:    ErrRuleSetNoRules,
		})
	}

	names := make(map[string]bool, len(set.Rules))
	for i, d := range set.Rules {
		prefix := fmt.Sprintf("rules[%d]", i)

		// E103: names identify steps in reports
		if names[d.Name] {
			errs = append(errs, ValidationError{
				Field:   prefix + ".name",
				Message: fmt.Sprintf("duplicate rule name: %q", d.Name),
				Code:    ErrDuplicateName,
			})
		}
		names[d.Name] = true

		// E104
		if !ruleNamePattern.MatchString(d.Name) {
			errs = append(errs, ValidationError{
				Field:   prefix + ".name",
				Message: fmt.Sprintf("rule name %q must be lower-case kebab-case", d.Name),
				Code:    ErrRuleNameInvalid,
			})
		}

		errs = append(errs, validateRule(prefix, d)...)
	}

	return errs
}

type fieldCheck struct {
	name string
	set  bool
}

func validateRule(prefix string, d ir.RuleDecl) []ValidationError {
	var (
		errs     []ValidationError
		required []fieldCheck
		unused   []fieldCheck
	)

	switch d.Kind {
	case ir.KindNormalize:
		required = []fieldCheck{{"match", d.Match != ""}, {"canonical", d.Canonical != ""}}
		unused = []fieldCheck{{"keep_first", d.KeepFirst}, {"anchor", d.Anchor != ""}, {"anchor_literal", d.AnchorLiteral}, {"block", d.Block != ""}, {"guard", d.Guard != ""}, {"placement", d.Placement != ""}}
	case ir.KindPurge:
		required = []fieldCheck{{"match", d.Match != ""}}
		unused = []fieldCheck{{"canonical", d.Canonical != ""}, {"all", d.All}, {"anchor", d.Anchor != ""}, {"anchor_literal", d.AnchorLiteral}, {"block", d.Block != ""}, {"guard", d.Guard != ""}, {"placement", d.Placement != ""}}
	case ir.KindInsert:
		required = []fieldCheck{{"anchor", d.Anchor != ""}, {"block", strings.TrimSpace(d.Block) != ""}}
		unused = []fieldCheck{{"match", d.Match != ""}, {"canonical", d.Canonical != ""}, {"all", d.All}, {"keep_first", d.KeepFirst}}
	default:
		// E110: nothing else can be checked without a kind
		return []ValidationError{{
			Field:   prefix + ".kind",
			Message: fmt.Sprintf("unknown rule kind %q, must be \"normalize\", \"purge\", or \"insert\"", d.Kind),
			Code:    ErrUnknownKind,
		}}
	}

	// E111
	for _, f := range required {
		if !f.set {
			errs = append(errs, ValidationError{
				Field:   prefix + "." + f.name,
				Message: fmt.Sprintf("%s rule %q requires %s", d.Kind, d.Name, f.name),
				Code:    ErrMissingField,
			})
		}
	}

	// E112
	for _, f := range unused {
		if f.set {
			errs = append(errs, ValidationError{
				Field:   prefix + "." + f.name,
				Message: fmt.Sprintf("%s is not used by %s rules", f.name, d.Kind),
				Code:    ErrFieldNotAllowed,
			})
		}
	}

	// E113
	patterns := []struct{ field, expr string }{
		{"match", d.Match}, {"guard", d.Guard},
	}
	if !d.AnchorLiteral {
		patterns = append(patterns, struct{ field, expr string }{"anchor", d.Anchor})
	}
	for _, p := range patterns {
		if p.expr == "" {
			continue
		}
		if _, err := regexp.Compile(p.expr); err != nil {
			errs = append(errs, ValidationError{
				Field:   prefix + "." + p.field,
				Message: fmt.Sprintf("invalid pattern: %v", err),
				Code:    ErrInvalidPattern,
			})
		}
	}

	// E114
	if d.Kind == ir.KindInsert && d.Placement != "" && d.Placement != ir.PlaceAfter && d.Placement != ir.PlaceBefore {
		errs = append(errs, ValidationError{
			Field:   prefix + ".placement",
			Message: fmt.Sprintf("invalid placement %q, must be %q or %q", d.Placement, ir.PlaceAfter, ir.PlaceBefore),
			Code:    ErrInvalidPlacement,
		})
	}

	return errs
}
