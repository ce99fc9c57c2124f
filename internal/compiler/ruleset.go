package compiler

import (
	_ "embed"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/converge/internal/ir"
)

//go:embed schema.cue
var schemaSource string

// CompileSource parses a CUE rule-set document, checks it against the
// rule-set schema, and returns its declarations.
//
// The document is the rule set itself:
//
//	name: "generate-route"
//	rules: [{name: "keep-bg", kind: "normalize", match: #"..."#, canonical: "..."}]
func CompileSource(filename string, src []byte) (*ir.RuleSetDecl, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v = schema.LookupPath(cue.ParsePath("#RuleSet")).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	return CompileRuleSet(v)
}

// CompileRuleSet parses a CUE value into a RuleSetDecl. The value is not
// checked against the schema; use CompileSource for untrusted input.
func CompileRuleSet(v cue.Value) (*ir.RuleSetDecl, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	set := &ir.RuleSetDecl{}
	var err error

	if set.Name, err = requiredString(v, "name"); err != nil {
		return nil, err
	}
	if set.Target, err = optionalString(v, "target"); err != nil {
		return nil, err
	}

	rulesVal := v.LookupPath(cue.ParsePath("rules"))
	if !rulesVal.Exists() {
		return nil, &CompileError{
			Field:   "rules",
			Message: "rules is required",
			Pos:     v.Pos(),
		}
	}
	iter, err := rulesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		decl, err := compileRule(iter.Value())
		if err != nil {
			return nil, err
		}
		set.Rules = append(set.Rules, decl)
	}

	return set, nil
}

func compileRule(v cue.Value) (ir.RuleDecl, error) {
	var (
		d   ir.RuleDecl
		err error
	)

	if d.Name, err = requiredString(v, "name"); err != nil {
		return d, err
	}
	kind, err := requiredString(v, "kind")
	if err != nil {
		return d, err
	}
	d.Kind = ir.RuleKind(kind)

	strs := []struct {
		field string
		dst   *string
	}{
		{"description", &d.Description},
		{"match", &d.Match},
		{"canonical", &d.Canonical},
		{"anchor", &d.Anchor},
		{"block", &d.Block},
		{"guard", &d.Guard},
		{"placement", &d.Placement},
	}
	for _, s := range strs {
		if *s.dst, err = optionalString(v, s.field); err != nil {
			return d, err
		}
	}

	if d.All, err = optionalBool(v, "all"); err != nil {
		return d, err
	}
	if d.KeepFirst, err = optionalBool(v, "keep_first"); err != nil {
		return d, err
	}
	if d.AnchorLiteral, err = optionalBool(v, "anchor_literal"); err != nil {
		return d, err
	}

	return d, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalBool(v cue.Value, field string) (bool, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return false, nil
	}
	b, err := fv.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}
