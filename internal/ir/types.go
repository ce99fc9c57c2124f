package ir

// RuleKind identifies which primitive a rule is built from.
type RuleKind string

const (
	// KindNormalize replaces a matched shape with one canonical form.
	KindNormalize RuleKind = "normalize"

	// KindPurge removes every line matching an obsolete or malformed shape.
	KindPurge RuleKind = "purge"

	// KindInsert adds a block next to an anchor unless a guard is satisfied.
	KindInsert RuleKind = "insert"
)

// Placement values for insert rules.
const (
	PlaceAfter  = "after"
	PlaceBefore = "before"
)

// RuleDecl is one declared rule. Which fields are meaningful depends on Kind:
//
//   - normalize: Match, Canonical, All
//   - purge:     Match, KeepFirst
//   - insert:    Anchor, AnchorLiteral, Block, Guard, Placement
type RuleDecl struct {
	Name        string   `json:"name"`
	Kind        RuleKind `json:"kind"`
	Description string   `json:"description,omitempty"`

	// Match is an RE2 pattern for normalize and purge rules.
	Match string `json:"match,omitempty"`

	// Canonical is the literal replacement for normalize rules.
	Canonical string `json:"canonical,omitempty"`

	// All makes a normalize rule replace every match instead of the first.
	All bool `json:"all,omitempty"`

	// KeepFirst makes a purge rule spare its first match.
	KeepFirst bool `json:"keep_first,omitempty"`

	// Anchor is an RE2 pattern locating the insertion point. A named group
	// "anchor" narrows the span to that group.
	Anchor string `json:"anchor,omitempty"`

	// AnchorLiteral makes Anchor an exact text marker instead of a pattern.
	AnchorLiteral bool `json:"anchor_literal,omitempty"`

	// Block is the text inserted by an insert rule, without indentation.
	Block string `json:"block,omitempty"`

	// Guard is an RE2 pattern; when it matches anywhere, the insert is a no-op.
	Guard string `json:"guard,omitempty"`

	// Placement is PlaceAfter (default) or PlaceBefore.
	Placement string `json:"placement,omitempty"`
}

// RuleSetDecl is an ordered, named sequence of rule declarations.
type RuleSetDecl struct {
	Name   string     `json:"name"`
	Target string     `json:"target,omitempty"`
	Rules  []RuleDecl `json:"rules"`
}

// Names returns the rule names in declaration order.
func (s RuleSetDecl) Names() []string {
	names := make([]string, len(s.Rules))
	for i, r := range s.Rules {
		names[i] = r.Name
	}
	return names
}

// toCanonicalMap converts a declaration to a map for canonical JSON.
// Empty optional fields are omitted so adding a new optional field does not
// change the fingerprint of existing rule sets.
func (d RuleDecl) toCanonicalMap() map[string]any {
	m := map[string]any{
		"name": d.Name,
		"kind": string(d.Kind),
	}
	optional := map[string]string{
		"match":     d.Match,
		"canonical": d.Canonical,
		"anchor":    d.Anchor,
		"block":     d.Block,
		"guard":     d.Guard,
		"placement": d.Placement,
	}
	for k, v := range optional {
		if v != "" {
			m[k] = v
		}
	}
	if d.All {
		m["all"] = true
	}
	if d.AnchorLiteral {
		m["anchor_literal"] = true
	}
	if d.KeepFirst {
		m["keep_first"] = true
	}
	return m
}
