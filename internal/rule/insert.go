package rule

import (
	"fmt"
	"strings"

	"github.com/roach88/converge/internal/anchor"
	"github.com/roach88/converge/internal/ir"
)

// Placement selects where an insert rule puts its block.
type Placement int

const (
	// After puts the block on new lines directly following the anchor span.
	After Placement = iota

	// Before puts the block as whole lines above the anchor's line.
	Before
)

func (p Placement) String() string {
	switch p {
	case After:
		return ir.PlaceAfter
	case Before:
		return ir.PlaceBefore
	default:
		return fmt.Sprintf("Placement(%d)", int(p))
	}
}

// ParsePlacement maps a declared placement to a Placement. Empty means After.
func ParsePlacement(s string) (Placement, error) {
	switch s {
	case "", ir.PlaceAfter:
		return After, nil
	case ir.PlaceBefore:
		return Before, nil
	default:
		return After, fmt.Errorf("unknown placement %q", s)
	}
}

// Insert adds a fixed block next to an anchor unless its guard is already
// satisfied. Block lines take the indentation of the anchor's line.
type Insert struct {
	name      string
	anchor    anchor.Shape
	block     string
	guard     Guard
	placement Placement
}

// InsertOption configures an Insert rule.
type InsertOption func(*Insert)

// WithGuard replaces the default guard (the block's first line, trimmed).
func WithGuard(g Guard) InsertOption {
	return func(r *Insert) {
		r.guard = g
	}
}

// WithPlacement sets where the block goes relative to the anchor.
func WithPlacement(p Placement) InsertOption {
	return func(r *Insert) {
		r.placement = p
	}
}

// NewInsert builds an insert-after-anchor rule. anchorExpr is an RE2
// pattern; a named group "anchor" narrows the span. Errors are
// *StructuralRuleError.
func NewInsert(name, anchorExpr, block string, opts ...InsertOption) (*Insert, error) {
	if err := requireName(name); err != nil {
		return nil, err
	}
	re, err := compilePattern(name, "anchor", anchorExpr)
	if err != nil {
		return nil, err
	}
	return newInsert(name, anchor.Pattern(re), block, opts)
}

// NewLiteralInsert is like NewInsert but anchors on the exact text marker.
func NewLiteralInsert(name, marker, block string, opts ...InsertOption) (*Insert, error) {
	if err := requireName(name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(marker) == "" {
		return nil, &StructuralRuleError{Rule: name, Message: "anchor marker is required"}
	}
	return newInsert(name, anchor.Literal(marker), block, opts)
}

func newInsert(name string, shape anchor.Shape, block string, opts []InsertOption) (*Insert, error) {
	block = strings.TrimRight(block, "\n")
	if strings.TrimSpace(block) == "" {
		return nil, &StructuralRuleError{Rule: name, Message: "insert block is required"}
	}

	r := &Insert{
		name:   name,
		anchor: shape,
		block:  block,
		guard:  defaultGuard(block),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.guard == nil {
		return nil, &StructuralRuleError{Rule: name, Message: "guard must not be nil"}
	}
	if !r.guard.Satisfied(r.block) {
		// Inserting the block must satisfy the guard, otherwise a second
		// run inserts it again.
		return nil, &StructuralRuleError{
			Rule:    name,
			Message: fmt.Sprintf("block does not satisfy its own guard %s", r.guard),
		}
	}
	return r, nil
}

func (r *Insert) Name() string      { return r.name }
func (r *Insert) Kind() ir.RuleKind { return ir.KindInsert }

// Apply inserts the block unless the anchor is absent or the guard holds.
func (r *Insert) Apply(text string) (Outcome, error) {
	span, ok := anchor.Find(text, r.anchor)
	if !ok {
		out := unchanged(text, StatusAnchorMissing)
		out.Err = &AnchorMissingError{Rule: r.name, Anchor: r.anchor.String()}
		return out, nil
	}
	if r.guard.Satisfied(text) {
		return unchanged(text, StatusSatisfied), nil
	}

	nl := anchor.LineBreak(text, span.Start)
	block := withLineBreak(indentAll(r.block, anchor.Indentation(text, span.Start)), nl)
	var out string
	switch r.placement {
	case Before:
		at := anchor.LineStart(text, span.Start)
		out = text[:at] + block + nl + text[at:]
	default:
		out = text[:span.End] + nl + block + text[span.End:]
	}
	return changed(text, out, 1), nil
}
