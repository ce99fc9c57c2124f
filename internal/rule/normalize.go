package rule

import (
	"regexp"
	"strings"

	"github.com/roach88/converge/internal/anchor"
	"github.com/roach88/converge/internal/ir"
)

// Normalize replaces a matched shape with one canonical spelling.
//
// The match shape should begin at a unique left-hand token (an identifier
// and its assignment, say) so it cannot drift onto unrelated statements,
// and the canonical form should itself match the shape. Then a second
// application replaces the canonical text with itself and reports
// StatusSatisfied.
//
// A named group "anchor" in the match shape narrows the replaced span to
// that group; the rest of the match is context that must be present but
// is left alone.
//
// The canonical form is literal text; "$" has no special meaning. A
// multi-line canonical form is re-indented to the indentation of the line
// where the replaced span starts.
type Normalize struct {
	name      string
	match     *regexp.Regexp
	group     int
	canonical string
	all       bool
}

// NormalizeOption configures a Normalize rule.
type NormalizeOption func(*Normalize)

// ReplaceAll makes the rule rewrite every match instead of only the first.
func ReplaceAll() NormalizeOption {
	return func(n *Normalize) {
		n.all = true
	}
}

// NewNormalize builds a normalize rule. Errors are *StructuralRuleError.
func NewNormalize(name, match, canonical string, opts ...NormalizeOption) (*Normalize, error) {
	if err := requireName(name); err != nil {
		return nil, err
	}
	re, err := compilePattern(name, "match", match)
	if err != nil {
		return nil, err
	}
	if canonical == "" {
		return nil, &StructuralRuleError{Rule: name, Message: "canonical form is required"}
	}
	n := &Normalize{name: name, match: re, group: re.SubexpIndex(anchor.GroupName), canonical: canonical}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

func (n *Normalize) Name() string      { return n.name }
func (n *Normalize) Kind() ir.RuleKind { return ir.KindNormalize }

// Apply rewrites the first match (or every match with ReplaceAll).
func (n *Normalize) Apply(text string) (Outcome, error) {
	limit := 1
	if n.all {
		limit = -1
	}
	locs := n.match.FindAllStringSubmatchIndex(text, limit)
	if len(locs) == 0 {
		return unchanged(text, StatusNoMatch), nil
	}

	var b strings.Builder
	b.Grow(len(text))
	prev, edits := 0, 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if n.group > 0 && loc[2*n.group] >= 0 {
			start, end = loc[2*n.group], loc[2*n.group+1]
		}
		replacement := withLineBreak(
			indentTail(n.canonical, anchor.Indentation(text, start)),
			anchor.LineBreak(text, start),
		)
		if text[start:end] != replacement {
			edits++
		}
		b.WriteString(text[prev:start])
		b.WriteString(replacement)
		prev = end
	}
	b.WriteString(text[prev:])

	return changed(text, b.String(), edits), nil
}
