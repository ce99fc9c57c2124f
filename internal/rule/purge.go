package rule

import (
	"regexp"
	"strings"

	"github.com/roach88/converge/internal/anchor"
	"github.com/roach88/converge/internal/ir"
)

// Purge removes every match of an obsolete or malformed shape in one pass.
//
// When the rest of the line around a match is blank, the whole line goes,
// terminator included, so no empty line is left where the fragment was.
// Otherwise only the matched span is removed.
type Purge struct {
	name      string
	match     *regexp.Regexp
	keepFirst bool
}

// PurgeOption configures a Purge rule.
type PurgeOption func(*Purge)

// KeepFirst spares the first match. Used to drop duplicate declarations.
func KeepFirst() PurgeOption {
	return func(p *Purge) {
		p.keepFirst = true
	}
}

// NewPurge builds a purge rule. Errors are *StructuralRuleError.
func NewPurge(name, match string, opts ...PurgeOption) (*Purge, error) {
	if err := requireName(name); err != nil {
		return nil, err
	}
	re, err := compilePattern(name, "match", match)
	if err != nil {
		return nil, err
	}
	p := &Purge{name: name, match: re}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Purge) Name() string      { return p.name }
func (p *Purge) Kind() ir.RuleKind { return ir.KindPurge }

// Apply removes all matches (all but the first with KeepFirst).
func (p *Purge) Apply(text string) (Outcome, error) {
	locs := p.match.FindAllStringIndex(text, -1)
	if p.keepFirst && len(locs) > 0 {
		locs = locs[1:]
	}
	if len(locs) == 0 {
		if p.keepFirst && p.match.MatchString(text) {
			return unchanged(text, StatusSatisfied), nil
		}
		return unchanged(text, StatusNoMatch), nil
	}

	cuts := make([]anchor.Span, 0, len(locs))
	for _, loc := range locs {
		cut := removalSpan(text, loc[0], loc[1])
		if n := len(cuts); n > 0 && cut.Start <= cuts[n-1].End {
			if cut.End > cuts[n-1].End {
				cuts[n-1].End = cut.End
			}
			continue
		}
		cuts = append(cuts, cut)
	}

	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, c := range cuts {
		b.WriteString(text[prev:c.Start])
		prev = c.End
	}
	b.WriteString(text[prev:])

	return changed(text, b.String(), len(locs)), nil
}

// removalSpan widens [start, end) to whole lines when nothing but
// whitespace shares those lines with the match.
func removalSpan(text string, start, end int) anchor.Span {
	lineStart := anchor.LineStart(text, start)

	// The match may already include its line terminator.
	last := end - 1
	var lineEnd int
	if text[last] == '\n' {
		lineEnd = last
	} else {
		lineEnd = anchor.LineEnd(text, last)
	}

	before := text[lineStart:start]
	after := ""
	if end <= lineEnd {
		after = text[end:lineEnd]
	}
	if !isBlank(before) || !isBlank(after) {
		return anchor.Span{Start: start, End: end}
	}

	if lineEnd < len(text) {
		return anchor.Span{Start: lineStart, End: lineEnd + 1}
	}
	// Last line without a terminator: take the preceding newline instead.
	if lineStart > 0 {
		return anchor.Span{Start: lineStart - 1, End: lineEnd}
	}
	return anchor.Span{Start: lineStart, End: lineEnd}
}
