// Package anchor locates stable reference points in artifact text.
//
// Every lookup is first-match and fail-soft: an absent anchor is reported
// as ok=false, never as an error. Anchors are computed fresh against the
// current text each time; nothing is cached between rule applications.
package anchor

import (
	"fmt"
	"regexp"
	"strings"
)

// GroupName is the capture group that narrows a pattern's span.
const GroupName = "anchor"

// Span is a half-open byte range [Start, End) within a text.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Shape identifies an anchor. Implementations are Literal and Pattern.
type Shape interface {
	locate(text string) (Span, bool)
	String() string
}

type literal string

// Literal returns a shape matching the exact marker string s.
func Literal(s string) Shape {
	return literal(s)
}

func (l literal) locate(text string) (Span, bool) {
	if l == "" {
		return Span{}, false
	}
	i := strings.Index(text, string(l))
	if i < 0 {
		return Span{}, false
	}
	return Span{Start: i, End: i + len(l)}, true
}

func (l literal) String() string {
	return fmt.Sprintf("literal(%q)", string(l))
}

type pattern struct {
	re    *regexp.Regexp
	group int
}

// Pattern returns a shape matching re. If re has a named group "anchor",
// the span is that group rather than the whole match.
func Pattern(re *regexp.Regexp) Shape {
	return pattern{re: re, group: re.SubexpIndex(GroupName)}
}

func (p pattern) locate(text string) (Span, bool) {
	loc := p.re.FindStringSubmatchIndex(text)
	if loc == nil {
		return Span{}, false
	}
	if p.group > 0 && loc[2*p.group] >= 0 {
		return Span{Start: loc[2*p.group], End: loc[2*p.group+1]}, true
	}
	return Span{Start: loc[0], End: loc[1]}, true
}

func (p pattern) String() string {
	return fmt.Sprintf("pattern(%q)", p.re.String())
}

// Find returns the first occurrence of shape in text.
func Find(text string, shape Shape) (Span, bool) {
	return shape.locate(text)
}

// LineStart returns the index of the first byte of the line containing pos.
func LineStart(text string, pos int) int {
	return strings.LastIndexByte(text[:pos], '\n') + 1
}

// LineEnd returns the index of the newline terminating the line containing
// pos, or len(text) for the last line.
func LineEnd(text string, pos int) int {
	i := strings.IndexByte(text[pos:], '\n')
	if i < 0 {
		return len(text)
	}
	return pos + i
}

// Indentation returns the leading spaces and tabs of the line containing pos.
func Indentation(text string, pos int) string {
	start := LineStart(text, pos)
	end := start
	for end < len(text) && (text[end] == ' ' || text[end] == '\t') {
		end++
	}
	return text[start:end]
}

// LineBreak returns the terminator of the line containing pos: "\r\n" or
// "\n". The last line of a text has none of its own, so it follows the
// text's first line.
func LineBreak(text string, pos int) string {
	end := LineEnd(text, pos)
	if end == len(text) {
		end = strings.IndexByte(text, '\n')
		if end < 0 {
			return "\n"
		}
	}
	if end > 0 && text[end-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
