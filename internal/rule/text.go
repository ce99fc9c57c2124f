package rule

import (
	"fmt"
	"regexp"
	"strings"
)

// indentTail prefixes every non-empty line of block after the first with
// indent. The first line is placed by the caller.
func indentTail(block, indent string) string {
	if !strings.Contains(block, "\n") || indent == "" {
		return block
	}
	lines := strings.Split(block, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// indentAll prefixes every non-empty line of block with indent.
func indentAll(block, indent string) string {
	if indent == "" {
		return block
	}
	if block != "" {
		block = indent + block
	}
	return indentTail(block, indent)
}

// withLineBreak rewrites the "\n" line breaks of s to nl, so text spliced
// into a CRLF file keeps its line endings.
func withLineBreak(s, nl string) string {
	if nl == "\n" {
		return s
	}
	return strings.ReplaceAll(s, "\n", nl)
}

func isBlank(s string) bool {
	return strings.TrimLeft(s, " \t\r") == ""
}

// compilePattern compiles expr and rejects patterns that can match the
// empty string, since those would fire at every position and never
// converge.
func compilePattern(ruleName, field, expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, &StructuralRuleError{Rule: ruleName, Message: field + " pattern is required"}
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &StructuralRuleError{Rule: ruleName, Message: "invalid " + field + " pattern", Err: err}
	}
	if re.MatchString("") {
		return nil, &StructuralRuleError{
			Rule:    ruleName,
			Message: fmt.Sprintf("%s pattern %q matches the empty string", field, expr),
		}
	}
	return re, nil
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &StructuralRuleError{Rule: name, Message: "rule name is required"}
	}
	return nil
}
