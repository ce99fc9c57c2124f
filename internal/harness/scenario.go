package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Scenario defines one convergence check.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Input is the text the rules start from.
	Input string `yaml:"input,omitempty"`

	// InputFile loads the input from a file instead. Relative paths are
	// resolved against the scenario file's directory.
	InputFile string `yaml:"input_file,omitempty"`

	// Expected is the exact text the run must produce. Nil means the
	// output is checked only by assertions and golden files.
	Expected *string `yaml:"expected,omitempty"`

	// Assertions validate the run.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Assertion validates one property of a run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Verdict is "changed" or "unchanged" (used by verdict).
	Verdict string `yaml:"verdict,omitempty"`

	// Rules is the exact ordered list of rules that edited the text
	// (used by rules_changed). An empty list asserts that none did.
	Rules []string `yaml:"rules,omitempty"`

	// Rule and Status are used by rule_status.
	Rule   string `yaml:"rule,omitempty"`
	Status string `yaml:"status,omitempty"`

	// Text is searched for in the output (used by contains, not_contains,
	// and count).
	Text string `yaml:"text,omitempty"`

	// Count is the expected number of occurrences (used by count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertVerdict      = "verdict"
	AssertRulesChanged = "rules_changed"
	AssertRuleStatus   = "rule_status"
	AssertContains     = "contains"
	AssertNotContains  = "not_contains"
	AssertCount        = "count"
)

var validStatuses = []string{"applied", "satisfied", "no-match", "anchor-missing"}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.InputFile != "" {
		inputPath := scenario.InputFile
		if !filepath.IsAbs(inputPath) {
			inputPath = filepath.Join(filepath.Dir(path), inputPath)
		}
		input, err := os.ReadFile(inputPath)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario: input_file: %w", err)
		}
		scenario.InputFile = inputPath
		scenario.Input = string(input)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Input == "" {
		return fmt.Errorf("input or input_file is required")
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertVerdict:
		if a.Verdict != "changed" && a.Verdict != "unchanged" {
			return fmt.Errorf("assertions[%d]: verdict must be \"changed\" or \"unchanged\", got %q", index, a.Verdict)
		}
	case AssertRulesChanged:
		// An empty list is meaningful.
	case AssertRuleStatus:
		if a.Rule == "" {
			return fmt.Errorf("assertions[%d]: rule is required for rule_status", index)
		}
		if !slices.Contains(validStatuses, a.Status) {
			return fmt.Errorf("assertions[%d]: unknown status %q for rule_status", index, a.Status)
		}
	case AssertContains, AssertNotContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for %s", index, a.Type)
		}
	case AssertCount:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
