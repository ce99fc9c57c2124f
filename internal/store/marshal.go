package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/converge/internal/ir"
)

// marshalRuleNames converts rule names to canonical JSON TEXT for storage.
// An empty list is stored as [] rather than null.
func marshalRuleNames(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	data, err := ir.MarshalCanonical(names)
	if err != nil {
		return "", fmt.Errorf("marshal rule names: %w", err)
	}
	return string(data), nil
}

// unmarshalRuleNames parses a stored rule-name list.
func unmarshalRuleNames(s string) ([]string, error) {
	names := []string{}
	if err := json.Unmarshal([]byte(s), &names); err != nil {
		return nil, fmt.Errorf("unmarshal rule names: %w", err)
	}
	return names, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
