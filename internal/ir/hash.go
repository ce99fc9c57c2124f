package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for algorithm migration.
const (
	DomainRuleSet = "converge/ruleset/v1"
	DomainText    = "converge/text/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RuleSetDigest fingerprints a rule set. Descriptions are excluded; rule
// order is significant.
func RuleSetDigest(set RuleSetDecl) (string, error) {
	rules := make([]any, len(set.Rules))
	for i, r := range set.Rules {
		rules[i] = r.toCanonicalMap()
	}
	obj := map[string]any{
		"name":       set.Name,
		"ir_version": IRVersion,
		"rules":      rules,
	}
	if set.Target != "" {
		obj["target"] = set.Target
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("RuleSetDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRuleSet, canonical), nil
}

// MustRuleSetDigest is like RuleSetDigest but panics on error.
// Use only when the declarations are known to be valid.
func MustRuleSetDigest(set RuleSetDecl) string {
	d, err := RuleSetDigest(set)
	if err != nil {
		panic(err)
	}
	return d
}

// TextDigest hashes artifact text byte-for-byte. No normalization is
// applied; two texts differing only in Unicode form hash differently.
func TextDigest(text string) string {
	return hashWithDomain(DomainText, []byte(text))
}
