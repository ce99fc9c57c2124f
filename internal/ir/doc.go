// Package ir defines the declarative intermediate representation for
// converge rule sets.
//
// A rule set is authored in CUE, compiled by internal/compiler into
// RuleSetDecl values, and turned into executable rules by the same
// compiler. The IR is plain data: it carries no compiled regexps and no
// behaviour, so it can be fingerprinted and listed without being run.
//
// # Identity
//
// RuleSetDigest fingerprints a rule set through RFC 8785 canonical JSON and
// domain-separated SHA-256. Two builds that carry the same declarations in
// the same order produce the same fingerprint. TextDigest hashes artifact
// text byte-for-byte and is what the run journal records.
package ir
