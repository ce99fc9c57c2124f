// Package document is the single-artifact store of the convergent patch
// engine.
//
// An Artifact is loaded once, mutated only by the rule pipeline, and
// committed at most once. CommitIfChanged computes the complete content
// before touching the file system and replaces the target atomically, so an
// interrupted or failed write leaves the original bytes in place.
//
// Concurrent runs against the same path are undefined by contract; the
// store does not lock.
package document
