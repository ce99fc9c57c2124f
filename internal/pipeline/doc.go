// Package pipeline threads an artifact's text through an ordered rule
// sequence and reports whether the run converged to a different text.
//
// A run is a fold: each rule sees the text produced by the previous one,
// never the original. Any rule error aborts the run and no result is
// returned, so a caller cannot commit a half-transformed text.
package pipeline
