// Package rule implements the three idempotent text-rewriting primitives of
// the convergent patch engine.
//
//   - Normalize collapses every known-bad spelling of a construct into one
//     canonical form.
//   - Purge removes garbage lines left by earlier, careless edits.
//   - Insert adds a block next to an anchor unless a guard says the block
//     (or its defining token) already exists.
//
// A Rule is a pure function of the current text. It never sees the text as
// it was loaded, only the cumulative result of the rules before it.
// Applying a rule twice in a row must give the same text as applying it
// once; rule tests check that property for every primitive.
package rule
