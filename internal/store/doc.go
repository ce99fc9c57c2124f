// Package store provides the SQLite-backed run journal.
//
// Each converge run may be recorded with:
//   - Runs: path, rule-set fingerprint, before/after text digests, verdict
//   - Rule outcomes: the per-rule status of that run, in pipeline order
//
// The journal is append-only history. It is never consulted to decide
// edits; the file system alone carries state between runs.
//
// # Ordering
//
// Runs are ordered by seq, a logical clock assigned inside the insert
// transaction. Queries order by seq and then by id COLLATE BINARY so that
// results are deterministic. Run IDs are UUIDv7, so the wall-clock time of
// a run can still be recovered from its ID for display.
//
// # Lifecycle
//
// A journal is opened for one command (apply --journal, history), used,
// and closed. Open creates the file on first use and upgrades older
// journals through the ordered migrations list, tracked in PRAGMA
// user_version.
package store
