package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidRun is returned when a run record is missing required fields.
var ErrInvalidRun = errors.New("invalid run record")

// WriteRun records a run and its rule outcomes in one transaction and
// returns the assigned seq.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing the same run ID
// twice keeps the first record and returns its seq.
func (s *Store) WriteRun(ctx context.Context, run Run) (int64, error) {
	if run.ID == "" || run.Path == "" {
		return 0, fmt.Errorf("write run: %w: id and path are required", ErrInvalidRun)
	}
	if run.Verdict != VerdictChanged && run.Verdict != VerdictUnchanged {
		return 0, fmt.Errorf("write run: %w: verdict %q", ErrInvalidRun, run.Verdict)
	}

	changedJSON, err := marshalRuleNames(run.ChangedRules)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write run: next seq: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, path, ruleset, ruleset_digest, engine_version, ir_version,
		 before_digest, after_digest, verdict, written, dry_run, changed_rules)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		seq,
		run.Path,
		run.RuleSet,
		run.RuleSetDigest,
		run.EngineVersion,
		run.IRVersion,
		run.BeforeDigest,
		run.AfterDigest,
		run.Verdict,
		boolToInt(run.Written),
		boolToInt(run.DryRun),
		changedJSON,
	)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("write run: rows affected: %w", err)
	}
	if inserted == 0 {
		if err := tx.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, run.ID).Scan(&seq); err != nil {
			return 0, fmt.Errorf("write run: existing seq: %w", err)
		}
		return seq, tx.Commit()
	}

	for _, o := range run.Outcomes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rule_outcomes
			(run_id, position, rule, kind, status, changed, count, note)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			o.Position,
			o.Rule,
			o.Kind,
			o.Status,
			boolToInt(o.Changed),
			o.Count,
			o.Note,
		)
		if err != nil {
			return 0, fmt.Errorf("write run: outcome %d (%s): %w", o.Position, o.Rule, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write run: commit: %w", err)
	}
	return seq, nil
}
