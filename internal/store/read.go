package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned by ReadRun for an unknown ID.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `id, seq, path, ruleset, ruleset_digest, engine_version, ir_version,
	before_digest, after_digest, verdict, written, dry_run, changed_rules`

// ListRuns returns the most recent runs, oldest first. An empty path lists
// runs for every path; limit <= 0 means no limit.
//
// Returns an empty slice (not nil) when nothing is recorded.
func (s *Store) ListRuns(ctx context.Context, path string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+` FROM (
			SELECT `+runColumns+`
			FROM runs
			WHERE ? = '' OR path = ?
			ORDER BY seq DESC, id COLLATE BINARY DESC
			LIMIT ?
		)
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, path, path, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns one run with its rule outcomes in pipeline order.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT position, rule, kind, status, changed, count, note
		FROM rule_outcomes
		WHERE run_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return Run{}, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	run.Outcomes = []RuleOutcome{}
	for rows.Next() {
		var (
			o       RuleOutcome
			changed int
		)
		if err := rows.Scan(&o.Position, &o.Rule, &o.Kind, &o.Status, &changed, &o.Count, &o.Note); err != nil {
			return Run{}, fmt.Errorf("scan outcome: %w", err)
		}
		o.Changed = changed == 1
		run.Outcomes = append(run.Outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("iterate outcomes: %w", err)
	}
	return run, nil
}

// RuleStats counts runs per rule and status, ordered by rule then status.
func (s *Store) RuleStats(ctx context.Context) ([]RuleStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rule, status, COUNT(*)
		FROM rule_outcomes
		GROUP BY rule, status
		ORDER BY rule COLLATE BINARY ASC, status COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query rule stats: %w", err)
	}
	defer rows.Close()

	stats := []RuleStat{}
	for rows.Next() {
		var st RuleStat
		if err := rows.Scan(&st.Rule, &st.Status, &st.Runs); err != nil {
			return nil, fmt.Errorf("scan rule stat: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rule stats: %w", err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run          Run
		written, dry int
		changedRaw   string
	)
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.Path,
		&run.RuleSet,
		&run.RuleSetDigest,
		&run.EngineVersion,
		&run.IRVersion,
		&run.BeforeDigest,
		&run.AfterDigest,
		&run.Verdict,
		&written,
		&dry,
		&changedRaw,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Written = written == 1
	run.DryRun = dry == 1
	if run.ChangedRules, err = unmarshalRuleNames(changedRaw); err != nil {
		return Run{}, err
	}
	return run, nil
}
