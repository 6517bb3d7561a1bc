package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"paxmatch/internal/failure"
)

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// ErrAmbiguousID is returned when a run id prefix matches more than one run.
var ErrAmbiguousID = errors.New("ambiguous run id")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the ledger database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure ledger directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// RecordRun inserts run with its names and decision files in one transaction.
func (s *Store) RecordRun(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("run id is required")
	}
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		return s.recordRun(ctx, run)
	})
}

func (s *Store) recordRun(ctx context.Context, run *Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	c := run.Counts
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (
            id, started_at, finished_at, status, dry_run,
            roster_count, candidate_count, trivial_count, non_trivial_count,
            confirmed_count, pending_count, flagged_count, ignored_count,
            unmatched_count, unused_count, review_path, error_kind, error_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		formatTime(run.StartedAt),
		nullableTime(run.FinishedAt),
		run.Status,
		boolToInt(run.DryRun),
		c.Roster, c.Candidates, c.Trivial, c.NonTrivial,
		c.Confirmed, c.Pending, c.Flagged, c.Ignored,
		c.Unmatched, c.Unused,
		nullableString(run.ReviewPath),
		nullableString(run.ErrorKind),
		nullableString(run.ErrorMessage),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(run.Names) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_names (run_id, candidate, reference, score, bucket) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare run names: %w", err)
		}
		defer stmt.Close()
		for _, n := range run.Names {
			if _, err := stmt.ExecContext(ctx, run.ID, n.Candidate, nullableString(n.Reference), n.Score, n.Bucket); err != nil {
				return fmt.Errorf("insert run name %q: %w", n.Candidate, err)
			}
		}
	}
	for _, f := range run.DecisionFiles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_decision_files (run_id, path, sha256, size_bytes) VALUES (?, ?, ?, ?)`,
			run.ID, f.Path, f.SHA256, f.Size,
		); err != nil {
			return fmt.Errorf("insert decision file %q: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first, without names or files.
// A non-positive limit returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun fetches a run by full id or unique id prefix, including its names
// and decision files.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, failure.Wrap(failure.ErrNotFound, "ledger", "get run", "empty run id", nil)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE substr(id, 1, length(?)) = ? ORDER BY id LIMIT 2`, id, id)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, failure.Wrap(failure.ErrNotFound, "ledger", "get run", fmt.Sprintf("run %q", id), nil)
	case 1:
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousID, id)
	}

	run := matches[0]
	if run.Names, err = s.runNames(ctx, run.ID); err != nil {
		return nil, err
	}
	if run.DecisionFiles, err = s.runDecisionFiles(ctx, run.ID); err != nil {
		return nil, err
	}
	return run, nil
}

// LastRun returns the most recent run, or nil when the ledger is empty.
func (s *Store) LastRun(ctx context.Context) (*Run, error) {
	runs, err := s.ListRuns(ctx, 1)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return s.GetRun(ctx, runs[0].ID)
}

func (s *Store) runNames(ctx context.Context, runID string) ([]Name, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT candidate, reference, score, bucket FROM run_names WHERE run_id = ? ORDER BY bucket, candidate`, runID)
	if err != nil {
		return nil, fmt.Errorf("list run names: %w", err)
	}
	defer rows.Close()

	var names []Name
	for rows.Next() {
		var (
			n         Name
			reference sql.NullString
			score     sql.NullFloat64
			bucket    string
		)
		if err := rows.Scan(&n.Candidate, &reference, &score, &bucket); err != nil {
			return nil, fmt.Errorf("scan run name: %w", err)
		}
		n.Reference = reference.String
		n.Score = score.Float64
		n.Bucket = Bucket(bucket)
		names = append(names, n)
	}
	return names, rows.Err()
}

func (s *Store) runDecisionFiles(ctx context.Context, runID string) ([]DecisionFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, sha256, size_bytes FROM run_decision_files WHERE run_id = ? ORDER BY path`, runID)
	if err != nil {
		return nil, fmt.Errorf("list decision files: %w", err)
	}
	defer rows.Close()

	var files []DecisionFile
	for rows.Next() {
		var f DecisionFile
		if err := rows.Scan(&f.Path, &f.SHA256, &f.Size); err != nil {
			return nil, fmt.Errorf("scan decision file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
