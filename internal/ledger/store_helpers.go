package ledger

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

const runColumns = "id, started_at, finished_at, status, dry_run, roster_count, candidate_count, trivial_count, non_trivial_count, confirmed_count, pending_count, flagged_count, ignored_count, unmatched_count, unused_count, review_path, error_kind, error_message"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run          Run
		startedRaw   string
		finishedRaw  sql.NullString
		status       string
		dryRun       int
		reviewPath   sql.NullString
		errorKind    sql.NullString
		errorMessage sql.NullString
		c            = &run.Counts
	)
	if err := scanner.Scan(
		&run.ID,
		&startedRaw,
		&finishedRaw,
		&status,
		&dryRun,
		&c.Roster, &c.Candidates, &c.Trivial, &c.NonTrivial,
		&c.Confirmed, &c.Pending, &c.Flagged, &c.Ignored,
		&c.Unmatched, &c.Unused,
		&reviewPath,
		&errorKind,
		&errorMessage,
	); err != nil {
		return nil, err
	}
	run.Status = Status(status)
	run.DryRun = dryRun != 0
	run.ReviewPath = reviewPath.String
	run.ErrorKind = errorKind.String
	run.ErrorMessage = errorMessage.String
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = finished
		}
	}
	return &run, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// timeLayout keeps a fixed fraction width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(value time.Time) string {
	return value.UTC().Format(timeLayout)
}

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return formatTime(value)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
