package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"recroute/internal/config"
	"recroute/internal/session"
)

// Store manages the run journal backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the journal database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.JournalPath())
}

// OpenPath opens the journal at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Pragmas apply per connection.
	db.SetMaxOpenConns(1)

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

	store := &Store{db: db, path: dbPath}
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

// Record journals a finished run with its route outcomes.
func (s *Store) Record(ctx context.Context, result *session.Result, trigger Trigger) error {
	if result == nil {
		return errors.New("result is nil")
	}
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		return s.record(ctx, result, trigger)
	})
}

func (s *Store) record(ctx context.Context, result *session.Result, trigger Trigger) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var errMessage string
	if result.Err != nil {
		errMessage = result.Err.Error()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (
            id, template, triggered_by, state, failed_from, error_message,
            slots_captured, routes_installed, routes_skipped, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID,
		result.Template,
		string(trigger),
		string(result.State),
		nullableString(string(result.FailedFrom)),
		nullableString(errMessage),
		len(result.Slots),
		len(result.Installed),
		len(result.Skipped),
		formatTime(result.StartedAt),
		nullableTime(result.FinishedAt),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	position := 0
	for _, installed := range result.Installed {
		position++
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO route_outcomes (run_id, position, route, outcome, output_port, input_port, reason)
             VALUES (?, ?, ?, ?, ?, ?, NULL)`,
			result.RunID, position, installed.Route, OutcomeInstalled,
			installed.Output.Address(), installed.Input.Address(),
		); err != nil {
			return fmt.Errorf("insert installed route: %w", err)
		}
	}
	for _, skipped := range result.Skipped {
		position++
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO route_outcomes (run_id, position, route, outcome, output_port, input_port, reason)
             VALUES (?, ?, ?, ?, NULL, NULL, ?)`,
			result.RunID, position, skipped.Route, OutcomeSkipped, skipped.Reason,
		); err != nil {
			return fmt.Errorf("insert skipped route: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

const runColumns = "id, template, triggered_by, state, failed_from, error_message, slots_captured, routes_installed, routes_skipped, started_at, finished_at"

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
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

// Latest returns the newest run, or nil when the journal is empty.
func (s *Store) Latest(ctx context.Context) (*Run, error) {
	runs, err := s.Recent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// Outcomes returns the route rows for one run in install order.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]RouteOutcome, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT position, route, outcome, output_port, input_port, reason
         FROM route_outcomes WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []RouteOutcome
	for rows.Next() {
		var (
			outcome             RouteOutcome
			output, input, note sql.NullString
		)
		if err := rows.Scan(&outcome.Position, &outcome.Route, &outcome.Outcome, &output, &input, &note); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		outcome.Output = output.String
		outcome.Input = input.String
		outcome.Reason = note.String
		outcomes = append(outcomes, outcome)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return outcomes, nil
}

// Prune deletes all but the newest keep runs and returns how many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	ctx = ensureContext(ctx)
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			`DELETE FROM runs WHERE id NOT IN (
                SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?
            )`, keep)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return removed, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		trigger     string
		failedFrom  sql.NullString
		errMessage  sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Template,
		&trigger,
		&run.State,
		&failedFrom,
		&errMessage,
		&run.SlotsCaptured,
		&run.RoutesInstalled,
		&run.RoutesSkipped,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Trigger = Trigger(trigger)
	run.FailedFrom = failedFrom.String
	run.ErrorMessage = errMessage.String
	run.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid {
		run.FinishedAt = parseTime(finishedRaw.String)
	}
	return run, nil
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
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
