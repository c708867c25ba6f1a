package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const rowColumns = "timestamp, year_folder, basename, has_pdf, has_docx, date_parsed, title, status, ocr_used, cleanup_applied, wp_post_id, wp_url, author_set, error_message"

// SQLiteStore keeps the ledger in an append-only SQLite table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite connects to the database at path. The schema is created by Ensure.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Ensure(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (export with 'archivist log export' and recreate the database)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func (s *SQLiteStore) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, row Row) error {
	if err := s.Ensure(ctx); err != nil {
		return err
	}
	row = row.canonical(now)
	var postID any
	if row.PostID > 0 {
		postID = row.PostID
	}
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO ledger_rows (`+rowColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			row.Timestamp.In(time.Local).Format(TimestampLayout),
			row.ContainerLabel,
			row.GroupKey,
			row.HasPrimary,
			row.HasSecondary,
			row.DateParsed,
			row.Title,
			string(row.Outcome),
			row.OCRUsed,
			row.CleanupApplied,
			postID,
			row.PostURL,
			row.AuthorSet,
			row.ErrorMessage,
		)
		if err != nil {
			return fmt.Errorf("insert ledger row: %w", err)
		}
		return nil
	})
}

func (s *SQLiteStore) DoneSet(ctx context.Context) (DoneSet, error) {
	done := make(DoneSet)
	ok, err := s.initialized(ctx)
	if err != nil || !ok {
		return done, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT basename FROM ledger_rows WHERE status IN (?, ?, ?)`,
		string(OutcomePublished), string(OutcomeDraft), string(OutcomeSkipped),
	)
	if err != nil {
		return nil, fmt.Errorf("query done set: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan done set: %w", err)
		}
		done[key] = struct{}{}
	}
	return done, rows.Err()
}

func (s *SQLiteStore) Rows(ctx context.Context) ([]Row, error) {
	ok, err := s.initialized(ctx)
	if err != nil || !ok {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+rowColumns+` FROM ledger_rows ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query ledger rows: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			row     Row
			ts      string
			outcome string
			postID  sql.NullInt64
		)
		if err := rows.Scan(
			&ts, &row.ContainerLabel, &row.GroupKey, &row.HasPrimary, &row.HasSecondary,
			&row.DateParsed, &row.Title, &outcome, &row.OCRUsed, &row.CleanupApplied,
			&postID, &row.PostURL, &row.AuthorSet, &row.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		row.Outcome = Outcome(outcome)
		if postID.Valid {
			row.PostID = postID.Int64
		}
		if parsed, err := time.ParseInLocation(TimestampLayout, ts, time.Local); err == nil {
			row.Timestamp = parsed
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// initialized reports whether the ledger table exists, so reads against a
// fresh database behave like reads of a missing CSV file.
func (s *SQLiteStore) initialized(ctx context.Context) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='ledger_rows'",
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check ledger table: %w", err)
	}
	return count > 0, nil
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
		if lastErr == nil || !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
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
