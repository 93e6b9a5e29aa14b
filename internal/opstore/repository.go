// Package opstore persists asynchronous DNS jobs across CLI invocations.
//
// Long-running operations (create, delete, import, export) are accepted
// by the API and complete in the background. If the process exits before
// a job finishes, the record stored here lets "dnsm ops resume" pick the
// poll back up later.
//
// Storage is a SQLite database at ~/.config/dnsm/dnsm.db (or the
// platform-equivalent path from os.UserConfigDir).
package opstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	appDir = "dnsm"
	dbFile = "dnsm.db"
)

// pathOverride, when non-empty, replaces the default database path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the database path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override. Intended for testing.
func ResetPath() { pathOverride = "" }

// Repository defines the persistence interface for operation records.
type Repository interface {
	// Save inserts or updates a record. On insert (ID == 0), an ID is
	// assigned to the record.
	Save(record *OperationRecord) error

	// Get retrieves a record by primary key. Returns nil when absent.
	Get(id int64) (*OperationRecord, error)

	// GetByJobID retrieves a record by API job identifier.
	// Returns nil when absent.
	GetByJobID(jobID string) (*OperationRecord, error)

	// ListPending returns all RUNNING records, newest first.
	ListPending() ([]OperationRecord, error)

	// ListRecent returns the most recent n records regardless of state,
	// newest first.
	ListRecent(n int) ([]OperationRecord, error)

	// DeleteOlderThan removes terminal records not updated within d.
	// Returns the number of records removed.
	DeleteOlderThan(d time.Duration) (int64, error)

	// Close releases database resources.
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// DefaultPath returns the default database path.
func DefaultPath() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("opstore: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, dbFile), nil
}

// Open creates or opens the repository at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
// The parent directory is created if it does not exist.
func OpenAt(path string) (*SQLiteRepository, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("opstore: failed to create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opstore: failed to open database: %w", err)
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS operations (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id        TEXT    NOT NULL,
			callback_url  TEXT    NOT NULL DEFAULT '',
			verb          TEXT    NOT NULL DEFAULT '',
			summary       TEXT    NOT NULL DEFAULT '',
			state         TEXT    NOT NULL DEFAULT 'RUNNING',
			error_message TEXT    NOT NULL DEFAULT '',
			created_at    TEXT    NOT NULL DEFAULT (datetime('now')),
			updated_at    TEXT    NOT NULL DEFAULT (datetime('now'))
		);
		CREATE INDEX IF NOT EXISTS idx_operations_state ON operations(state);
		CREATE INDEX IF NOT EXISTS idx_operations_job_id ON operations(job_id);
	`
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("opstore: migration failed: %w", err)
	}
	return nil
}

// Save inserts a new record (ID == 0) or updates an existing one.
func (r *SQLiteRepository) Save(record *OperationRecord) error {
	record.UpdatedAt = time.Now().UTC()

	if record.ID == 0 {
		if record.CreatedAt.IsZero() {
			record.CreatedAt = record.UpdatedAt
		}
		if record.State == "" {
			record.State = StateRunning
		}
		result, err := r.db.Exec(`
			INSERT INTO operations (job_id, callback_url, verb, summary, state, error_message, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			record.JobID, record.CallbackURL, record.Verb, record.Summary,
			record.State, record.ErrorMessage,
			record.CreatedAt.Format(time.RFC3339Nano), record.UpdatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("opstore: insert failed: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("opstore: failed to get last insert ID: %w", err)
		}
		record.ID = id
		return nil
	}

	result, err := r.db.Exec(`
		UPDATE operations SET job_id=?, callback_url=?, verb=?, summary=?,
		       state=?, error_message=?, updated_at=?
		WHERE id=?`,
		record.JobID, record.CallbackURL, record.Verb, record.Summary,
		record.State, record.ErrorMessage,
		record.UpdatedAt.Format(time.RFC3339Nano), record.ID,
	)
	if err != nil {
		return fmt.Errorf("opstore: update failed: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("opstore: operation with ID %d not found", record.ID)
	}
	return nil
}

const selectColumns = `
	SELECT id, job_id, callback_url, verb, summary, state, error_message,
	       created_at, updated_at
	FROM operations`

// Get retrieves a record by primary key.
func (r *SQLiteRepository) Get(id int64) (*OperationRecord, error) {
	row := r.db.QueryRow(selectColumns+` WHERE id = ?`, id)
	record, err := scanRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opstore: query failed: %w", err)
	}
	return record, nil
}

// GetByJobID retrieves a record by API job identifier.
func (r *SQLiteRepository) GetByJobID(jobID string) (*OperationRecord, error) {
	row := r.db.QueryRow(selectColumns+` WHERE job_id = ? ORDER BY id DESC LIMIT 1`, jobID)
	record, err := scanRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opstore: query failed: %w", err)
	}
	return record, nil
}

// ListPending returns all RUNNING records, newest first.
func (r *SQLiteRepository) ListPending() ([]OperationRecord, error) {
	rows, err := r.db.Query(selectColumns + ` WHERE state = 'RUNNING' ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("opstore: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// ListRecent returns the most recent n records regardless of state.
func (r *SQLiteRepository) ListRecent(n int) ([]OperationRecord, error) {
	rows, err := r.db.Query(selectColumns+` ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("opstore: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// DeleteOlderThan removes terminal records not updated within d.
func (r *SQLiteRepository) DeleteOlderThan(d time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-d).Format(time.RFC3339Nano)
	result, err := r.db.Exec(`
		DELETE FROM operations WHERE state != 'RUNNING' AND updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("opstore: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func scanRow(row *sql.Row) (*OperationRecord, error) {
	var record OperationRecord
	var createdStr, updatedStr string
	err := row.Scan(
		&record.ID, &record.JobID, &record.CallbackURL, &record.Verb,
		&record.Summary, &record.State, &record.ErrorMessage,
		&createdStr, &updatedStr,
	)
	if err != nil {
		return nil, err
	}
	record.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	record.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
	return &record, nil
}

func scanRows(rows *sql.Rows) ([]OperationRecord, error) {
	var records []OperationRecord
	for rows.Next() {
		var record OperationRecord
		var createdStr, updatedStr string
		err := rows.Scan(
			&record.ID, &record.JobID, &record.CallbackURL, &record.Verb,
			&record.Summary, &record.State, &record.ErrorMessage,
			&createdStr, &updatedStr,
		)
		if err != nil {
			return nil, fmt.Errorf("opstore: scan failed: %w", err)
		}
		record.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		record.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
		records = append(records, record)
	}
	return records, rows.Err()
}
