// Package database records poll operations in SQLite so the history
// command can show what the watcher has been doing.
package database

import (
	"database/sql"
	"fmt"
	"time"

	"cobot-go/internal/database/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// PollOperation is one recorded poll cycle.
type PollOperation struct {
	ID         int64
	ResourceID string
	Operation  string
	Status     string // "running", "success" or "error"
	Bookings   int
	Cancelled  int
	Added      int
	StartedAt  time.Time
	FinishedAt sql.NullTime
}

// SQLiteOperationLog stores poll operations in a SQLite database.
type SQLiteOperationLog struct {
	db   *sql.DB
	path string
}

// NewSQLiteOperationLog opens (creating if necessary) the operation log at
// path and brings its schema up to date. path can be ":memory:".
func NewSQLiteOperationLog(path string) (*SQLiteOperationLog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening operation log: %w", err)
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating operation log: %w", err)
	}

	return &SQLiteOperationLog{db: db, path: path}, nil
}

// CreatePollOperation records the start of a poll cycle with status
// "running".
func (l *SQLiteOperationLog) CreatePollOperation(resourceID string) (*PollOperation, error) {
	startedAt := time.Now().UTC()
	res, err := l.db.Exec(
		`INSERT INTO poll_operations (resource_id, operation, status, started_at) VALUES (?, 'Poll', 'running', ?)`,
		resourceID, startedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating poll operation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading poll operation id: %w", err)
	}
	return &PollOperation{
		ID:         id,
		ResourceID: resourceID,
		Operation:  "Poll",
		Status:     "running",
		StartedAt:  startedAt,
	}, nil
}

// FinishPollOperation records the outcome of a poll cycle.
func (l *SQLiteOperationLog) FinishPollOperation(id int64, status string, bookings, cancelled, added int) error {
	res, err := l.db.Exec(
		`UPDATE poll_operations SET status = ?, bookings = ?, cancelled = ?, added = ?, finished_at = ? WHERE id = ?`,
		status, bookings, cancelled, added, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("finishing poll operation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("poll operation %d not found", id)
	}
	return nil
}

// ListPollOperations returns the most recent operations, newest first.
func (l *SQLiteOperationLog) ListPollOperations(limit int) ([]*PollOperation, error) {
	rows, err := l.db.Query(
		`SELECT id, resource_id, operation, status, bookings, cancelled, added, started_at, finished_at
		 FROM poll_operations ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing poll operations: %w", err)
	}
	defer rows.Close()

	var ops []*PollOperation
	for rows.Next() {
		var op PollOperation
		if err := rows.Scan(&op.ID, &op.ResourceID, &op.Operation, &op.Status,
			&op.Bookings, &op.Cancelled, &op.Added, &op.StartedAt, &op.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning poll operation: %w", err)
		}
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating poll operations: %w", err)
	}
	return ops, nil
}

// Close closes the underlying database connection.
func (l *SQLiteOperationLog) Close() error {
	return l.db.Close()
}
