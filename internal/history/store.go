// Package history keeps an optional journal of run summaries in SQLite.
// Only aggregates are stored; the workflow state record itself is never
// persisted.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run is one journal row.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	InputSHA256 string
	Language    string
	Status      string
	Libraries   int
	Issues      int
	Tests       int
}

// Store persists run summaries.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	started_at   INTEGER NOT NULL,
	finished_at  INTEGER NOT NULL,
	input_sha256 TEXT NOT NULL,
	language     TEXT NOT NULL,
	status       TEXT NOT NULL,
	libraries    INTEGER NOT NULL,
	issues       INTEGER NOT NULL,
	tests        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// Open opens (and if needed creates) the journal database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one run summary.
func (s *Store) Record(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, input_sha256, language, status, libraries, issues, tests)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(),
		run.InputSHA256, run.Language, run.Status,
		run.Libraries, run.Issues, run.Tests)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, input_sha256, language, status, libraries, issues, tests
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished int64
		if err := rows.Scan(&run.ID, &started, &finished, &run.InputSHA256,
			&run.Language, &run.Status, &run.Libraries, &run.Issues, &run.Tests); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt = time.UnixMilli(started)
		run.FinishedAt = time.UnixMilli(finished)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
