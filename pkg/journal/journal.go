// Package journal keeps a SQLite record of every command turnexec runs.
//
// Commands run unsandboxed on the host, so the journal gives operators an
// audit trail of what was executed, when, and what it printed, independent
// of the dataset files.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/turnexec/pkg/augment"
)

// Entry is one journaled command execution.
type Entry struct {
	ID                int64
	RunID             string
	ConversationIndex int
	TurnIndex         int
	Round             int
	Command           string
	Output            string
	Status            string
	StartedAt         time.Time
	Duration          time.Duration
}

// Journal is a SQLite-backed execution journal.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at dbPath. The path
// can be ":memory:" for an in-memory journal.
func Open(dbPath string) (*Journal, error) {
	// Open the database using the github.com/mattn/go-sqlite3 driver (registered as "sqlite3")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}

	return j, nil
}

// migrate creates the necessary tables if they don't exist.
func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS executions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		conversation_index INTEGER NOT NULL,
		turn_index INTEGER NOT NULL,
		round INTEGER NOT NULL,
		command TEXT NOT NULL,
		output TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_executions_run_id ON executions(run_id);
	`

	_, err := j.db.Exec(schema)
	return err
}

// Record implements augment.Sink.
func (j *Journal) Record(ctx context.Context, execution *augment.Execution) error {
	outcome := execution.Outcome

	query := `INSERT INTO executions
		(run_id, conversation_index, turn_index, round, command, output, status, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := j.db.ExecContext(ctx, query,
		execution.RunID,
		execution.ConversationIndex,
		execution.TurnIndex,
		execution.Round,
		outcome.Command,
		outcome.Output,
		string(outcome.Status),
		outcome.StartedAt.UTC(),
		outcome.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert execution: %w", err)
	}

	return nil
}

// List returns the entries of a run in execution order.
func (j *Journal) List(ctx context.Context, runID string) ([]Entry, error) {
	query := `SELECT id, run_id, conversation_index, turn_index, round, command, output, status, started_at, duration_ms
		FROM executions WHERE run_id = ? ORDER BY id`

	rows, err := j.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMs int64
		if err := rows.Scan(
			&e.ID, &e.RunID, &e.ConversationIndex, &e.TurnIndex, &e.Round,
			&e.Command, &e.Output, &e.Status, &e.StartedAt, &durationMs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// LatestRunID returns the run ID of the most recently journaled execution,
// or an empty string when the journal is empty.
func (j *Journal) LatestRunID(ctx context.Context) (string, error) {
	var runID string
	err := j.db.QueryRowContext(ctx, `SELECT run_id FROM executions ORDER BY id DESC LIMIT 1`).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest run: %w", err)
	}
	return runID, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}
