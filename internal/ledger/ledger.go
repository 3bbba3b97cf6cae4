// Package ledger records every generation and download run in a local
// SQLite database so spend and output can be reviewed later.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		provider TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		started_at INTEGER NOT NULL,
		finished_at INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		word TEXT NOT NULL,
		style TEXT NOT NULL DEFAULT '',
		path TEXT NOT NULL DEFAULT '',
		success INTEGER NOT NULL,
		cost REAL NOT NULL DEFAULT 0,
		bytes INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS ix_items_run ON items (run_id)`,
}

// Ledger is a handle on the run database
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// Run identifies one invocation of a command
type Run struct {
	ID       string
	Command  string
	Provider string
	Model    string
	Started  time.Time
	Finished time.Time // Zero while the run is in progress
}

// Entry is the outcome of one image
type Entry struct {
	Word     string
	Style    string
	Path     string
	Success  bool
	Cost     float64
	Bytes    int64
	Duration time.Duration
	Error    string
}

// RunTotals aggregates the entries of a run
type RunTotals struct {
	Run
	Successes int
	Failures  int
	Cost      float64
	Bytes     int64
}

// Open opens or creates the database at path
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, query := range schema {
		if _, err := db.Exec(query); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create ledger schema: %w", err)
		}
	}
	return &Ledger{db: db, now: time.Now}, nil
}

// Close closes the database
func (l *Ledger) Close() error {
	return l.db.Close()
}

// StartRun registers a new run and returns it
func (l *Ledger) StartRun(ctx context.Context, command, provider, model string) (*Run, error) {
	run := &Run{
		ID:       uuid.NewString(),
		Command:  command,
		Provider: provider,
		Model:    model,
		Started:  l.now(),
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, command, provider, model, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Command, run.Provider, run.Model, run.Started.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}
	return run, nil
}

// Record stores entries for a run in a single transaction
func (l *Ledger) Record(ctx context.Context, runID string, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO items
		(run_id, word, style, path, success, cost, bytes, duration_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		success := 0
		if e.Success {
			success = 1
		}
		if _, err := stmt.ExecContext(ctx, runID, e.Word, e.Style, e.Path, success,
			e.Cost, e.Bytes, e.Duration.Milliseconds(), e.Error); err != nil {
			return fmt.Errorf("failed to record %q: %w", e.Word, err)
		}
	}
	return tx.Commit()
}

// FinishRun marks a run as complete
func (l *Ledger) FinishRun(ctx context.Context, runID string) error {
	res, err := l.db.ExecContext(ctx, `UPDATE runs SET finished_at = ? WHERE id = ?`,
		l.now().UnixNano(), runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("unknown run %s", runID)
	}
	return nil
}

// History returns up to limit runs, newest first (limit <= 0 returns all)
func (l *Ledger) History(ctx context.Context, limit int) ([]RunTotals, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT r.id, r.command, r.provider, r.model, r.started_at, COALESCE(r.finished_at, 0),
			COALESCE(SUM(i.success), 0),
			COALESCE(SUM(1 - i.success), 0),
			COALESCE(SUM(i.cost), 0),
			COALESCE(SUM(i.bytes), 0)
		FROM runs r LEFT JOIN items i ON i.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at DESC, r.rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []RunTotals
	for rows.Next() {
		var (
			t                 RunTotals
			started, finished int64
		)
		if err := rows.Scan(&t.ID, &t.Command, &t.Provider, &t.Model, &started, &finished,
			&t.Successes, &t.Failures, &t.Cost, &t.Bytes); err != nil {
			return nil, fmt.Errorf("failed to read history: %w", err)
		}
		t.Started = time.Unix(0, started)
		if finished != 0 {
			t.Finished = time.Unix(0, finished)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TotalCost returns the spend of all successful images ever recorded
func (l *Ledger) TotalCost(ctx context.Context) (float64, error) {
	var total float64
	err := l.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(cost), 0) FROM items WHERE success = 1`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum cost: %w", err)
	}
	return total, nil
}
