// Package history keeps an append-only SQLite log of recolor operations.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// modernc.org/sqlite driver name is "sqlite".
	_ "modernc.org/sqlite"
)

// FileName is the database file created under the data directory.
const FileName = "history.db"

// Actions recorded by the coordinator.
const (
	ActionCreate  = "create"
	ActionApply   = "apply"
	ActionRevert  = "revert"
	ActionRestore = "restore"
)

// Outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Entry is one logged event. Basename is empty for kind-level events.
type Entry struct {
	ID          int64
	OperationID string
	Kind        string
	Action      string
	Basename    string
	Outcome     string
	Stage       string
	Detail      string
	At          time.Time
}

// Log is an open history database.
type Log struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(ctx context.Context, path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL allows the TUI and a CLI invocation to share the file.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history %s: %w", p, err)
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Log{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			op_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			action TEXT NOT NULL,
			basename TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL,
			stage TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT '',
			at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind, at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("history migrate: %w", err)
		}
	}
	return nil
}

// Record appends e. A zero At is replaced by the current time.
func (l *Log) Record(ctx context.Context, e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO events(op_id, kind, action, basename, outcome, stage, detail, at_unixms)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, e.OperationID, e.Kind, e.Action, e.Basename, e.Outcome, e.Stage, e.Detail, e.At.UnixMilli())
	if err != nil {
		return fmt.Errorf("history record: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. An empty kind matches all.
func (l *Log) Recent(ctx context.Context, kind string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, op_id, kind, action, basename, outcome, stage, detail, at_unixms
		FROM events
		WHERE ? = '' OR kind = ?
		ORDER BY id DESC
		LIMIT ?
	`, kind, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("history query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ms int64
		if err := rows.Scan(&e.ID, &e.OperationID, &e.Kind, &e.Action, &e.Basename, &e.Outcome, &e.Stage, &e.Detail, &ms); err != nil {
			return nil, err
		}
		e.At = time.UnixMilli(ms)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the database.
func (l *Log) Close() error {
	return l.db.Close()
}
