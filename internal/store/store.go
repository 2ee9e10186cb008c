// Package store provides SQLite-backed persistence for dispatch traces.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Event is one recorded dispatch decision. Victim is the hart a stolen task
// was taken from, or -1 when the action has no victim.
type Event struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Hart      int       `json:"hart"`
	TaskID    string    `json:"task_id,omitempty"`
	Victim    int       `json:"victim"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Store provides access to the trace SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Open with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		hart INTEGER NOT NULL,
		task_id TEXT,
		victim INTEGER NOT NULL DEFAULT -1,
		details TEXT,
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_action ON events(action);
	CREATE INDEX IF NOT EXISTS idx_events_task_id ON events(task_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// WriteEvent inserts a new trace event.
func (s *Store) WriteEvent(action string, hartID int, taskID string, victim int, details string) (*Event, error) {
	ev := &Event{
		ID:        uuid.New().String(),
		Action:    action,
		Hart:      hartID,
		TaskID:    taskID,
		Victim:    victim,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO events (id, action, hart, task_id, victim, details, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Action, ev.Hart, ev.TaskID, ev.Victim, ev.Details, ev.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	return ev, nil
}

// ListEvents returns events in insertion order, optionally filtered by
// action. limit <= 0 means no limit.
func (s *Store) ListEvents(action string, limit int) ([]*Event, error) {
	query := `SELECT id, action, hart, task_id, victim, details, timestamp FROM events`
	var args []interface{}
	if action != "" {
		query += ` WHERE action = ?`
		args = append(args, action)
	}
	query += ` ORDER BY timestamp, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		ev := &Event{}
		var taskID, details sql.NullString
		if err := rows.Scan(&ev.ID, &ev.Action, &ev.Hart, &taskID, &ev.Victim, &details, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.TaskID = taskID.String
		ev.Details = details.String
		events = append(events, ev)
	}

	return events, rows.Err()
}

// CountByAction returns the number of recorded events per action.
func (s *Store) CountByAction() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT action, COUNT(*) FROM events GROUP BY action`)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var action string
		var n int
		if err := rows.Scan(&action, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[action] = n
	}

	return counts, rows.Err()
}
