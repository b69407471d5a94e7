package store

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// Journal records every committed widget transition in a sqlite
// database, giving the workspace an auditable history of edits.
type Journal struct {
	db *sql.DB
}

// Transition is one journaled operation.
type Transition struct {
	ID        int64
	Component string // "tree" or "board"
	Op        string // "add", "delete", "rename", "move", "load"
	Target    string // node or card id
	At        time.Time
}

// OpenJournal opens (or creates) the journal database at path.
func OpenJournal(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS transitions (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		component TEXT NOT NULL,
		op        TEXT NOT NULL,
		target    TEXT NOT NULL,
		at        INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transitions_at ON transitions(at);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Record appends a transition. Failures are logged rather than
// surfaced so journaling problems never block an edit.
func (j *Journal) Record(component, op, target string) {
	_, err := j.db.Exec(
		"INSERT INTO transitions(component, op, target, at) VALUES(?, ?, ?, ?)",
		component, op, target, time.Now().UnixNano(),
	)
	if err != nil {
		log.Printf("warning: failed to journal %s %s %s: %v", component, op, target, err)
	}
}

// Recent returns the latest transitions, newest first.
func (j *Journal) Recent(limit int) ([]Transition, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.Query(
		"SELECT id, component, op, target, at FROM transitions ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transition
	for rows.Next() {
		var t Transition
		var at int64
		if err := rows.Scan(&t.ID, &t.Component, &t.Op, &t.Target, &at); err != nil {
			return nil, err
		}
		t.At = time.Unix(0, at)
		out = append(out, t)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (j *Journal) Close() error { return j.db.Close() }
