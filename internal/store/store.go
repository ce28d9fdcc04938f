// Package store provides the SQLite-backed persistent store for the
// planner: sessions, RSS items, agenda events, the sync audit log,
// and the user's personal events and favorite lists.
//
// The store has exactly one writer (the sync engine) and many
// readers. All ordering-sensitive queries order by explicit columns,
// never rowid.
package store

import (
	"database/sql"
	"encoding/json"
	_ "embed"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when a lookup matches no row, including
// short-ID resolution misses.
var ErrNotFound = errors.New("store: not found")

// Store wraps the planner database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path (":memory:" works for
// tests), applies pragmas and the schema, and returns the store.
// Idempotent: safe to call against an existing database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection: SQLite allows one writer at a time and the
	// sync engine is the only writer anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func marshalList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func unmarshalList(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
