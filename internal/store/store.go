// Package store provides a SQLite-backed search history store for souschef.
// Every answered question is recorded with its outcome so operators can review
// what users asked and how well retrieval served them. History is persisted
// across server restarts.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register "sqlite" driver
)

// Entry is a single recorded question/answer exchange.
type Entry struct {
	// Question is the user's question verbatim.
	Question string
	// Answer is the final answer returned to the user.
	Answer string
	// Language is the detected question language ("ko" or "en").
	Language string
	// Matched reports whether a recipe was matched for the question.
	Matched bool
	// Outcome is the terminal pipeline outcome label (matched, no_match, ...).
	Outcome string
	// CreatedAt is when the entry was persisted.
	CreatedAt time.Time
}

// HistoryStore persists and retrieves search history. Implementations must be
// safe for concurrent use.
type HistoryStore interface {
	// Append persists a single exchange.
	Append(ctx context.Context, e Entry) error
	// Recent returns the most recent n entries, ordered newest-first.
	// If fewer than n entries exist, all are returned.
	Recent(ctx context.Context, n int) ([]Entry, error)
	// Close releases any resources held by the store.
	Close() error
}

// SQLiteStore is a HistoryStore backed by a local SQLite database.
type SQLiteStore struct {
	// db is the underlying database connection pool.
	db *sql.DB
}

// DefaultDBPath returns the default path for the search history database.
// It resolves to ~/.souschef/history.db, creating the directory if needed.
// The SOUSCHEF_HISTORY_DB env var overrides the path; the value "disabled"
// is resolved by the caller, not here.
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SOUSCHEF_HISTORY_DB"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("store: could not determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".souschef")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("store: could not create %s: %w", dir, err)
	}
	return filepath.Join(dir, "history.db"), nil
}

// Open opens (or creates) a SQLiteStore at the given path and runs the schema
// migration. Use ":memory:" for an in-memory database in tests.
func Open(path string) (*SQLiteStore, error) {
	// WAL mode improves concurrent read performance and is safe for single-host use.
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// Limit to a single writer connection to avoid SQLITE_BUSY under concurrent writes.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// migrate creates the schema if it does not already exist.
func (s *SQLiteStore) migrate() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS search_history (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    question     TEXT    NOT NULL,
    answer       TEXT    NOT NULL,
    language     TEXT    NOT NULL,
    matched      INTEGER NOT NULL CHECK(matched IN (0,1)),
    outcome      TEXT    NOT NULL,
    created_at   INTEGER NOT NULL  -- Unix timestamp (seconds)
);
CREATE INDEX IF NOT EXISTS idx_search_history_created
    ON search_history (created_at);
`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// Append persists a single exchange.
func (s *SQLiteStore) Append(ctx context.Context, e Entry) error {
	const q = `INSERT INTO search_history (question, answer, language, matched, outcome, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	matched := 0
	if e.Matched {
		matched = 1
	}
	if _, err := s.db.ExecContext(ctx, q, e.Question, e.Answer, e.Language, matched, e.Outcome, time.Now().Unix()); err != nil {
		return fmt.Errorf("store: append: %w", err)
	}
	return nil
}

// Recent returns the most recent n entries, ordered newest-first.
func (s *SQLiteStore) Recent(ctx context.Context, n int) ([]Entry, error) {
	const q = `
SELECT question, answer, language, matched, outcome, created_at
FROM   search_history
ORDER  BY created_at DESC, id DESC
LIMIT  ?`

	rows, err := s.db.QueryContext(ctx, q, n)
	if err != nil {
		return nil, fmt.Errorf("store: recent: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		var matched int
		if err := rows.Scan(&e.Question, &e.Answer, &e.Language, &matched, &e.Outcome, &ts); err != nil {
			return nil, fmt.Errorf("store: recent scan: %w", err)
		}
		e.Matched = matched == 1
		e.CreatedAt = time.Unix(ts, 0)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: recent rows: %w", err)
	}
	return entries, nil
}

// Close releases the database connection pool.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	return nil
}
