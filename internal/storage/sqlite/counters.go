// Package sqlite persists small per-game counters in a local database file,
// surviving restarts without needing the full postgres history store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS collected_beasts (
	game_id TEXT PRIMARY KEY,
	count   INTEGER NOT NULL DEFAULT 0
);`

// Store is a file-backed counter store. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and ensures the schema exists.
// Use ":memory:" for an ephemeral store in tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening counter store %s: %w", path, err)
	}
	// The driver is in-process; a single connection avoids SQLITE_BUSY on
	// concurrent writes.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating counter schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// IncrementCollected bumps the game's collected-beast counter by one,
// creating the row on first use.
func (s *Store) IncrementCollected(ctx context.Context, gameID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collected_beasts (game_id, count) VALUES (?, 1)
		ON CONFLICT (game_id) DO UPDATE SET count = count + 1`, gameID)
	if err != nil {
		return fmt.Errorf("incrementing collected counter for game %s: %w", gameID, err)
	}
	return nil
}

// Collected returns the game's collected-beast count, zero if never
// incremented.
func (s *Store) Collected(ctx context.Context, gameID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count FROM collected_beasts WHERE game_id = ?`, gameID).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading collected counter for game %s: %w", gameID, err)
	}
	return count, nil
}
