// Package sqlite provides SQLite-based persistent storage for SwipeDeck.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Key-value store for scalar player state (xp, streaks, counters)
		`CREATE TABLE IF NOT EXISTS stats (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Unlocked achievements
		`CREATE TABLE IF NOT EXISTS achievements (
			id          TEXT PRIMARY KEY,
			unlocked_at INTEGER NOT NULL
		)`,

		// Daily challenges: one row per challenge per day, replaced
		// wholesale when the date key rolls over
		`CREATE TABLE IF NOT EXISTS challenges (
			id          TEXT PRIMARY KEY,
			template    TEXT NOT NULL,
			description TEXT NOT NULL,
			category    TEXT NOT NULL DEFAULT '',
			target      INTEGER NOT NULL,
			progress    INTEGER NOT NULL DEFAULT 0,
			reward_xp   INTEGER NOT NULL,
			completed   BOOLEAN NOT NULL DEFAULT 0,
			date_key    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_challenges_date ON challenges(date_key)`,

		// Append-only log of every scored decision
		`CREATE TABLE IF NOT EXISTS score_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id    TEXT NOT NULL,
			action     TEXT NOT NULL,
			category   TEXT NOT NULL,
			base_xp    INTEGER NOT NULL,
			multiplier REAL NOT NULL,
			xp_delta   INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_created ON score_events(created_at)`,

		// Ingested queue items pending review; seq doubles as the fetch
		// cursor so batches page in insertion order
		`CREATE TABLE IF NOT EXISTS queue_items (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			id         TEXT NOT NULL UNIQUE,
			kind       TEXT NOT NULL,
			payload    TEXT NOT NULL,
			options    TEXT NOT NULL DEFAULT '[]',
			hint       TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			decided    BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_pending ON queue_items(decided, seq)`,
	}

	for i, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
