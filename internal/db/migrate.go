package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Statements are idempotent; the
// whole list re-runs on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// Last processed event id from the notification stream. One row.
	`CREATE TABLE IF NOT EXISTS stream_cursor (
		id            TEXT PRIMARY KEY,
		last_event_id INTEGER NOT NULL DEFAULT 0,
		updated_at    TEXT NOT NULL
	)`,

	// Local conflict lifecycle state, keyed by the backend conflict id.
	// Survives restarts so acknowledged/resolved conflicts stay that way
	// after a re-detection.
	`CREATE TABLE IF NOT EXISTS conflict_state (
		conflict_id TEXT PRIMARY KEY,
		status      TEXT NOT NULL DEFAULT 'new'
		            CHECK(status IN ('new','acknowledged','resolved')),
		notes       TEXT NOT NULL DEFAULT '',
		resolved_at TEXT,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_conflict_state_status
		ON conflict_state(status)`,
}
