package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nbelyaev/linewatch/internal/db"
)

// SQLiteCursorStore implements CursorStore using a SQLite database.
// A single row keyed 'default' holds the cursor.
type SQLiteCursorStore struct {
	db db.DBTX
}

// NewSQLiteCursorStore creates a new SQLiteCursorStore.
func NewSQLiteCursorStore(conn db.DBTX) *SQLiteCursorStore {
	return &SQLiteCursorStore{db: conn}
}

func (s *SQLiteCursorStore) LoadCursor() (int64, error) {
	row := s.db.QueryRowContext(context.Background(),
		`SELECT last_event_id FROM stream_cursor WHERE id = 'default'`)

	var id int64
	if err := row.Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			// First run: start from the beginning of the stream.
			return 0, nil
		}
		return 0, fmt.Errorf("scanning stream cursor: %w", err)
	}
	return id, nil
}

// SaveCursor advances the stored cursor. It never moves it backward,
// even if called with a stale id after a restart race.
func (s *SQLiteCursorStore) SaveCursor(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO stream_cursor (id, last_event_id, updated_at)
		 VALUES ('default', ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   last_event_id = MAX(last_event_id, excluded.last_event_id),
		   updated_at = excluded.updated_at`,
		id, now)
	if err != nil {
		return fmt.Errorf("saving stream cursor: %w", err)
	}
	return nil
}
