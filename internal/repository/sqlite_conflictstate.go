package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nbelyaev/linewatch/internal/db"
	"github.com/nbelyaev/linewatch/internal/domain"
	"github.com/nbelyaev/linewatch/internal/registry"
)

// SQLiteConflictStateStore implements ConflictStateStore using a SQLite
// database.
type SQLiteConflictStateStore struct {
	db db.DBTX
}

// NewSQLiteConflictStateStore creates a new SQLiteConflictStateStore.
func NewSQLiteConflictStateStore(conn db.DBTX) *SQLiteConflictStateStore {
	return &SQLiteConflictStateStore{db: conn}
}

func (s *SQLiteConflictStateStore) SaveConflictState(state registry.ConflictState) error {
	var resolvedAt sql.NullString
	if state.ResolvedAt != nil {
		resolvedAt = sql.NullString{String: state.ResolvedAt.UTC().Format(time.RFC3339), Valid: true}
	}
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := s.db.ExecContext(context.Background(),
		`INSERT OR REPLACE INTO conflict_state (conflict_id, status, notes, resolved_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		state.ID, string(state.Status), state.Notes, resolvedAt, now)
	if err != nil {
		return fmt.Errorf("saving conflict state %s: %w", state.ID, err)
	}
	return nil
}

func (s *SQLiteConflictStateStore) LoadConflictStates() ([]registry.ConflictState, error) {
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT conflict_id, status, notes, resolved_at FROM conflict_state`)
	if err != nil {
		return nil, fmt.Errorf("loading conflict states: %w", err)
	}
	defer rows.Close()

	var states []registry.ConflictState
	for rows.Next() {
		var st registry.ConflictState
		var status string
		var resolvedAt sql.NullString
		if err := rows.Scan(&st.ID, &status, &st.Notes, &resolvedAt); err != nil {
			return nil, fmt.Errorf("scanning conflict state: %w", err)
		}
		st.Status = domain.ConflictStatus(status)
		if resolvedAt.Valid {
			t, err := time.Parse(time.RFC3339, resolvedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parsing resolved_at for %s: %w", st.ID, err)
			}
			st.ResolvedAt = &t
		}
		states = append(states, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conflict states: %w", err)
	}
	return states, nil
}

// Delete removes the stored state for one conflict. Used when the
// backend forgets a conflict entirely.
func (s *SQLiteConflictStateStore) Delete(id string) error {
	_, err := s.db.ExecContext(context.Background(),
		`DELETE FROM conflict_state WHERE conflict_id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting conflict state %s: %w", id, err)
	}
	return nil
}
