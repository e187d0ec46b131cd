// Package repository persists the client's durable state: the stream
// cursor and conflict lifecycle decisions. Everything else is
// re-fetchable from the backend and stays in memory.
package repository

import (
	"errors"

	"github.com/nbelyaev/linewatch/internal/registry"
)

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("not found")

// CursorStore persists the last processed notification event id.
// Implementations are called from the stream goroutine and must be safe
// for concurrent use.
type CursorStore interface {
	LoadCursor() (int64, error)
	SaveCursor(id int64) error
}

// ConflictStateStore persists conflict lifecycle transitions and loads
// them back at startup.
type ConflictStateStore interface {
	SaveConflictState(state registry.ConflictState) error
	LoadConflictStates() ([]registry.ConflictState, error)
}

// Compile-time verification of the SQLite implementations.
var (
	_ CursorStore        = (*SQLiteCursorStore)(nil)
	_ ConflictStateStore = (*SQLiteConflictStateStore)(nil)
)
