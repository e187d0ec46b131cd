package domain

import (
	"errors"
	"time"
)

var (
	// ErrEmptyID indicates a lifecycle operation was attempted with a
	// blank conflict id. Rejected locally, no network call is made.
	ErrEmptyID = errors.New("empty conflict id")

	// ErrConflictResolved indicates a transition out of the resolved
	// state was attempted. Resolved is terminal unless reset externally.
	ErrConflictResolved = errors.New("conflict already resolved")

	// ErrUnknownConflict indicates the id does not match any tracked
	// conflict.
	ErrUnknownConflict = errors.New("unknown conflict")
)

// Conflict is a detected collision between a plan task and a downtime on
// the same line. Identity is one opaque string; numeric and UUID server
// ids are both carried verbatim. Lifecycle fields are mutated only by
// explicit user actions, never by re-detection.
type Conflict struct {
	ID         string
	TaskID     string
	DowntimeID string

	LineName       string
	TaskTitle      string
	DowntimeKind   string
	DowntimeStatus DowntimeStatus

	Overlap     Interval
	OverlapDays int
	Severity    Severity

	Status     ConflictStatus
	Notes      string
	ResolvedAt *time.Time
	CreatedAt  time.Time
}

// Acknowledge moves the conflict new -> acknowledged. Acknowledging an
// already-acknowledged conflict is a no-op; acknowledging a resolved one
// is rejected.
func (c *Conflict) Acknowledge() error {
	switch c.Status {
	case ConflictResolved:
		return ErrConflictResolved
	case ConflictAcknowledged:
		return nil
	}
	c.Status = ConflictAcknowledged
	return nil
}

// Resolve moves the conflict into the terminal resolved state, recording
// notes and the resolution time. Resolving twice is a no-op that keeps
// the original ResolvedAt.
func (c *Conflict) Resolve(notes string, now time.Time) error {
	if c.Status == ConflictResolved {
		return nil
	}
	c.Status = ConflictResolved
	c.Notes = notes
	t := now
	c.ResolvedAt = &t
	return nil
}
