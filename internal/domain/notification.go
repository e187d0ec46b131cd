package domain

import (
	"encoding/json"
	"time"
)

// NotificationEvent is one server notification. IDs increase
// monotonically on the server; an event with id <= the last-seen cursor
// is already delivered and must not advance the cursor again.
type NotificationEvent struct {
	ID        int64
	CreatedAt time.Time
	Level     EventLevel
	Code      string
	Text      string
	Payload   json.RawMessage
}

// DataChanging reports whether the event signals that upstream entities
// changed and consumers should refetch.
func (e NotificationEvent) DataChanging() bool {
	switch e.Code {
	case CodeConflictDetected, CodePlanDateCoerced:
		return true
	}
	return false
}
