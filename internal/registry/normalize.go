package registry

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nbelyaev/linewatch/internal/api"
	"github.com/nbelyaev/linewatch/internal/detect"
	"github.com/nbelyaev/linewatch/internal/domain"
)

// ParseConflictID splits a backend conflict id of the form
// conflict_<taskID>_<downtimeID> into its entity references.
func ParseConflictID(id string) (taskID, downtimeID string, ok bool) {
	rest, found := strings.CutPrefix(id, "conflict_")
	if !found {
		return "", "", false
	}
	taskID, downtimeID, found = strings.Cut(rest, "_")
	if !found || taskID == "" || downtimeID == "" {
		return "", "", false
	}
	return taskID, downtimeID, true
}

// FromRaw maps a server-computed conflict row to the canonical shape.
// A missing id gets a locally minted UUID so dedup always has a key.
func FromRaw(rc api.RawConflict) domain.Conflict {
	c := domain.Conflict{
		ID:        rc.ID,
		Status:    domain.ConflictNew,
		CreatedAt: rc.CreatedAt,
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if rc.Task != nil {
		c.TaskID = rc.Task.ID
		c.TaskTitle = rc.Task.Title
		c.LineName = rc.Task.LineName
	}
	if rc.Downtime != nil {
		c.DowntimeID = rc.Downtime.ID
		c.DowntimeKind = rc.Downtime.Kind
		c.DowntimeStatus = rc.Downtime.Status
		if c.LineName == "" {
			c.LineName = rc.Downtime.LineName
		}
	}
	if c.TaskID == "" || c.DowntimeID == "" {
		if taskID, downtimeID, ok := ParseConflictID(rc.ID); ok {
			if c.TaskID == "" {
				c.TaskID = taskID
			}
			if c.DowntimeID == "" {
				c.DowntimeID = downtimeID
			}
		}
	}

	overlap, hasOverlap := rc.Overlap, rc.HasOverlap
	if !hasOverlap && rc.Task != nil && rc.Downtime != nil {
		overlap, hasOverlap = detect.Overlap(rc.Task.Window, rc.Downtime.Window)
	}
	if hasOverlap {
		c.Overlap = overlap
		c.OverlapDays = domain.DaysInclusive(overlap.Start, overlap.End)
	}

	status := rc.PriorityStatus
	if status == domain.DowntimeUnknown {
		status = c.DowntimeStatus
	}
	c.Severity = detect.Classify(c.OverlapDays, status, rc.Level)
	return c
}

// FoldedConflict is the compact conflict shape carried in
// CONFLICT_DETECTED notification payloads.
type FoldedConflict struct {
	ConflictID     domain.FlexID `json:"conflict_id"`
	PlanTaskID     domain.FlexID `json:"plan_task_id"`
	DowntimeID     domain.FlexID `json:"downtime_id"`
	LineName       string        `json:"line_name"`
	TaskTitle      string        `json:"task_title"`
	DowntimeKind   string        `json:"downtime_kind"`
	Level          string        `json:"level"`
	OverlapStart   string        `json:"overlap_start"`
	OverlapEnd     string        `json:"overlap_end"`
	PriorityStatus string        `json:"priority_status"`
}

// FromFolded decodes a notification payload into the canonical shape.
// ok=false means the payload is not a folded conflict at all; partial
// payloads still normalize.
func FromFolded(payload json.RawMessage, createdAt time.Time) (domain.Conflict, bool) {
	var fc FoldedConflict
	if err := json.Unmarshal(payload, &fc); err != nil {
		return domain.Conflict{}, false
	}
	if fc.ConflictID == "" && fc.PlanTaskID == "" && fc.DowntimeID == "" {
		return domain.Conflict{}, false
	}

	c := domain.Conflict{
		ID:             fc.ConflictID.String(),
		TaskID:         fc.PlanTaskID.String(),
		DowntimeID:     fc.DowntimeID.String(),
		LineName:       fc.LineName,
		TaskTitle:      fc.TaskTitle,
		DowntimeKind:   fc.DowntimeKind,
		DowntimeStatus: domain.NormalizeDowntimeStatus(fc.PriorityStatus),
		Status:         domain.ConflictNew,
		CreatedAt:      createdAt,
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.TaskID == "" || c.DowntimeID == "" {
		if taskID, downtimeID, ok := ParseConflictID(c.ID); ok {
			if c.TaskID == "" {
				c.TaskID = taskID
			}
			if c.DowntimeID == "" {
				c.DowntimeID = downtimeID
			}
		}
	}
	if overlap, ok := domain.ParseInterval(fc.OverlapStart, fc.OverlapEnd); ok {
		c.Overlap = overlap
		c.OverlapDays = domain.DaysInclusive(overlap.Start, overlap.End)
	}
	c.Severity = detect.Classify(c.OverlapDays, c.DowntimeStatus, fc.Level)
	return c, true
}
