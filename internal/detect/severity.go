package detect

import "github.com/nbelyaev/linewatch/internal/domain"

// Severity policy. The day thresholds and the status boost reproduce the
// original scoring; they are tunable policy, not load-bearing invariants.
const (
	criticalDays = 5
	highDays     = 3
	mediumDays   = 1

	// boostPriority is the minimum downtime status priority that raises
	// the computed tier by one (approved and executed statuses qualify).
	boostPriority = 4
)

// Classify maps an overlap length and downtime status to a severity
// tier. A providedLevel naming one of the four known tiers wins outright
// (server authority); otherwise the tier is computed from the overlap
// length with a one-tier boost for approved/executed downtimes, capped
// at critical. Deterministic and non-decreasing in overlapDays for a
// fixed status.
func Classify(overlapDays int, status domain.DowntimeStatus, providedLevel string) domain.Severity {
	if sev, ok := domain.ParseSeverity(providedLevel); ok {
		return sev
	}

	var tier domain.Severity
	switch {
	case overlapDays >= criticalDays:
		tier = domain.SeverityCritical
	case overlapDays >= highDays:
		tier = domain.SeverityHigh
	case overlapDays >= mediumDays:
		tier = domain.SeverityMedium
	default:
		tier = domain.SeverityLow
	}

	if status.Priority() >= boostPriority && tier < domain.SeverityCritical {
		tier++
	}
	return tier
}

// Detect runs the overlap pipeline over one task/downtime pair and
// produces a conflict when their windows intersect on the same line.
func Detect(task domain.PlanTask, dt domain.Downtime) (domain.Conflict, bool) {
	if task.LineID == "" || task.LineID != dt.LineID {
		return domain.Conflict{}, false
	}
	ov, ok := Overlap(task.Window, dt.Window)
	if !ok {
		return domain.Conflict{}, false
	}

	days := domain.DaysInclusive(ov.Start, ov.End)
	return domain.Conflict{
		ID:             "conflict_" + task.ID + "_" + dt.ID,
		TaskID:         task.ID,
		DowntimeID:     dt.ID,
		LineName:       dt.LineName,
		TaskTitle:      task.Title,
		DowntimeKind:   dt.Kind,
		DowntimeStatus: dt.Status,
		Overlap:        ov,
		OverlapDays:    days,
		Severity:       Classify(days, dt.Status, ""),
		Status:         domain.ConflictNew,
	}, true
}

// DetectAll crosses every task with every downtime and returns all
// conflicts found, in input order.
func DetectAll(tasks []domain.PlanTask, downtimes []domain.Downtime) []domain.Conflict {
	var out []domain.Conflict
	for _, task := range tasks {
		for _, dt := range downtimes {
			if c, ok := Detect(task, dt); ok {
				out = append(out, c)
			}
		}
	}
	return out
}
