// Package detect holds the conflict-detection core: interval
// intersection and severity classification. All functions are pure; the
// single implementation here replaces the per-consumer copies the
// original system accumulated.
package detect

import (
	"time"

	"github.com/nbelyaev/linewatch/internal/domain"
)

// Overlap returns the intersection of a and b, inclusive of both
// endpoints, and ok=false when the intervals are disjoint. Date-only
// operands are widened to the full span of their boundary days before
// intersecting, so a date-only and a datetime interval on the same day
// compare correctly. Commutative by construction.
func Overlap(a, b domain.Interval) (domain.Interval, bool) {
	as, ae := effectiveBounds(a)
	bs, be := effectiveBounds(b)

	start := maxTime(as, bs)
	end := minTime(ae, be)
	if end.Before(start) {
		return domain.Interval{}, false
	}
	return domain.Interval{
		Start:   start,
		End:     end,
		HasTime: a.HasTime || b.HasTime,
	}, true
}

// OverlapDays returns the inclusive calendar-day length of the
// intersection, or 0 when the intervals are disjoint.
func OverlapDays(a, b domain.Interval) int {
	ov, ok := Overlap(a, b)
	if !ok {
		return 0
	}
	return domain.DaysInclusive(ov.Start, ov.End)
}

// OverlapHours returns the instant-range length of the intersection in
// hours, or 0 when the intervals are disjoint.
func OverlapHours(a, b domain.Interval) float64 {
	ov, ok := Overlap(a, b)
	if !ok {
		return 0
	}
	return ov.End.Sub(ov.Start).Hours()
}

// effectiveBounds widens a date-only interval to
// [00:00:00, 23:59:59.999] on its boundary days. Datetime intervals pass
// through unchanged.
func effectiveBounds(iv domain.Interval) (time.Time, time.Time) {
	if iv.HasTime {
		return iv.Start, iv.End
	}
	y, m, d := iv.Start.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	y, m, d = iv.End.Date()
	end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	return start, end
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
