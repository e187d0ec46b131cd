package domain

import "time"

// DateLayout is the wire format for calendar dates used by the scheduler
// backend (day-month-year).
const DateLayout = "02-01-2006"

// Interval is a start/end date or datetime range. Start and End are
// calendar dates at midnight UTC unless HasTime is set. The approx flags
// mark boundaries whose year was reconstructed heuristically during
// extraction.
type Interval struct {
	Start       time.Time
	End         time.Time
	StartApprox bool
	EndApprox   bool
	HasTime     bool
}

// Valid reports whether the interval satisfies Start <= End.
func (iv Interval) Valid() bool {
	return !iv.End.Before(iv.Start)
}

// Days returns the inclusive length of the interval in calendar days.
func (iv Interval) Days() int {
	return DaysInclusive(iv.Start, iv.End)
}

// String renders the interval in the wire date format.
func (iv Interval) String() string {
	return FormatDate(iv.Start) + ".." + FormatDate(iv.End)
}

// ParseDate parses a DD-MM-YYYY date. Malformed input yields ok=false;
// callers must treat that as "unknown", not as the zero date.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders a date in the DD-MM-YYYY wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseInterval parses a date-only interval from two DD-MM-YYYY strings.
// Returns ok=false when either bound is malformed or start > end.
func ParseInterval(start, end string) (Interval, bool) {
	s, ok := ParseDate(start)
	if !ok {
		return Interval{}, false
	}
	e, ok := ParseDate(end)
	if !ok {
		return Interval{}, false
	}
	iv := Interval{Start: s, End: e}
	if !iv.Valid() {
		return Interval{}, false
	}
	return iv, true
}

// DaysInclusive returns the number of calendar days between a and b,
// counting both endpoints: same day => 1. The computation anchors both
// instants to midnight of their calendar date, so it is independent of
// time-of-day and timezone offsets.
func DaysInclusive(a, b time.Time) int {
	ad := midnight(a)
	bd := midnight(b)
	return int(bd.Sub(ad).Hours()/24) + 1
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
