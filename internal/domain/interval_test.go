package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate_Valid(t *testing.T) {
	d, ok := ParseDate("03-12-2024")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 12, 3, 0, 0, 0, 0, time.UTC), d)
}

func TestParseDate_Malformed(t *testing.T) {
	cases := []string{"", "2024-12-03", "31-02-2024", "3-12-2024x", "not a date", "12-2024"}
	for _, s := range cases {
		_, ok := ParseDate(s)
		assert.False(t, ok, "input %q should not parse", s)
	}
}

func TestFormatDate_RoundTrip(t *testing.T) {
	d, ok := ParseDate("01-12-2024")
	assert.True(t, ok)
	assert.Equal(t, "01-12-2024", FormatDate(d))
}

func TestParseInterval_StartAfterEnd(t *testing.T) {
	_, ok := ParseInterval("05-12-2024", "01-12-2024")
	assert.False(t, ok)
}

func TestParseInterval_Valid(t *testing.T) {
	iv, ok := ParseInterval("01-12-2024", "05-12-2024")
	assert.True(t, ok)
	assert.True(t, iv.Valid())
	assert.Equal(t, 5, iv.Days())
}

func TestDaysInclusive_SameDay(t *testing.T) {
	d := time.Date(2024, 12, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysInclusive(d, d))
}

func TestDaysInclusive_IgnoresTimeOfDay(t *testing.T) {
	// 23:00 on the 1st to 01:00 on the 2nd is still two calendar days.
	a := time.Date(2024, 12, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2024, 12, 2, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, DaysInclusive(a, b))
}

func TestDaysInclusive_AcrossMonthBoundary(t *testing.T) {
	a := time.Date(2024, 11, 29, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 4, DaysInclusive(a, b))
}
