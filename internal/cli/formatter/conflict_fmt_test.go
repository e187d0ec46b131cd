package formatter

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbelyaev/linewatch/internal/domain"
)

func sampleConflict() domain.Conflict {
	overlap, _ := domain.ParseInterval("05-12-2025", "07-12-2025")
	return domain.Conflict{
		ID:             "conflict_14_3",
		TaskID:         "14",
		DowntimeID:     "3",
		LineName:       "Линия А",
		TaskTitle:      "Йогурт 2%",
		DowntimeKind:   "ремонт",
		DowntimeStatus: domain.DowntimeApproved,
		Overlap:        overlap,
		OverlapDays:    3,
		Severity:       domain.SeverityCritical,
		Status:         domain.ConflictNew,
		CreatedAt:      time.Date(2025, 12, 3, 8, 0, 0, 0, time.UTC),
	}
}

func TestFormatConflictList(t *testing.T) {
	out := FormatConflictList([]domain.Conflict{sampleConflict()})
	assert.Contains(t, out, "conflict_14_3")
	assert.Contains(t, out, "Линия А")
	assert.Contains(t, out, "CRITICAL")
	assert.Contains(t, out, "05-12-2025..07-12-2025")
}

func TestFormatConflictList_Empty(t *testing.T) {
	assert.Contains(t, FormatConflictList(nil), "No conflicts")
}

func TestFormatConflictDetail(t *testing.T) {
	c := sampleConflict()
	c.Notes = "moved to line B"
	resolvedAt := time.Date(2025, 12, 4, 9, 0, 0, 0, time.UTC)
	c.ResolvedAt = &resolvedAt
	c.Status = domain.ConflictResolved

	out := FormatConflictDetail(c)
	assert.Contains(t, out, "CONFLICT CONFLICT_14_3")
	assert.Contains(t, out, "Йогурт 2% (14)")
	assert.Contains(t, out, "ремонт (3)")
	assert.Contains(t, out, "moved to line B")
	assert.Contains(t, out, "2025-12-04T09:00:00Z")
}

func TestWriteConflictsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteConflictsCSV(&buf, []domain.Conflict{sampleConflict()}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "id", records[0][0])

	row := records[1]
	assert.Equal(t, "conflict_14_3", row[0])
	assert.Equal(t, "critical", row[1])
	assert.Equal(t, "05-12-2025", row[9])
	assert.Equal(t, "07-12-2025", row[10])
	assert.Equal(t, "3", row[11])
}

func TestFormatJobList(t *testing.T) {
	progress := 40.0
	out := FormatJobList([]domain.ScanJob{{
		ID:       "job-1",
		Status:   domain.JobRunning,
		Progress: &progress,
		Message:  "extracting downtime_plan.docx",
	}})
	assert.Contains(t, out, "job-1")
	assert.Contains(t, out, "running")
	assert.Contains(t, out, "40%")
}

func TestFormatEvent(t *testing.T) {
	out := FormatEvent(domain.NotificationEvent{
		CreatedAt: time.Date(2025, 12, 3, 10, 15, 0, 0, time.UTC),
		Level:     domain.LevelWarning,
		Code:      domain.CodeConflictDetected,
		Text:      "Линия А: план пересекается с простоем",
	})
	assert.Contains(t, out, "10:15:00")
	assert.Contains(t, out, "WARNING")
	assert.Contains(t, out, "Линия А")
}
