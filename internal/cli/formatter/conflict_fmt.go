package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nbelyaev/linewatch/internal/domain"
)

// FormatConflictList renders the conflict table, most severe first.
func FormatConflictList(conflicts []domain.Conflict) string {
	if len(conflicts) == 0 {
		return StyleDim.Render("No conflicts.") + "\n"
	}

	headers := []string{"SEVERITY", "ID", "LINE", "TASK", "DOWNTIME", "OVERLAP", "DAYS", "STATUS"}
	rows := make([][]string, 0, len(conflicts))
	for _, c := range conflicts {
		rows = append(rows, []string{
			SeverityIndicator(c.Severity),
			c.ID,
			c.LineName,
			c.TaskTitle,
			c.DowntimeKind,
			c.Overlap.String(),
			strconv.Itoa(c.OverlapDays),
			StatusLabel(c.Status),
		})
	}
	return RenderTable(headers, rows)
}

// FormatConflictDetail renders one conflict with all its fields.
func FormatConflictDetail(c domain.Conflict) string {
	var b strings.Builder
	b.WriteString(Header("Conflict "+c.ID) + "\n")

	write := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s %s\n", StyleDim.Render(label+":"), value)
	}

	b.WriteString(SeverityIndicator(c.Severity) + "  " + StatusLabel(c.Status) + "\n")
	write("Line", c.LineName)
	write("Task", fmt.Sprintf("%s (%s)", c.TaskTitle, c.TaskID))
	write("Downtime", fmt.Sprintf("%s (%s)", c.DowntimeKind, c.DowntimeID))
	if c.DowntimeStatus != domain.DowntimeUnknown {
		write("Downtime status", string(c.DowntimeStatus))
	}
	write("Overlap", fmt.Sprintf("%s (%d d)", c.Overlap.String(), c.OverlapDays))
	if !c.CreatedAt.IsZero() {
		write("Detected", c.CreatedAt.Format(time.RFC3339))
	}
	if c.ResolvedAt != nil {
		write("Resolved", c.ResolvedAt.Format(time.RFC3339))
	}
	write("Notes", c.Notes)
	return b.String()
}

// WriteConflictsCSV writes the conflict list as CSV, uncolored, for
// export into spreadsheets.
func WriteConflictsCSV(w io.Writer, conflicts []domain.Conflict) error {
	cw := csv.NewWriter(w)
	header := []string{
		"id", "severity", "status", "line", "task_id", "task_title",
		"downtime_id", "downtime_kind", "downtime_status",
		"overlap_start", "overlap_end", "overlap_days", "notes",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, c := range conflicts {
		row := []string{
			c.ID,
			c.Severity.String(),
			string(c.Status),
			c.LineName,
			c.TaskID,
			c.TaskTitle,
			c.DowntimeID,
			c.DowntimeKind,
			string(c.DowntimeStatus),
			domain.FormatDate(c.Overlap.Start),
			domain.FormatDate(c.Overlap.End),
			strconv.Itoa(c.OverlapDays),
			c.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatJobList renders scan job history.
func FormatJobList(jobs []domain.ScanJob) string {
	if len(jobs) == 0 {
		return StyleDim.Render("No scan jobs.") + "\n"
	}

	headers := []string{"ID", "STATUS", "PROGRESS", "MESSAGE", "CREATED"}
	rows := make([][]string, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, []string{
			j.ID,
			jobStatusLabel(j.Status),
			formatProgress(j.Progress),
			j.Message,
			formatMaybeTime(j.CreatedAt),
		})
	}
	return RenderTable(headers, rows)
}

// FormatJobProgress renders a one-line progress update for watch mode.
func FormatJobProgress(j domain.ScanJob) string {
	line := fmt.Sprintf("%s %s", jobStatusLabel(j.Status), formatProgress(j.Progress))
	if j.Message != "" {
		line += "  " + StyleDim.Render(j.Message)
	}
	return line
}

// FormatJobResults renders the counters of a finished scan.
func FormatJobResults(res domain.ScanResults) string {
	var b strings.Builder
	write := func(label string, n int) {
		if n > 0 {
			fmt.Fprintf(&b, "  %s %d\n", StyleDim.Render(label+":"), n)
		}
	}
	write("documents processed", res.DocumentsProcessed)
	write("downtimes extracted", res.DowntimesExtracted)
	write("downtimes saved", res.DowntimesSaved)
	write("conflicts detected", res.ConflictsDetected)
	write("conflicts created", res.ConflictsCreated)
	return b.String()
}

// FormatEvent renders one notification event for the live feed.
func FormatEvent(e domain.NotificationEvent) string {
	ts := e.CreatedAt.Format("15:04:05")
	level := LevelColor(e.Level).Render(strings.ToUpper(string(e.Level)))
	text := e.Text
	if text == "" {
		text = e.Code
	}
	return fmt.Sprintf("%s %s %s", StyleDim.Render(ts), level, text)
}

func jobStatusLabel(s domain.JobStatus) string {
	switch s {
	case domain.JobCompleted:
		return StyleGreen.Render(string(s))
	case domain.JobFailed:
		return StyleRed.Render(string(s))
	case domain.JobRunning:
		return StyleBlue.Render(string(s))
	default:
		return StyleYellow.Render(string(s))
	}
}

func formatProgress(p *float64) string {
	if p == nil {
		return StyleDim.Render("–")
	}
	return fmt.Sprintf("%3.0f%%", *p)
}

func formatMaybeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02-01-2006 15:04")
}
