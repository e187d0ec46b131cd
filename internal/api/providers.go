package api

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/nbelyaev/linewatch/internal/domain"
)

// ListFilter narrows plan/downtime list requests. Zero values mean
// "no filter"; dates use the DD-MM-YYYY wire format.
type ListFilter struct {
	LineID        string
	StartDate     string
	EndDate       string
	MinConfidence float64
}

func (f ListFilter) query() url.Values {
	q := url.Values{}
	if f.LineID != "" {
		q.Set("line", f.LineID)
	}
	if f.StartDate != "" {
		q.Set("start_date", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("end_date", f.EndDate)
	}
	if f.MinConfidence > 0 {
		q.Set("min_confidence", strconv.FormatFloat(f.MinConfidence, 'f', -1, 64))
	}
	return q
}

type wireLine struct {
	ID      domain.FlexID `json:"id"`
	Name    string        `json:"name"`
	Aliases []string      `json:"aliases"`
	Active  bool          `json:"is_active"`
}

type wireProduct struct {
	ID   domain.FlexID `json:"id"`
	Name string        `json:"name"`
	Code string        `json:"code"`
}

type wirePlanTask struct {
	ID        domain.FlexID `json:"id"`
	Line      *wireLine     `json:"line"`
	Product   *wireProduct  `json:"product"`
	Title     string        `json:"title"`
	StartDt   string        `json:"start_dt"`
	EndDt     string        `json:"end_dt"`
	Source    string        `json:"source"`
	CreatedAt time.Time     `json:"created_at"`
}

type wireDowntime struct {
	ID               domain.FlexID `json:"id"`
	Line             *wireLine     `json:"line"`
	StartDt          string        `json:"start_dt"`
	EndDt            string        `json:"end_dt"`
	Status           string        `json:"status"`
	Kind             string        `json:"kind"`
	Source           string        `json:"source"`
	SourceFile       string        `json:"source_file"`
	EvidenceQuote    string        `json:"evidence_quote"`
	EvidenceLocation string        `json:"evidence_location"`
	Confidence       *float64      `json:"confidence"`
	PartialDateStart bool          `json:"partial_date_start"`
	PartialDateEnd   bool          `json:"partial_date_end"`
	CreatedAt        time.Time     `json:"created_at"`
}

// ListLines fetches the active production lines.
func (c *Client) ListLines(ctx context.Context) ([]domain.Line, error) {
	var rows []wireLine
	if err := c.getJSON(ctx, "/api/production/lines/", nil, &rows); err != nil {
		return nil, err
	}
	lines := make([]domain.Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, domain.Line{
			ID:      row.ID.String(),
			Name:    row.Name,
			Aliases: row.Aliases,
			Active:  row.Active,
		})
	}
	return lines, nil
}

// ListPlanTasks fetches plan tasks. Rows whose date range fails to parse
// are dropped individually; a malformed row never fails the whole list.
func (c *Client) ListPlanTasks(ctx context.Context, filter ListFilter) ([]domain.PlanTask, error) {
	var rows []wirePlanTask
	if err := c.getJSON(ctx, "/api/production/plan/", filter.query(), &rows); err != nil {
		return nil, err
	}
	tasks := make([]domain.PlanTask, 0, len(rows))
	for _, row := range rows {
		if task := planTaskFromWire(row); task != nil {
			tasks = append(tasks, *task)
		}
	}
	return tasks, nil
}

// planTaskFromWire maps a wire row to the domain shape, or nil when the
// date range does not parse.
func planTaskFromWire(row wirePlanTask) *domain.PlanTask {
	window, ok := domain.ParseInterval(row.StartDt, row.EndDt)
	if !ok {
		return nil
	}
	task := domain.PlanTask{
		ID:        row.ID.String(),
		Title:     row.Title,
		Window:    window,
		Source:    row.Source,
		CreatedAt: row.CreatedAt,
	}
	if row.Line != nil {
		task.LineID = row.Line.ID.String()
		task.LineName = row.Line.Name
	}
	if row.Product != nil {
		task.ProductID = row.Product.ID.String()
		task.Product = row.Product.Name
	}
	return &task
}

// ListDowntimes fetches downtime records, dropping rows with malformed
// date ranges.
func (c *Client) ListDowntimes(ctx context.Context, filter ListFilter) ([]domain.Downtime, error) {
	var rows []wireDowntime
	if err := c.getJSON(ctx, "/api/production/downtimes/", filter.query(), &rows); err != nil {
		return nil, err
	}
	downtimes := make([]domain.Downtime, 0, len(rows))
	for _, row := range rows {
		if dt := downtimeFromWire(row); dt != nil {
			downtimes = append(downtimes, *dt)
		}
	}
	return downtimes, nil
}

func downtimeFromWire(row wireDowntime) *domain.Downtime {
	window, ok := domain.ParseInterval(row.StartDt, row.EndDt)
	if !ok {
		return nil
	}
	window.StartApprox = row.PartialDateStart
	window.EndApprox = row.PartialDateEnd
	dt := domain.Downtime{
		ID:               row.ID.String(),
		Window:           window,
		Status:           domain.NormalizeDowntimeStatus(row.Status),
		Kind:             row.Kind,
		Source:           domain.DowntimeSource(row.Source),
		Confidence:       row.Confidence,
		SourceFile:       row.SourceFile,
		EvidenceQuote:    row.EvidenceQuote,
		EvidenceLocation: row.EvidenceLocation,
		CreatedAt:        row.CreatedAt,
	}
	if row.Line != nil {
		dt.LineID = row.Line.ID.String()
		dt.LineName = row.Line.Name
	}
	return &dt
}

type wireConflict struct {
	ID             domain.FlexID `json:"id"`
	Level          string        `json:"level"`
	Code           string        `json:"code"`
	Text           string        `json:"text"`
	PlanTask       *wirePlanTask `json:"plan_task"`
	Downtime       *wireDowntime `json:"downtime"`
	OverlapStart   string        `json:"overlap_start"`
	OverlapEnd     string        `json:"overlap_end"`
	PriorityStatus string        `json:"priority_status"`
	CreatedAt      time.Time     `json:"created_at"`
}

// RawConflict is a server-computed conflict with its nesting flattened.
// internal/registry normalizes it into the canonical Conflict shape.
type RawConflict struct {
	ID             string
	Level          string
	Code           string
	Text           string
	Task           *domain.PlanTask
	Downtime       *domain.Downtime
	Overlap        domain.Interval
	HasOverlap     bool
	PriorityStatus domain.DowntimeStatus
	CreatedAt      time.Time
}

// ListConflicts fetches the server-computed conflict list.
func (c *Client) ListConflicts(ctx context.Context) ([]RawConflict, error) {
	var rows []wireConflict
	if err := c.getJSON(ctx, "/api/production/conflicts/", nil, &rows); err != nil {
		return nil, err
	}
	out := make([]RawConflict, 0, len(rows))
	for _, row := range rows {
		rc := RawConflict{
			ID:             row.ID.String(),
			Level:          row.Level,
			Code:           row.Code,
			Text:           row.Text,
			PriorityStatus: domain.NormalizeDowntimeStatus(row.PriorityStatus),
			CreatedAt:      row.CreatedAt,
		}
		if row.PlanTask != nil {
			rc.Task = planTaskFromWire(*row.PlanTask)
		}
		if row.Downtime != nil {
			rc.Downtime = downtimeFromWire(*row.Downtime)
		}
		if overlap, ok := domain.ParseInterval(row.OverlapStart, row.OverlapEnd); ok {
			rc.Overlap = overlap
			rc.HasOverlap = true
		}
		out = append(out, rc)
	}
	return out, nil
}
