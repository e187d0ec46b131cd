package devserver

// Wire-shaped fixture records, mirroring the backend's JSON.

type Line struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Active  bool     `json:"is_active"`
}

type Product struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

type PlanTask struct {
	ID      int      `json:"id"`
	Line    *Line    `json:"line,omitempty"`
	Product *Product `json:"product,omitempty"`
	Title   string   `json:"title"`
	StartDt string   `json:"start_dt"`
	EndDt   string   `json:"end_dt"`
	Source  string   `json:"source,omitempty"`
}

type Downtime struct {
	ID         int      `json:"id"`
	Line       *Line    `json:"line,omitempty"`
	StartDt    string   `json:"start_dt"`
	EndDt      string   `json:"end_dt"`
	Status     string   `json:"status,omitempty"`
	Kind       string   `json:"kind,omitempty"`
	Source     string   `json:"source,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

type Conflict struct {
	ID             string    `json:"id"`
	Level          string    `json:"level"`
	Code           string    `json:"code"`
	Text           string    `json:"text"`
	PlanTask       *PlanTask `json:"plan_task,omitempty"`
	Downtime       *Downtime `json:"downtime,omitempty"`
	OverlapStart   string    `json:"overlap_start,omitempty"`
	OverlapEnd     string    `json:"overlap_end,omitempty"`
	PriorityStatus string    `json:"priority_status,omitempty"`
}

// LineName returns the line the conflict sits on, for event text.
func (c Conflict) LineName() string {
	if c.PlanTask != nil && c.PlanTask.Line != nil {
		return c.PlanTask.Line.Name
	}
	if c.Downtime != nil && c.Downtime.Line != nil {
		return c.Downtime.Line.Name
	}
	return "unknown line"
}

// Folded returns the compact notification payload shape for this
// conflict.
func (c Conflict) Folded() map[string]any {
	out := map[string]any{
		"conflict_id":     c.ID,
		"line_name":       c.LineName(),
		"level":           c.Level,
		"overlap_start":   c.OverlapStart,
		"overlap_end":     c.OverlapEnd,
		"priority_status": c.PriorityStatus,
	}
	if c.PlanTask != nil {
		out["plan_task_id"] = c.PlanTask.ID
		out["task_title"] = c.PlanTask.Title
	}
	if c.Downtime != nil {
		out["downtime_id"] = c.Downtime.ID
		out["downtime_kind"] = c.Downtime.Kind
	}
	return out
}

// Fixture is the dataset the stub serves.
type Fixture struct {
	Lines     []Line
	PlanTasks []PlanTask
	Downtimes []Downtime
	Conflicts []Conflict
}

// DemoFixture returns a small dairy-plant dataset with one critical
// overlap on line A and a clean line B.
func DemoFixture() Fixture {
	lineA := &Line{ID: 2, Name: "Линия А", Active: true}
	lineB := &Line{ID: 3, Name: "Линия Б", Active: true}
	confidence := 0.92

	task := &PlanTask{
		ID:      14,
		Line:    lineA,
		Product: &Product{ID: 9, Name: "Йогурт 2%"},
		Title:   "Йогурт 2%",
		StartDt: "03-12-2025",
		EndDt:   "07-12-2025",
		Source:  "manual",
	}
	downtime := &Downtime{
		ID:         3,
		Line:       lineA,
		StartDt:    "05-12-2025",
		EndDt:      "09-12-2025",
		Status:     "утверждено",
		Kind:       "ремонт",
		Source:     "llm",
		Confidence: &confidence,
	}

	return Fixture{
		Lines: []Line{*lineA, *lineB},
		PlanTasks: []PlanTask{
			*task,
			{ID: 15, Line: lineB, Title: "Кефир 1%", StartDt: "03-12-2025", EndDt: "06-12-2025"},
		},
		Downtimes: []Downtime{*downtime},
		Conflicts: []Conflict{{
			ID:             "conflict_14_3",
			Level:          "critical",
			Code:           "CONFLICT_DETECTED",
			Text:           "Линия А: план пересекается с простоем",
			PlanTask:       task,
			Downtime:       downtime,
			OverlapStart:   "05-12-2025",
			OverlapEnd:     "07-12-2025",
			PriorityStatus: "утверждено",
		}},
	}
}
