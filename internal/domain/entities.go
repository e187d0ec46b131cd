package domain

import "time"

// Line is a production line known to the scheduler backend.
type Line struct {
	ID        string
	Name      string
	Aliases   []string
	Active    bool
	CreatedAt time.Time
}

// Product is a manufactured item referenced by plan tasks.
type Product struct {
	ID   string
	Name string
	Code string
}

// PlanTask is one scheduled production task. Owned by the plan provider;
// the core references it and never mutates it after fetch.
type PlanTask struct {
	ID        string
	LineID    string
	LineName  string
	ProductID string
	Product   string
	Title     string
	Window    Interval
	Source    string
	CreatedAt time.Time
}

// Downtime is a reported or extracted line stoppage. Owned by the
// downtime provider; referenced, not owned, by the core.
type Downtime struct {
	ID       string
	LineID   string
	LineName string
	Window   Interval
	Status   DowntimeStatus
	Kind     string
	Source   DowntimeSource

	// Extraction metadata. Confidence is nil when the record was entered
	// manually.
	Confidence       *float64
	SourceFile       string
	EvidenceQuote    string
	EvidenceLocation string

	CreatedAt time.Time
}
