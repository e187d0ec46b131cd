package domain

import (
	"encoding/json"
	"time"
)

// ScanJob tracks one asynchronous document-extraction run on the server.
type ScanJob struct {
	ID          string
	Status      JobStatus
	Progress    *float64 // 0..100, nil until the worker reports
	Message     string
	Results     ScanResults
	CreatedAt   time.Time
	CompletedAt *time.Time // set only on reaching a terminal state
}

// ScanResults is the job's result summary. The backend's counters are
// exposed typed; everything else rides along in Extra.
type ScanResults struct {
	DocumentsProcessed int
	DowntimesExtracted int
	DowntimesSaved     int
	ConflictsDetected  int
	ConflictsCreated   int
	Extra              map[string]json.RawMessage
}
