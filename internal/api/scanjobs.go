package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nbelyaev/linewatch/internal/domain"
)

type wireScanJob struct {
	ID          domain.FlexID              `json:"id"`
	Status      string                     `json:"status"`
	Progress    *float64                   `json:"progress"`
	Message     string                     `json:"message"`
	Results     map[string]json.RawMessage `json:"results"`
	CreatedAt   time.Time                  `json:"created_at"`
	CompletedAt *time.Time                 `json:"completed_at"`
}

func (w wireScanJob) toDomain() domain.ScanJob {
	job := domain.ScanJob{
		ID:          w.ID.String(),
		Status:      domain.JobStatus(w.Status),
		Progress:    w.Progress,
		Message:     w.Message,
		CreatedAt:   w.CreatedAt,
		CompletedAt: w.CompletedAt,
	}
	job.Results = scanResultsFromWire(w.Results)
	return job
}

// scanResultsFromWire pulls the known counters out of the results object
// and keeps everything else verbatim in Extra.
func scanResultsFromWire(raw map[string]json.RawMessage) domain.ScanResults {
	var res domain.ScanResults
	if len(raw) == 0 {
		return res
	}
	counters := map[string]*int{
		"documents_processed": &res.DocumentsProcessed,
		"downtimes_extracted": &res.DowntimesExtracted,
		"downtimes_saved":     &res.DowntimesSaved,
		"conflicts_detected":  &res.ConflictsDetected,
		"conflicts_created":   &res.ConflictsCreated,
	}
	for key, val := range raw {
		if dst, ok := counters[key]; ok {
			if err := json.Unmarshal(val, dst); err == nil {
				continue
			}
		}
		if res.Extra == nil {
			res.Extra = make(map[string]json.RawMessage)
		}
		res.Extra[key] = val
	}
	return res
}

// StartScanJob asks the backend to begin a document scan and returns the
// created job, normally in the pending state.
func (c *Client) StartScanJob(ctx context.Context) (domain.ScanJob, error) {
	var row wireScanJob
	if err := c.postJSON(ctx, "/api/extraction/scan-jobs/start/", &row); err != nil {
		return domain.ScanJob{}, err
	}
	return row.toDomain(), nil
}

// GetScanJob fetches the current state of one scan job.
func (c *Client) GetScanJob(ctx context.Context, id string) (domain.ScanJob, error) {
	var row wireScanJob
	if err := c.getJSON(ctx, "/api/extraction/scan-jobs/"+id+"/", nil, &row); err != nil {
		return domain.ScanJob{}, err
	}
	return row.toDomain(), nil
}

// ListScanJobs fetches recent scan jobs, newest first.
func (c *Client) ListScanJobs(ctx context.Context) ([]domain.ScanJob, error) {
	var rows []wireScanJob
	if err := c.getJSON(ctx, "/api/extraction/scan-jobs/", nil, &rows); err != nil {
		return nil, err
	}
	jobs := make([]domain.ScanJob, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, row.toDomain())
	}
	return jobs, nil
}
