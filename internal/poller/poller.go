// Package poller drives scan jobs to completion: it starts a job on the
// backend and polls its status on a fixed cadence until the job reaches
// a terminal state.
package poller

import (
	"context"
	"time"

	"github.com/nbelyaev/linewatch/internal/domain"
)

// JobAPI is the backend surface the poller needs.
type JobAPI interface {
	StartScanJob(ctx context.Context) (domain.ScanJob, error)
	GetScanJob(ctx context.Context, id string) (domain.ScanJob, error)
	ListScanJobs(ctx context.Context) ([]domain.ScanJob, error)
}

// Poller starts and tracks scan jobs.
type Poller struct {
	api      JobAPI
	interval time.Duration
}

// New creates a Poller polling at the given interval.
func New(api JobAPI, interval time.Duration) *Poller {
	return &Poller{api: api, interval: interval}
}

// Start asks the backend to begin a scan and returns the created job.
func (p *Poller) Start(ctx context.Context) (domain.ScanJob, error) {
	return p.api.StartScanJob(ctx)
}

// History returns recent scan jobs, newest first.
func (p *Poller) History(ctx context.Context) ([]domain.ScanJob, error) {
	return p.api.ListScanJobs(ctx)
}

// Poll emits the job's state immediately, then once per tick, until a
// terminal state is emitted, after which the channel closes. Fetch
// errors are skipped; polling continues on the next tick. The returned
// stop func cancels polling; ctx cancellation does too.
func (p *Poller) Poll(ctx context.Context, id string) (<-chan domain.ScanJob, func()) {
	ctx, stop := context.WithCancel(ctx)
	out := make(chan domain.ScanJob)

	go func() {
		defer close(out)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			job, err := p.api.GetScanJob(ctx, id)
			if err == nil {
				select {
				case out <- job:
				case <-ctx.Done():
					return
				}
				if job.Status.Terminal() {
					return
				}
			} else if ctx.Err() != nil {
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, stop
}

// Run starts a new scan job and polls it. Convenience wrapper for the
// common start-then-watch flow.
func (p *Poller) Run(ctx context.Context) (domain.ScanJob, <-chan domain.ScanJob, func(), error) {
	job, err := p.Start(ctx)
	if err != nil {
		return domain.ScanJob{}, nil, nil, err
	}
	ch, stop := p.Poll(ctx, job.ID)
	return job, ch, stop, nil
}
