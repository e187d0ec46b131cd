// Package service orchestrates the monitoring pipeline: fetching plan
// and downtime data, merging server-reported and locally detected
// conflicts into the registry, and reacting to the event stream.
package service

import (
	"context"

	"github.com/nbelyaev/linewatch/internal/api"
	"github.com/nbelyaev/linewatch/internal/domain"
	"github.com/nbelyaev/linewatch/internal/registry"
)

// ConflictProvider is the backend surface the monitor needs. *api.Client
// satisfies it; tests substitute fakes.
type ConflictProvider interface {
	ListLines(ctx context.Context) ([]domain.Line, error)
	ListPlanTasks(ctx context.Context, filter api.ListFilter) ([]domain.PlanTask, error)
	ListDowntimes(ctx context.Context, filter api.ListFilter) ([]domain.Downtime, error)
	ListConflicts(ctx context.Context) ([]api.RawConflict, error)
}

// RefreshResult summarizes one refresh pass.
type RefreshResult struct {
	Total           int
	ServerReported  int
	LocallyDetected int
}

// MonitorService is the conflict monitoring pipeline.
type MonitorService interface {
	// Refresh re-fetches everything and rebuilds the conflict set.
	Refresh(ctx context.Context) (RefreshResult, error)

	// HandleEvent folds one stream notification into the local state.
	// Wired as a stream.Handler.
	HandleEvent(event domain.NotificationEvent)

	// RunAutoRefresh refreshes whenever the data revision changes, until
	// ctx is cancelled.
	RunAutoRefresh(ctx context.Context)

	Conflicts(opts registry.FilterOptions) []domain.Conflict
	Conflict(id string) (domain.Conflict, bool)
	Acknowledge(id string) error
	Resolve(id, notes string) error

	Lines(ctx context.Context) ([]domain.Line, error)
}
