package service

import (
	"context"
	"fmt"

	"github.com/nbelyaev/linewatch/internal/api"
	"github.com/nbelyaev/linewatch/internal/detect"
	"github.com/nbelyaev/linewatch/internal/domain"
	"github.com/nbelyaev/linewatch/internal/registry"
	"github.com/nbelyaev/linewatch/internal/repository"
	"github.com/nbelyaev/linewatch/internal/revision"
)

type monitorService struct {
	provider  ConflictProvider
	registry  *registry.Registry
	states    repository.ConflictStateStore
	revisions *revision.Cache
	observer  UseCaseObserver
}

// NewMonitorService wires the monitoring pipeline. states may be nil
// (no durable lifecycle); observer may be nil.
func NewMonitorService(
	provider ConflictProvider,
	reg *registry.Registry,
	states repository.ConflictStateStore,
	revisions *revision.Cache,
	observer UseCaseObserver,
) MonitorService {
	if observer == nil {
		observer = NoopUseCaseObserver{}
	}
	return &monitorService{
		provider:  provider,
		registry:  reg,
		states:    states,
		revisions: revisions,
		observer:  observer,
	}
}

// Refresh rebuilds the conflict set: the server's conflict list is
// authoritative, and a local detection pass over plans and downtimes
// catches pairs the server has not reported yet.
func (s *monitorService) Refresh(ctx context.Context) (RefreshResult, error) {
	var result RefreshResult
	err := observe(ctx, s.observer, "refresh", nil, func() error {
		raw, err := s.provider.ListConflicts(ctx)
		if err != nil {
			return fmt.Errorf("fetching conflicts: %w", err)
		}

		tasks, err := s.provider.ListPlanTasks(ctx, api.ListFilter{})
		if err != nil {
			return fmt.Errorf("fetching plan tasks: %w", err)
		}
		downtimes, err := s.provider.ListDowntimes(ctx, api.ListFilter{})
		if err != nil {
			return fmt.Errorf("fetching downtimes: %w", err)
		}

		merged := make(map[string]domain.Conflict, len(raw))
		for _, rc := range raw {
			c := registry.FromRaw(rc)
			merged[c.ID] = c
		}
		result.ServerReported = len(merged)

		for _, c := range detect.DetectAll(tasks, downtimes) {
			if _, known := merged[c.ID]; known {
				continue
			}
			merged[c.ID] = c
			result.LocallyDetected++
		}

		conflicts := make([]domain.Conflict, 0, len(merged))
		for _, c := range merged {
			conflicts = append(conflicts, c)
		}
		s.registry.Replace(conflicts)
		s.restoreStates()

		result.Total = s.registry.Len()
		return nil
	})
	return result, err
}

// restoreStates re-applies persisted lifecycle decisions to conflicts
// that came back as new.
func (s *monitorService) restoreStates() {
	if s.states == nil {
		return
	}
	stored, err := s.states.LoadConflictStates()
	if err != nil {
		// In-memory state stays authoritative; worst case a lifecycle
		// decision is re-entered by the user.
		return
	}
	s.registry.RestoreStates(stored)
}

// HandleEvent folds one notification into the local state: conflict
// payloads land in the registry immediately, and data-changing codes
// bump the revision so the next auto-refresh reconciles everything.
func (s *monitorService) HandleEvent(event domain.NotificationEvent) {
	if event.Code == domain.CodeConflictDetected {
		if c, ok := registry.FromFolded(event.Payload, event.CreatedAt); ok {
			s.registry.Upsert(c)
			s.restoreStates()
		}
	}
	if s.revisions != nil {
		s.revisions.Observe(event)
	}
}

// RunAutoRefresh blocks, refreshing after every revision change, until
// ctx is cancelled. Fetch failures are reported to the observer and
// retried on the next change.
func (s *monitorService) RunAutoRefresh(ctx context.Context) {
	if s.revisions == nil {
		<-ctx.Done()
		return
	}
	changes, cancel := s.revisions.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			_, _ = s.Refresh(ctx)
		}
	}
}

func (s *monitorService) Conflicts(opts registry.FilterOptions) []domain.Conflict {
	return s.registry.Filter(opts)
}

func (s *monitorService) Conflict(id string) (domain.Conflict, bool) {
	return s.registry.Get(id)
}

func (s *monitorService) Acknowledge(id string) error {
	return observe(context.Background(), s.observer, "acknowledge",
		map[string]any{"conflict_id": id},
		func() error { return s.registry.Acknowledge(id) })
}

func (s *monitorService) Resolve(id, notes string) error {
	return observe(context.Background(), s.observer, "resolve",
		map[string]any{"conflict_id": id},
		func() error { return s.registry.Resolve(id, notes) })
}

func (s *monitorService) Lines(ctx context.Context) ([]domain.Line, error) {
	return s.provider.ListLines(ctx)
}
