// Package registry holds the in-memory conflict set: ingesting conflicts
// from the backend and the event stream, deduplicating by id, and
// tracking the local acknowledge/resolve lifecycle.
package registry

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nbelyaev/linewatch/internal/domain"
)

// ConflictState is the durable part of a conflict's lifecycle.
type ConflictState struct {
	ID         string
	Status     domain.ConflictStatus
	Notes      string
	ResolvedAt *time.Time
}

// StateSink persists lifecycle transitions. Saves happen off the caller's
// goroutine; a failed save leaves the in-memory state authoritative.
type StateSink interface {
	SaveConflictState(state ConflictState) error
}

// Registry is the deduplicated conflict set. All methods are safe for
// concurrent use.
type Registry struct {
	mu        sync.Mutex
	conflicts map[string]domain.Conflict
	sink      StateSink

	// pending lets tests wait for fire-and-forget saves.
	pending sync.WaitGroup
}

// NewRegistry creates an empty registry. sink may be nil.
func NewRegistry(sink StateSink) *Registry {
	return &Registry{
		conflicts: make(map[string]domain.Conflict),
		sink:      sink,
	}
}

// Replace atomically swaps the conflict set for incoming. Lifecycle
// fields of conflicts already known under the same id survive: a
// re-detected conflict does not lose its acknowledged/resolved state.
func (r *Registry) Replace(incoming []domain.Conflict) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]domain.Conflict, len(incoming))
	for _, c := range incoming {
		if c.ID == "" {
			continue
		}
		next[c.ID] = r.mergeLocked(c)
	}
	r.conflicts = next
}

// Upsert inserts or refreshes a single conflict, preserving any local
// lifecycle state. It reports whether the conflict was previously
// unknown.
func (r *Registry) Upsert(c domain.Conflict) bool {
	if c.ID == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	_, known := r.conflicts[c.ID]
	r.conflicts[c.ID] = r.mergeLocked(c)
	return !known
}

// mergeLocked overlays the existing lifecycle onto an incoming conflict.
// Incoming rows carrying an explicit non-new status win; otherwise the
// local optimistic state is authoritative.
func (r *Registry) mergeLocked(c domain.Conflict) domain.Conflict {
	existing, ok := r.conflicts[c.ID]
	if !ok {
		if c.Status == "" {
			c.Status = domain.ConflictNew
		}
		return c
	}
	if c.Status == "" || c.Status == domain.ConflictNew {
		c.Status = existing.Status
		c.Notes = existing.Notes
		c.ResolvedAt = existing.ResolvedAt
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = existing.CreatedAt
	}
	return c
}

// RestoreStates applies persisted lifecycle state after an ingest.
// Unknown ids are skipped, and a conflict that already advanced past
// new in memory is never downgraded by stale disk state.
func (r *Registry) RestoreStates(states []ConflictState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, st := range states {
		c, ok := r.conflicts[st.ID]
		if !ok || c.Status != domain.ConflictNew {
			continue
		}
		c.Status = st.Status
		c.Notes = st.Notes
		c.ResolvedAt = st.ResolvedAt
		r.conflicts[st.ID] = c
	}
}

// Get returns the conflict with the given id.
func (r *Registry) Get(id string) (domain.Conflict, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conflicts[id]
	return c, ok
}

// Len returns the number of tracked conflicts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conflicts)
}

// List returns all conflicts sorted by severity (critical first), then
// newest first, then id for a stable order.
func (r *Registry) List() []domain.Conflict {
	return r.Filter(FilterOptions{})
}

// FilterOptions narrows List output. Zero values mean "no filter".
type FilterOptions struct {
	Severity *domain.Severity
	Status   domain.ConflictStatus
	LineName string
	Kind     string
}

// Filter returns a sorted view of the conflicts matching opts. The view
// is a copy; mutating it does not touch the registry.
func (r *Registry) Filter(opts FilterOptions) []domain.Conflict {
	r.mu.Lock()
	out := make([]domain.Conflict, 0, len(r.conflicts))
	for _, c := range r.conflicts {
		if opts.Severity != nil && c.Severity != *opts.Severity {
			continue
		}
		if opts.Status != "" && c.Status != opts.Status {
			continue
		}
		if opts.LineName != "" && !strings.EqualFold(c.LineName, opts.LineName) {
			continue
		}
		if opts.Kind != "" && !strings.EqualFold(c.DowntimeKind, opts.Kind) {
			continue
		}
		out = append(out, c)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Severity != out[j].Severity {
			return out[i].Severity > out[j].Severity
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Acknowledge moves a conflict from new to acknowledged. Repeating the
// current state is a no-op; acknowledging a resolved conflict returns
// domain.ErrConflictResolved.
func (r *Registry) Acknowledge(id string) error {
	return r.transition(id, func(c *domain.Conflict) error {
		return c.Acknowledge()
	})
}

// Resolve marks a conflict resolved with optional notes. Resolving an
// already resolved conflict keeps the first resolution.
func (r *Registry) Resolve(id, notes string) error {
	now := time.Now().UTC()
	return r.transition(id, func(c *domain.Conflict) error {
		return c.Resolve(notes, now)
	})
}

func (r *Registry) transition(id string, apply func(*domain.Conflict) error) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrEmptyID
	}

	r.mu.Lock()
	c, ok := r.conflicts[id]
	if !ok {
		r.mu.Unlock()
		return domain.ErrUnknownConflict
	}
	if err := apply(&c); err != nil {
		r.mu.Unlock()
		return err
	}
	r.conflicts[id] = c
	state := ConflictState{ID: c.ID, Status: c.Status, Notes: c.Notes, ResolvedAt: c.ResolvedAt}
	r.mu.Unlock()

	if r.sink != nil {
		r.pending.Add(1)
		go func() {
			defer r.pending.Done()
			_ = r.sink.SaveConflictState(state)
		}()
	}
	return nil
}

// Flush waits for in-flight state saves. Used on shutdown and in tests.
func (r *Registry) Flush() {
	r.pending.Wait()
}
