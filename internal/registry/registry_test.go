package registry

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbelyaev/linewatch/internal/domain"
)

type recordingSink struct {
	mu     sync.Mutex
	states []ConflictState
}

func (s *recordingSink) SaveConflictState(state ConflictState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = append(s.states, state)
	return nil
}

func (s *recordingSink) last() (ConflictState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.states) == 0 {
		return ConflictState{}, false
	}
	return s.states[len(s.states)-1], true
}

func conflictFixture(id string, sev domain.Severity, createdAt time.Time) domain.Conflict {
	return domain.Conflict{
		ID:        id,
		Severity:  sev,
		Status:    domain.ConflictNew,
		CreatedAt: createdAt,
	}
}

func TestRegistry_Replace_DedupsAndSorts(t *testing.T) {
	r := NewRegistry(nil)
	base := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	r.Replace([]domain.Conflict{
		conflictFixture("c1", domain.SeverityLow, base),
		conflictFixture("c2", domain.SeverityCritical, base),
		conflictFixture("c3", domain.SeverityHigh, base.Add(time.Hour)),
		conflictFixture("c4", domain.SeverityHigh, base),
		conflictFixture("c2", domain.SeverityCritical, base), // duplicate id
	})

	require.Equal(t, 4, r.Len())
	got := r.List()
	ids := make([]string, 0, len(got))
	for _, c := range got {
		ids = append(ids, c.ID)
	}
	// severity desc, then newest first
	assert.Equal(t, []string{"c2", "c3", "c4", "c1"}, ids)
}

func TestRegistry_Replace_PreservesLifecycle(t *testing.T) {
	r := NewRegistry(nil)
	base := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	r.Replace([]domain.Conflict{conflictFixture("c1", domain.SeverityHigh, base)})
	require.NoError(t, r.Acknowledge("c1"))

	// Re-detection delivers the same conflict as new again.
	r.Replace([]domain.Conflict{conflictFixture("c1", domain.SeverityCritical, base)})

	c, ok := r.Get("c1")
	require.True(t, ok)
	assert.Equal(t, domain.ConflictAcknowledged, c.Status)
	assert.Equal(t, domain.SeverityCritical, c.Severity)
}

func TestRegistry_Replace_ExplicitServerStatusWins(t *testing.T) {
	r := NewRegistry(nil)
	base := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	r.Replace([]domain.Conflict{conflictFixture("c1", domain.SeverityHigh, base)})
	require.NoError(t, r.Acknowledge("c1"))

	incoming := conflictFixture("c1", domain.SeverityHigh, base)
	incoming.Status = domain.ConflictResolved
	r.Replace([]domain.Conflict{incoming})

	c, _ := r.Get("c1")
	assert.Equal(t, domain.ConflictResolved, c.Status)
}

func TestRegistry_LifecyclePolicy(t *testing.T) {
	r := NewRegistry(nil)
	r.Upsert(conflictFixture("c1", domain.SeverityMedium, time.Now()))

	require.NoError(t, r.Acknowledge("c1"))
	require.NoError(t, r.Acknowledge("c1")) // idempotent

	require.NoError(t, r.Resolve("c1", "shifted the plan task"))
	c, _ := r.Get("c1")
	require.NotNil(t, c.ResolvedAt)
	first := *c.ResolvedAt

	// Resolving again keeps the original resolution.
	require.NoError(t, r.Resolve("c1", "other notes"))
	c, _ = r.Get("c1")
	assert.Equal(t, first, *c.ResolvedAt)
	assert.Equal(t, "shifted the plan task", c.Notes)

	// Resolved is terminal for acknowledge.
	assert.ErrorIs(t, r.Acknowledge("c1"), domain.ErrConflictResolved)
}

func TestRegistry_BlankAndUnknownIDs(t *testing.T) {
	r := NewRegistry(nil)
	assert.ErrorIs(t, r.Acknowledge(""), domain.ErrEmptyID)
	assert.ErrorIs(t, r.Resolve("   ", "x"), domain.ErrEmptyID)
	assert.ErrorIs(t, r.Acknowledge("nope"), domain.ErrUnknownConflict)
}

func TestRegistry_SinkReceivesTransitions(t *testing.T) {
	sink := &recordingSink{}
	r := NewRegistry(sink)
	r.Upsert(conflictFixture("c1", domain.SeverityLow, time.Now()))

	require.NoError(t, r.Resolve("c1", "swapped lines"))
	r.Flush()

	state, ok := sink.last()
	require.True(t, ok)
	assert.Equal(t, "c1", state.ID)
	assert.Equal(t, domain.ConflictResolved, state.Status)
	assert.Equal(t, "swapped lines", state.Notes)
	require.NotNil(t, state.ResolvedAt)
}

func TestRegistry_RestoreStates(t *testing.T) {
	r := NewRegistry(nil)
	r.Replace([]domain.Conflict{
		conflictFixture("c1", domain.SeverityHigh, time.Now()),
		conflictFixture("c2", domain.SeverityLow, time.Now()),
	})

	resolvedAt := time.Date(2025, 12, 2, 9, 0, 0, 0, time.UTC)
	r.RestoreStates([]ConflictState{
		{ID: "c1", Status: domain.ConflictResolved, Notes: "done", ResolvedAt: &resolvedAt},
		{ID: "ghost", Status: domain.ConflictAcknowledged},
	})

	c, _ := r.Get("c1")
	assert.Equal(t, domain.ConflictResolved, c.Status)
	assert.Equal(t, "done", c.Notes)

	c2, _ := r.Get("c2")
	assert.Equal(t, domain.ConflictNew, c2.Status)
}

func TestRegistry_Filter(t *testing.T) {
	r := NewRegistry(nil)
	now := time.Now()
	a := conflictFixture("a", domain.SeverityCritical, now)
	a.LineName, a.DowntimeKind = "Линия А", "ремонт"
	b := conflictFixture("b", domain.SeverityLow, now)
	b.LineName, b.DowntimeKind = "Линия Б", "мойка"
	r.Replace([]domain.Conflict{a, b})
	require.NoError(t, r.Acknowledge("b"))

	crit := domain.SeverityCritical
	assert.Len(t, r.Filter(FilterOptions{Severity: &crit}), 1)
	assert.Len(t, r.Filter(FilterOptions{Status: domain.ConflictAcknowledged}), 1)
	assert.Len(t, r.Filter(FilterOptions{LineName: "линия а"}), 1)
	assert.Len(t, r.Filter(FilterOptions{Kind: "мойка"}), 1)
	assert.Len(t, r.Filter(FilterOptions{LineName: "Линия В"}), 0)
}
