// Package revision tracks a monotonic data revision: a counter bumped
// whenever a notification indicates the backend's plan or downtime data
// changed. Consumers watch the counter and re-fetch on change instead of
// re-fetching on every event.
package revision

import (
	"sync"

	"github.com/nbelyaev/linewatch/internal/domain"
)

// Cache is the revision counter plus its watchers. The zero value is
// not usable; use NewCache.
type Cache struct {
	mu       sync.Mutex
	revision uint64
	watchers map[int]chan uint64
	nextID   int
}

// NewCache creates a cache at revision 0.
func NewCache() *Cache {
	return &Cache{watchers: make(map[int]chan uint64)}
}

// Current returns the current revision.
func (c *Cache) Current() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision
}

// Observe bumps the revision if the event's code indicates changed data.
// It reports whether a bump happened.
func (c *Cache) Observe(event domain.NotificationEvent) bool {
	if !event.DataChanging() {
		return false
	}
	c.Bump()
	return true
}

// Bump unconditionally advances the revision and wakes the watchers.
func (c *Cache) Bump() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revision++
	for _, ch := range c.watchers {
		// Coalesce: a watcher that has not drained yet still sees a
		// revision newer than the one it last handled.
		select {
		case ch <- c.revision:
		default:
		}
	}
}

// Subscribe returns a channel receiving revision numbers after each
// change, and a cancel func that closes it. Notifications are
// distinct-until-changed: consecutive deliveries always carry
// increasing revisions.
func (c *Cache) Subscribe() (<-chan uint64, func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	ch := make(chan uint64, 1)
	c.watchers[id] = ch
	c.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.watchers, id)
			c.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
