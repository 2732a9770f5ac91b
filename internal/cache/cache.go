// Package cache provides the process-wide get-or-compute cache used by every
// context lookup.
package cache

import (
	"sync"
	"time"

	"github.com/mendel-gtm/gtm-api/internal/metrics"
)

// DefaultTTL is how long a computed value stays live.
const DefaultTTL = 5 * time.Minute

type entry struct {
	value    any
	storedAt time.Time
}

// Cache maps opaque string keys to computed values with a fixed TTL.
//
// The mutex only protects the map. Two callers missing the same key both run
// their compute function and the last one to finish wins.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	clock   Clock
}

// New creates a Cache. A non-positive ttl selects DefaultTTL and a nil clock
// selects the system clock.
func New(ttl time.Duration, clock Clock) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &Cache{entries: make(map[string]entry), ttl: ttl, clock: clock}
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration { return c.ttl }

func (c *Cache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock.Now().Sub(e.storedAt) >= c.ttl {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) set(key string, value any) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, storedAt: c.clock.Now()}
	c.mu.Unlock()
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GetOrCompute returns the live value for key, or runs compute and stores its
// result. A compute error is returned as-is and nothing is stored.
//
// A live entry holding a value of a different type than T is treated as a
// miss and overwritten.
func GetOrCompute[T any](c *Cache, key string, compute func() (T, error)) (T, error) {
	if v, ok := c.get(key); ok {
		if typed, ok := v.(T); ok {
			metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
			return typed, nil
		}
	}
	metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()

	v, err := compute()
	if err != nil {
		return v, err
	}
	c.set(key, v)
	return v, nil
}
