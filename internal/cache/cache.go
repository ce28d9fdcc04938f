// Package cache shields the upstream sources from redundant fetches.
// It holds at most one batch per source with a staleness window; the
// append-only history lives in the store, never here.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/confplanner/reinvent/internal/model"
	"github.com/confplanner/reinvent/internal/source"
)

// DefaultTTL is the staleness window applied to sources without an
// explicit override.
const DefaultTTL = 30 * time.Minute

type entry struct {
	batch     model.Batch
	fetchedAt time.Time
}

// Cache is a per-source TTL cache around adapter fetches. Pass one
// instance to the orchestrator; there is no global.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	perTTL  map[string]time.Duration
	entries map[string]entry
	now     func() time.Time // replaceable in tests
}

// New returns a cache with the given default staleness window
// (DefaultTTL when ttl <= 0).
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		perTTL:  make(map[string]time.Duration),
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// SetTTL overrides the staleness window for one source.
func (c *Cache) SetTTL(sourceName string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.perTTL[sourceName] = ttl
}

// Get returns the cached batch for src when still fresh, otherwise
// invokes the adapter. force always invokes the adapter. A failed
// fetch never evicts a previously cached batch: the error is returned
// and the stale entry stays available via Last.
func (c *Cache) Get(ctx context.Context, src source.Source, force bool) (model.Batch, error) {
	name := src.Name()

	c.mu.Lock()
	if !force {
		if e, ok := c.entries[name]; ok && c.now().Sub(e.fetchedAt) < c.ttlFor(name) {
			c.mu.Unlock()
			return e.batch, nil
		}
	}
	c.mu.Unlock()

	batch, err := src.Fetch(ctx)
	if err != nil {
		return model.Batch{}, err
	}

	c.mu.Lock()
	c.entries[name] = entry{batch: batch, fetchedAt: c.now()}
	c.mu.Unlock()
	return batch, nil
}

// Last returns the most recently fetched batch for a source,
// regardless of freshness. ok is false when the source has never
// fetched successfully.
func (c *Cache) Last(sourceName string) (model.Batch, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[sourceName]
	return e.batch, ok
}

func (c *Cache) ttlFor(name string) time.Duration {
	if ttl, ok := c.perTTL[name]; ok {
		return ttl
	}
	return c.ttl
}
