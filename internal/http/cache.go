package http

import (
	"sync"
	"time"

	"retro/internal/core"
)

// listCache holds one snapshot of the full record list with a TTL. Any
// mutation invalidates it, so a read after a write always refetches from
// the store.
type listCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	records   []core.Retrospective
	fetchedAt time.Time
	valid     bool
}

func newListCache(ttl time.Duration) *listCache {
	return &listCache{ttl: ttl}
}

func (c *listCache) Get() ([]core.Retrospective, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid || time.Since(c.fetchedAt) > c.ttl {
		return nil, false
	}
	out := make([]core.Retrospective, len(c.records))
	copy(out, c.records)
	return out, true
}

func (c *listCache) Set(records []core.Retrospective) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = make([]core.Retrospective, len(records))
	copy(c.records, records)
	c.fetchedAt = time.Now()
	c.valid = true
}

func (c *listCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.records = nil
}
