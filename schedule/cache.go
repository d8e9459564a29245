/*
cache.go - TTL cache decorator over the Store

PURPOSE:
  Anomaly detection reads the same client schedules repeatedly within a
  reporting pass. This decorator caches GetDates results with an explicit
  TTL and invalidates on writes, keeping caching strictly outside the pure
  evaluation functions.

INVALIDATION:
  - ReplaceYear invalidates every cached entry for the written client
    before delegating (write-through).
  - Invalidate(pattern) supports a trailing-* prefix pattern for callers
    that mutate storage out of band ("client-42:*" or "*").

JANITOR:
  Expired entries are dropped lazily on read; a background janitor sweeps
  the map periodically so idle entries don't pin memory. Stop the cache
  when done - the janitor goroutine exits on Stop.

SEE ALSO:
  - store.go: the wrapped interface
*/
package schedule

import (
	"context"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// CACHED STORE
// =============================================================================

// CachedStore wraps a Store with a TTL read cache for GetDates.
type CachedStore struct {
	inner Store
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry

	stopOnce sync.Once
	stop     chan struct{}
	wg       sync.WaitGroup
}

type cacheEntry struct {
	dates     []ScheduledDate
	expiresAt time.Time
}

// NewCachedStore wraps inner with the given TTL and starts the janitor.
func NewCachedStore(inner Store, ttl time.Duration) *CachedStore {
	c := &CachedStore{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		stop:    make(chan struct{}),
	}
	c.wg.Add(1)
	go c.janitor()
	return c
}

// Stop terminates the janitor. Safe to call more than once.
func (c *CachedStore) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
	c.wg.Wait()
}

func (c *CachedStore) janitor() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.sweep(time.Now())
		case <-c.stop:
			return
		}
	}
}

func (c *CachedStore) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

func cacheKey(clientID ClientID, activity Activity) string {
	return string(clientID) + ":" + string(activity)
}

// GetDates serves from cache when fresh, otherwise reads through.
func (c *CachedStore) GetDates(ctx context.Context, clientID ClientID, activity Activity) ([]ScheduledDate, error) {
	key := cacheKey(clientID, activity)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		out := make([]ScheduledDate, len(entry.dates))
		copy(out, entry.dates)
		return out, nil
	}

	dates, err := c.inner.GetDates(ctx, clientID, activity)
	if err != nil {
		return nil, err
	}

	cached := make([]ScheduledDate, len(dates))
	copy(cached, dates)
	c.mu.Lock()
	c.entries[key] = cacheEntry{dates: cached, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return dates, nil
}

// ReplaceYear invalidates the client's cached entries and delegates.
func (c *CachedStore) ReplaceYear(ctx context.Context, clientID ClientID, activity Activity, year int, dates []ScheduledDateInput) (int, error) {
	c.Invalidate(string(clientID) + ":*")
	return c.inner.ReplaceYear(ctx, clientID, activity, year, dates)
}

// Invalidate drops entries matching the pattern. A pattern is either an
// exact key, a prefix ending in '*', or "*" for everything.
func (c *CachedStore) Invalidate(pattern string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pattern == "*" {
		c.entries = make(map[string]cacheEntry)
		return
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		for k := range c.entries {
			if strings.HasPrefix(k, prefix) {
				delete(c.entries, k)
			}
		}
		return
	}
	delete(c.entries, pattern)
}

// Len returns the number of cached entries (expired included until swept).
func (c *CachedStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
