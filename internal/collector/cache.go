package collector

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// CollectionError reports a failed sub-collector. The aggregator
// surfaces exactly one of these per failed run; no partial context
// ever reaches downstream stages.
type CollectionError struct {
	Source string // which collector failed: campaign, creative, competitor
	Err    error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("failed to collect %s metrics: %v", e.Source, e.Err)
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}

// cacheEntry pairs a cached record with its collection time.
type cacheEntry[T any] struct {
	value    T
	storedAt time.Time
}

// ttlCache is a small time-bounded cache keyed by campaign and
// parameters. It is safe for concurrent use so a collector instance
// may be shared across pipeline runs; a race between two writers for
// the same key just recomputes, which is acceptable here.
type ttlCache[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry[T]
	now     func() time.Time
}

func newTTLCache[T any](ttl time.Duration) *ttlCache[T] {
	return &ttlCache[T]{
		ttl:     ttl,
		entries: make(map[string]cacheEntry[T]),
		now:     time.Now,
	}
}

// cacheKey builds a deterministic key from collector name, campaign
// id, and sorted parameters.
func cacheKey(collector, campaignID string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(collector)
	sb.WriteString(":")
	sb.WriteString(campaignID)
	for _, k := range keys {
		sb.WriteString(":")
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(params[k])
	}
	return sb.String()
}

// get returns the cached value if present and fresh.
func (c *ttlCache[T]) get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		var zero T
		return zero, false
	}
	return entry.value, true
}

// set stores a value with the current time.
func (c *ttlCache[T]) set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[T]{value: value, storedAt: c.now()}
}
