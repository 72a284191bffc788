// Package cache memoizes the sorted view of each table.
//
// The cache is a derived, disposable optimization. The CSV file is the
// source of truth; a cached snapshot is dropped on every successful
// write and rebuilt lazily on the next read. Keys are table ids alone,
// the universe of which is fixed by the registry, so there is no size
// or time based eviction.
package cache

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/podium/internal/adapters/storage"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/pkg/metrics"
)

// RankingCache holds at most one sorted snapshot per table id.
type RankingCache struct {
	mu        sync.RWMutex
	snapshots map[string][]model.Entry
	// versions counts writes (Put, Invalidate) per table. A lazy load
	// that started before a write carries pre-write rows; comparing
	// versions lets the loader notice and discard its install.
	versions map[string]uint64
	store    storage.Store
}

// New creates a RankingCache backed by store.
func New(store storage.Store) *RankingCache {
	return &RankingCache{
		snapshots: make(map[string][]model.Entry),
		versions:  make(map[string]uint64),
		store:     store,
	}
}

// GetOrLoad returns the memoized sorted snapshot for table, rebuilding
// it from the store when absent. The returned slice is a copy; callers
// never alias the cached snapshot.
func (c *RankingCache) GetOrLoad(ctx context.Context, table string) ([]model.Entry, error) {
	c.mu.RLock()
	snap, ok := c.snapshots[table]
	seen := c.versions[table]
	c.mu.RUnlock()
	if ok {
		metrics.RecordCacheHit()
		return model.CloneEntries(snap), nil
	}
	metrics.RecordCacheMiss()

	entries, err := c.store.Load(ctx, table)
	if err != nil {
		return nil, err
	}
	SortDescending(entries)

	c.mu.Lock()
	if c.versions[table] != seen {
		// A write landed while the load was in flight, so the loaded
		// rows predate it. Keep the memo as the writer left it and serve
		// the writer's snapshot when one exists.
		if cur, ok := c.snapshots[table]; ok {
			out := model.CloneEntries(cur)
			c.mu.Unlock()
			return out, nil
		}
		c.mu.Unlock()
		return entries, nil
	}
	// A concurrent loader may have raced us here; either install is a
	// valid sorted view of the same unwritten file.
	c.snapshots[table] = entries
	c.mu.Unlock()

	return model.CloneEntries(entries), nil
}

// Put installs a freshly persisted snapshot for table, replacing
// whatever was memoized. entries must already be sorted.
func (c *RankingCache) Put(table string, entries []model.Entry) {
	snap := model.CloneEntries(entries)
	c.mu.Lock()
	c.versions[table]++
	c.snapshots[table] = snap
	c.mu.Unlock()
}

// Invalidate drops the memoized snapshot for table so the next
// GetOrLoad re-reads from the store.
func (c *RankingCache) Invalidate(table string) {
	c.mu.Lock()
	c.versions[table]++
	delete(c.snapshots, table)
	c.mu.Unlock()
}

// SortDescending stable-sorts entries by score, highest first. Ties
// keep their prior relative order.
func SortDescending(entries []model.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
}
