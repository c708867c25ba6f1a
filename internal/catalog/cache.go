package catalog

import (
	"log/slog"
	"sync"
)

// Cache owns a catalog snapshot for one archive root. Items is built lazily
// and rebuilt whenever the cached snapshot is empty, so an archive mounted
// after startup is picked up without a restart.
type Cache struct {
	root string
	opts Options

	mu    sync.RWMutex
	items []Item
	byKey map[string]int
}

// NewCache returns a cache for root. Nothing is scanned until first use.
func NewCache(root string, opts Options) *Cache {
	return &Cache{root: root, opts: opts}
}

// NewCacheWithLogger is shorthand for NewCache with only a logger set.
func NewCacheWithLogger(root string, logger *slog.Logger) *Cache {
	return NewCache(root, Options{Logger: logger})
}

// Root returns the archive root the cache scans.
func (c *Cache) Root() string { return c.root }

// Items returns the cached catalog, building it when empty. The returned
// slice must not be modified.
func (c *Cache) Items() []Item {
	c.mu.RLock()
	items := c.items
	c.mu.RUnlock()
	if len(items) > 0 {
		return items
	}
	return c.Refresh()
}

// Refresh rescans the archive and replaces the snapshot.
func (c *Cache) Refresh() []Item {
	items := BuildWithOptions(c.root, c.opts)
	byKey := make(map[string]int, len(items))
	for i, item := range items {
		byKey[item.GroupKey] = i
	}
	c.mu.Lock()
	c.items = items
	c.byKey = byKey
	c.mu.Unlock()
	return items
}

// Lookup finds an item by group key.
func (c *Cache) Lookup(groupKey string) (Item, bool) {
	c.Items()
	c.mu.RLock()
	defer c.mu.RUnlock()
	pos, ok := c.byKey[groupKey]
	if !ok {
		return Item{}, false
	}
	return c.items[pos], true
}

// Next returns the first item in date order whose group key is not in done.
func (c *Cache) Next(done map[string]struct{}) (Item, bool) {
	for _, item := range c.Items() {
		if _, ok := done[item.GroupKey]; !ok {
			return item, true
		}
	}
	return Item{}, false
}

// Remaining counts items whose group key is not in done.
func (c *Cache) Remaining(done map[string]struct{}) int {
	count := 0
	for _, item := range c.Items() {
		if _, ok := done[item.GroupKey]; !ok {
			count++
		}
	}
	return count
}
