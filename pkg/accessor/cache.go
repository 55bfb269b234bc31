package accessor

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mesh-intelligence/brandly/pkg/types"
)

// Key identifies one cached result set. Scope is empty for unconstrained
// accessors and encodes the fixed constraints otherwise.
type Key struct {
	Collection string
	Owner      string
	Scope      string
}

// entry is the cached state of one Key. data holds a []T for the
// accessor type bound to the collection. searched is set while data is a
// search result rather than the full set.
type entry struct {
	data      any
	loading   bool
	err       string
	loaded    bool
	stale     bool
	searched  bool
	fetchedAt time.Time
}

// Cache holds accessor result sets keyed by collection, owner and scope.
// The zero value is not usable; call NewCache.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Key]*entry)}
}

// Invalidate marks the entry for k stale so the next Load refetches it.
// Cached data stays readable until then.
func (c *Cache) Invalidate(k Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[k]; ok {
		e.stale = true
	}
}

// InvalidateCollection marks every entry of a collection stale, across
// owners and scopes.
func (c *Cache) InvalidateCollection(collection string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if k.Collection == collection {
			e.stale = true
		}
	}
}

// FetchedAt reports when k last completed a successful fetch or search.
func (c *Cache) FetchedAt(k Key) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[k]
	if !ok || !e.loaded {
		return time.Time{}, false
	}
	return e.fetchedAt, true
}

// update runs fn on the entry for k, creating it if needed.
func (c *Cache) update(k Key, fn func(e *entry)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[k]
	if !ok {
		e = &entry{loading: true}
		c.entries[k] = e
	}
	fn(e)
}

// snapshot returns a copy of the entry for k. A missing entry reads as
// loading with no data.
func (c *Cache) snapshot(k Key) entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[k]
	if !ok {
		return entry{loading: true}
	}
	return *e
}

// scopeOf renders equality constraints as a stable key fragment.
func scopeOf(preds []types.Predicate) string {
	if len(preds) == 0 {
		return ""
	}
	parts := make([]string, len(preds))
	for i, p := range preds {
		parts[i] = p.Field + p.Op + p.Value
	}
	sort.Strings(parts)
	return strings.Join(parts, "&")
}
