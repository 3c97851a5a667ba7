// Package cache keeps the last indexed document per page so the next
// compile of the same page has something to diff against.
package cache

import (
	"sort"
	"strings"
	"sync"

	"github.com/tola-format/vdom/debug"
	"github.com/tola-format/vdom/ir"
)

// NormalizeKey canonicalizes a page path so that the path variants a
// dev server sees ("/blog/post/", "blog/post", "/blog//post") all hit
// the same entry: query and fragment stripped, duplicate slashes
// collapsed, exactly one leading slash, no trailing slash except for
// the root itself.
func NormalizeKey(key string) string {
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	for strings.Contains(key, "//") {
		key = strings.ReplaceAll(key, "//", "/")
	}
	key = strings.TrimSuffix(key, "/")
	if !strings.HasPrefix(key, "/") {
		key = "/" + key
	}
	return key
}

type entry struct {
	doc     *ir.Document
	version uint64
}

// Cache is a concurrency-safe document store keyed by normalized page
// path. Each insert bumps the entry's version so callers can tell
// re-renders apart.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func New() *Cache {
	return &Cache{entries: make(map[string]*entry)}
}

// Get returns the cached document and its version.
func (c *Cache) Get(key string) (*ir.Document, uint64, bool) {
	key = NormalizeKey(key)
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, 0, false
	}
	return e.doc, e.version, true
}

// Insert stores a document, replacing any previous version, and
// returns the new version number (starting at 1).
func (c *Cache) Insert(key string, doc *ir.Document) uint64 {
	key = NormalizeKey(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	e.doc = doc
	e.version++
	if debug.Cache() {
		debug.Logf("cache: insert %s v%d\n", key, e.version)
	}
	return e.version
}

// Swap stores a document and returns the previously cached one, in a
// single critical section. This is the hot-reload primitive: diff the
// returned document against the one just stored.
func (c *Cache) Swap(key string, doc *ir.Document) (prev *ir.Document, version uint64) {
	key = NormalizeKey(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	prev = e.doc
	e.doc = doc
	e.version++
	return prev, e.version
}

// Remove drops an entry, reporting whether it existed.
func (c *Cache) Remove(key string) bool {
	key = NormalizeKey(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

func (c *Cache) Contains(key string) bool {
	key = NormalizeKey(key)
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Keys returns all normalized keys, sorted.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Update rewrites an entry under the write lock: fn receives the
// current document (nil when absent) and returns the one to store.
// Returning nil drops the entry. Reports the new version, 0 when
// dropped.
func (c *Cache) Update(key string, fn func(doc *ir.Document) *ir.Document) uint64 {
	key = NormalizeKey(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	var cur *ir.Document
	if ok {
		cur = e.doc
	}
	next := fn(cur)
	if next == nil {
		delete(c.entries, key)
		return 0
	}
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	e.doc = next
	e.version++
	return e.version
}

// Range calls fn for each entry under the read lock. fn must not call
// back into the cache.
func (c *Cache) Range(fn func(key string, doc *ir.Document, version uint64) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, e := range c.entries {
		if !fn(k, e.doc, e.version) {
			return
		}
	}
}
