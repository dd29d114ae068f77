package templating

import "sync"

// cache keeps one compiled value per template name and version.
// A nil cache never hits.
type cache[V any] struct {
	mu      sync.Mutex
	entries map[string]cacheEntry[V]
}

type cacheEntry[V any] struct {
	version string
	value   V
}

func newCache[V any](enabled bool) *cache[V] {
	if !enabled {
		return nil
	}

	return &cache[V]{entries: make(map[string]cacheEntry[V])}
}

func (c *cache[V]) get(name, version string) (V, bool) {
	var zero V

	if c == nil {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[name]
	if !ok || e.version != version {
		return zero, false
	}

	return e.value, true
}

func (c *cache[V]) put(name, version string, v V) {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.entries[name] = cacheEntry[V]{version: version, value: v}
	c.mu.Unlock()
}
