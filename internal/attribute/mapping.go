package attribute

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gophilo/gophilo/internal/contenttype"
)

// View is the lazy mapping over one entity's own attributes.
// Every call runs a query; nothing is cached.
type View struct {
	store *Store
	owner contenttype.Object
}

// Get performs a point lookup of key.
func (v *View) Get(key string) (any, error) {
	return v.store.Get(v.owner, key)
}

// Keys runs one distinct-key query.
func (v *View) Keys() ([]string, error) {
	return v.store.Keys(v.owner)
}

// Owner returns the entity the view reads from.
func (v *View) Owner() contenttype.Object {
	return v.owner
}

// Chain tries its mappings in order. It is read-only.
type Chain struct {
	mappings []Mapping
}

// NewChain returns a chain over mappings, highest precedence first.
func NewChain(mappings ...Mapping) *Chain {
	return &Chain{mappings: mappings}
}

// Get returns the payload from the first mapping holding key.
func (c *Chain) Get(key string) (any, error) {
	for _, m := range c.mappings {
		v, err := m.Get(key)
		if errors.Is(err, ErrKeyNotFound) {
			continue
		}

		return v, err
	}

	return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
}

// Keys returns the sorted union of all keys.
func (c *Chain) Keys() ([]string, error) {
	seen := make(map[string]struct{})

	for _, m := range c.mappings {
		keys, err := m.Keys()
		if err != nil {
			return nil, err
		}

		for _, k := range keys {
			seen[k] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}

	sort.Strings(out)

	return out, nil
}

// Len returns the number of chained mappings.
func (c *Chain) Len() int {
	return len(c.mappings)
}
