package attribute

import (
	"fmt"
	"slices"
	"sort"

	"github.com/gophilo/gophilo/internal/contenttype"
	"github.com/gophilo/gophilo/internal/value"
)

// Changes holds staged attribute writes for one owner.
// It belongs to a single request and must not be shared.
type Changes struct {
	owner   contenttype.Object
	reg     *contenttype.Registry
	order   []string
	added   map[string]value.Value
	removed map[string]struct{}
}

// Stage returns an empty change set for owner.
func (s *Store) Stage(owner contenttype.Object) *Changes {
	return &Changes{
		owner:   owner,
		reg:     s.values.Registry(),
		added:   make(map[string]value.Value),
		removed: make(map[string]struct{}),
	}
}

// Owner returns the entity the changes apply to.
func (c *Changes) Owner() contenttype.Object {
	return c.owner
}

// Set classifies payload and stages it under key. Classification errors are
// returned here, not at commit. The last Set or Delete of a key wins.
func (c *Changes) Set(key string, payload any) error {
	if key == "" {
		return ErrKeyEmpty
	}

	v, err := value.Classify(c.reg, payload)
	if err != nil {
		return fmt.Errorf("attribute %q: %w", key, err)
	}

	c.put(key, v)

	return nil
}

// Delete stages the removal of key.
func (c *Changes) Delete(key string) {
	if _, ok := c.added[key]; ok {
		delete(c.added, key)
		c.order = slices.DeleteFunc(c.order, func(k string) bool { return k == key })
	}

	c.removed[key] = struct{}{}
}

func (c *Changes) put(key string, v value.Value) {
	if _, ok := c.added[key]; !ok {
		c.order = append(c.order, key)
	}

	c.added[key] = v
	delete(c.removed, key)
}

// Added returns the staged keys to write, in staging order.
func (c *Changes) Added() []string {
	return slices.Clone(c.order)
}

// Removed returns the staged keys to delete, sorted.
func (c *Changes) Removed() []string {
	out := make([]string, 0, len(c.removed))
	for k := range c.removed {
		out = append(out, k)
	}

	sort.Strings(out)

	return out
}

// Value returns the staged value of key.
func (c *Changes) Value(key string) (value.Value, bool) {
	v, ok := c.added[key]
	return v, ok
}

// Empty reports whether nothing is staged.
func (c *Changes) Empty() bool {
	return len(c.added) == 0 && len(c.removed) == 0
}

func (c *Changes) done(key string, op Op) {
	switch op {
	case OpSet:
		delete(c.added, key)
		c.order = slices.DeleteFunc(c.order, func(k string) bool { return k == key })
	case OpDelete:
		delete(c.removed, key)
	}
}
