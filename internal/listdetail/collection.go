// Package listdetail holds the state shared by list-detail screens: an
// ordered collection, a selection that discards stale responses, and a
// per-session registry of screen state.
package listdetail

// Collection is an ordered list of items keyed by K. It is not safe for
// concurrent use; screens guard it with their own lock.
type Collection[K comparable, T any] struct {
	key   func(T) K
	items []T
}

func NewCollection[K comparable, T any](key func(T) K) *Collection[K, T] {
	return &Collection[K, T]{key: key}
}

func (c *Collection[K, T]) Replace(items []T) {
	c.items = append([]T(nil), items...)
}

// Upsert replaces the item with the same key in place, or appends it.
// It reports whether an existing item was replaced.
func (c *Collection[K, T]) Upsert(item T) bool {
	k := c.key(item)
	for i := range c.items {
		if c.key(c.items[i]) == k {
			c.items[i] = item
			return true
		}
	}
	c.items = append(c.items, item)
	return false
}

func (c *Collection[K, T]) Remove(k K) bool {
	for i := range c.items {
		if c.key(c.items[i]) == k {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Collection[K, T]) Get(k K) (T, bool) {
	for _, it := range c.items {
		if c.key(it) == k {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Items returns a copy of the items in order.
func (c *Collection[K, T]) Items() []T {
	return append([]T(nil), c.items...)
}

func (c *Collection[K, T]) Len() int {
	return len(c.items)
}
