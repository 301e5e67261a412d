// Package syncer holds the client-side synchronizers: components that own a
// local ordered cache and keep it consistent with backend state through
// explicit load/create/update/delete calls.
package syncer

// ChangeKind classifies a cache mutation.
type ChangeKind int

const (
	ChangeInsert ChangeKind = iota
	ChangeRemove
	ChangeReplace
	ChangeReset
)

// Change describes one cache mutation. Index is meaningful for insert,
// remove and replace; it is -1 for a reset.
type Change struct {
	Kind  ChangeKind
	Index int
}

// Cache is an ordered reactive container. Listeners fire synchronously on
// every mutation, on the goroutine performing it; the owning synchronizer
// routes all mutations through its dispatcher, so listeners see a single
// serialized stream of changes.
type Cache[T any] struct {
	items     []T
	listeners []func(Change)
}

func NewCache[T any]() *Cache[T] {
	return &Cache[T]{}
}

// Subscribe registers a listener for subsequent mutations.
func (c *Cache[T]) Subscribe(fn func(Change)) {
	c.listeners = append(c.listeners, fn)
}

func (c *Cache[T]) notify(ch Change) {
	for _, fn := range c.listeners {
		fn(ch)
	}
}

// Items returns a copy of the current contents.
func (c *Cache[T]) Items() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cache[T]) Len() int {
	return len(c.items)
}

func (c *Cache[T]) At(i int) T {
	return c.items[i]
}

// Insert places v at index i, shifting the tail.
func (c *Cache[T]) Insert(i int, v T) {
	c.items = append(c.items, v)
	copy(c.items[i+1:], c.items[i:])
	c.items[i] = v
	c.notify(Change{Kind: ChangeInsert, Index: i})
}

// Append adds v at the end.
func (c *Cache[T]) Append(v T) {
	c.items = append(c.items, v)
	c.notify(Change{Kind: ChangeInsert, Index: len(c.items) - 1})
}

// Replace swaps the element at index i.
func (c *Cache[T]) Replace(i int, v T) {
	c.items[i] = v
	c.notify(Change{Kind: ChangeReplace, Index: i})
}

// IndexFunc returns the index of the first element matching pred, or -1.
func (c *Cache[T]) IndexFunc(pred func(T) bool) int {
	for i, v := range c.items {
		if pred(v) {
			return i
		}
	}
	return -1
}

// RemoveFunc removes the first element matching pred. Returns false when
// nothing matched.
func (c *Cache[T]) RemoveFunc(pred func(T) bool) bool {
	i := c.IndexFunc(pred)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.notify(Change{Kind: ChangeRemove, Index: i})
	return true
}

// ReplaceAll swaps the whole contents in one reset.
func (c *Cache[T]) ReplaceAll(items []T) {
	c.items = make([]T, len(items))
	copy(c.items, items)
	c.notify(Change{Kind: ChangeReset, Index: -1})
}

// Clear empties the cache.
func (c *Cache[T]) Clear() {
	c.items = nil
	c.notify(Change{Kind: ChangeReset, Index: -1})
}
