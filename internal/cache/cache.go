// Package cache tracks which documents have already been notified.
//
// The set only ever grows: the core never removes an entry, and an id
// present in the set is never notified again.
package cache

import "time"

// Cache is the in-memory set of notified ids, kept in insertion order.
type Cache struct {
	order []string
	index map[string]struct{}

	// UpdatedAt records when the set last changed (bookkeeping only).
	UpdatedAt time.Time
	// RunID is the id of the run that last persisted the set.
	RunID string
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{index: make(map[string]struct{})}
}

// Contains reports whether id has already been notified.
func (c *Cache) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Record marks id as notified. Recording an already-present id is a
// no-op, so insertion order stays duplicate-free.
func (c *Cache) Record(id string) {
	if _, ok := c.index[id]; ok {
		return
	}
	c.index[id] = struct{}{}
	c.order = append(c.order, id)
}

// IDs returns the notified ids in insertion order.
func (c *Cache) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of notified ids.
func (c *Cache) Len() int {
	return len(c.order)
}
