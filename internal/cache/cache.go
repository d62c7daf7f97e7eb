// Package cache holds the client-side todo collection and the optimistic
// mutation protocol that keeps it in step with the remote service.
//
// A mutation runs in three phases. Begin applies a speculative change to the
// [Cache] synchronously and captures the whole collection as it was just
// before. Commit reconciles with the server once the remote call succeeds.
// Abort restores the captured collection when the remote call fails.
//
// The [Controller] drives those phases against a [service.Service]:
//
//	ctrl := cache.NewController(cache.New(), svc)
//	if err := ctrl.Refresh(ctx); err != nil {
//		return err
//	}
//	op, ok := ctrl.BeginAdd("buy milk") // visible in ctrl.Cache().Snapshot() now
//	if ok {
//		res := op.Settle(ctx) // committed or rolled back
//	}
package cache

import (
	"sync"

	"todoctl/internal/service"
)

// Cache is an ordered collection of todos keyed by ID.
// It is safe for concurrent use.
type Cache struct {
	mu     sync.RWMutex
	items  []service.Todo
	loaded bool

	// epoch advances on every begin phase. A list result fetched under an
	// older epoch no longer describes what the user has asked for.
	epoch uint64
}

// New returns an empty, not yet loaded cache.
func New() *Cache {
	return &Cache{}
}

// Snapshot returns a copy of the cached todos in display order.
func (c *Cache) Snapshot() []service.Todo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.items)
}

// Len returns the number of cached todos.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Loaded reports whether the cache has been populated from the service.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Get returns the cached todo with the given ID.
func (c *Cache) Get(id string) (service.Todo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := indexOf(c.items, id)
	if i < 0 {
		return service.Todo{}, false
	}
	return c.items[i], true
}

// Epoch returns the current mutation epoch.
func (c *Cache) Epoch() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch
}

// replaceAt replaces the collection only if no begin phase ran since epoch.
func (c *Cache) replaceAt(epoch uint64, todos []service.Todo) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return false
	}
	c.items = clone(todos)
	c.loaded = true
	return true
}

// begin applies fn as a speculative change and returns the collection as it
// was immediately before.
func (c *Cache) begin(fn func(items []service.Todo) []service.Todo) []service.Todo {
	c.mu.Lock()
	defer c.mu.Unlock()
	before := clone(c.items)
	c.items = fn(clone(c.items))
	c.epoch++
	return before
}

// reconcile applies fn without advancing the epoch.
func (c *Cache) reconcile(fn func(items []service.Todo) []service.Todo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = fn(clone(c.items))
}

// restore puts back a snapshot captured by begin.
func (c *Cache) restore(snapshot []service.Todo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = clone(snapshot)
}

func indexOf(items []service.Todo, id string) int {
	for i, t := range items {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func clone(items []service.Todo) []service.Todo {
	out := make([]service.Todo, len(items))
	copy(out, items)
	return out
}
