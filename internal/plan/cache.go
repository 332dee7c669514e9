package plan

import (
	"sync"

	"automapper/internal/rules"
)

// Cache memoizes built routines per type pair. It is unbounded: the set of
// type pairs is limited by the program's own type vocabulary. Routines are
// never mutated in place, only dropped and lazily rebuilt, so readers either
// see a complete routine or none.
type Cache struct {
	mu       sync.RWMutex
	routines map[rules.Pair]*Routine
}

// NewCache creates an empty routine cache.
func NewCache() *Cache {
	return &Cache{routines: make(map[rules.Pair]*Routine)}
}

// GetOrBuild returns the cached routine for the pair, building and storing
// it with build on a miss. Building happens under the write lock so a
// routine is never observed against a partially applied rule set.
func (c *Cache) GetOrBuild(p rules.Pair, build func() *Routine) *Routine {
	c.mu.RLock()
	rt, ok := c.routines[p]
	c.mu.RUnlock()

	if ok {
		return rt
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if rt, ok := c.routines[p]; ok {
		return rt
	}

	rt = build()
	c.routines[p] = rt

	return rt
}

// Invalidate drops the cached routine for the pair, if any.
func (c *Cache) Invalidate(p rules.Pair) {
	c.mu.Lock()
	delete(c.routines, p)
	c.mu.Unlock()
}

// Reset drops every cached routine.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.routines = make(map[rules.Pair]*Routine)
	c.mu.Unlock()
}

// Len reports the number of cached routines.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.routines)
}
