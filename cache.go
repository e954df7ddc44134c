package mutagraph

import (
	"sync"

	"github.com/aretw0/mutagraph/pkg/ports"
)

// Cache holds the most recently generated graph and its trace.
// It is owned by whoever drives generation, typically a test, and can be
// shared between a Generator and a report.Hook.
type Cache struct {
	mu   sync.RWMutex
	last *Result
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Last returns the last generated graph, or nil when nothing was generated yet.
func (c *Cache) Last() ports.Graph {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return nil
	}
	return c.last.Graph
}

// LastResult returns the last published result, or nil.
func (c *Cache) LastResult() *Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// LastTrace returns the trace of the last generated graph, or an empty string.
func (c *Cache) LastTrace() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return ""
	}
	return c.last.Trace
}

// Swap publishes r and returns the result it replaced.
func (c *Cache) Swap(r *Result) *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.last
	c.last = r
	return prev
}
