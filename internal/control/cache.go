package control

import (
	"sync"

	"github.com/buildlog/estimator/internal/core/domain"
	"github.com/buildlog/estimator/internal/metrics"
)

// ProjectCache is the server-side stand-in for the caller-held display
// state: the collection the delete subsystem mutates optimistically.
type ProjectCache struct {
	mu    sync.RWMutex
	items []*domain.Project
}

// NewProjectCache creates an empty cache.
func NewProjectCache() *ProjectCache {
	return &ProjectCache{}
}

// Replace swaps in a freshly loaded project list.
func (c *ProjectCache) Replace(items []*domain.Project) {
	c.mu.Lock()
	c.items = items
	metrics.ProjectsCached.Set(float64(len(c.items)))
	c.mu.Unlock()
}

// Apply runs a collection transform against the cached list. This is
// the update callback handed to the delete orchestrator.
func (c *ProjectCache) Apply(transform func([]*domain.Project) []*domain.Project) {
	c.mu.Lock()
	c.items = transform(c.items)
	metrics.ProjectsCached.Set(float64(len(c.items)))
	c.mu.Unlock()
}

// Snapshot returns a copy of the cached list.
func (c *ProjectCache) Snapshot() []*domain.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*domain.Project, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the cached project with the given id.
func (c *ProjectCache) Get(id string) (*domain.Project, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.items {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Len returns the number of cached projects.
func (c *ProjectCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
