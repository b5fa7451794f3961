package control

import (
	"testing"

	"github.com/buildlog/estimator/internal/core/domain"
)

func TestProjectCacheApply(t *testing.T) {
	c := NewProjectCache()
	c.Replace([]*domain.Project{
		{ID: "p1", Name: "Roof Repair"},
		{ID: "p2", Name: "Driveway"},
	})

	c.Apply(func(items []*domain.Project) []*domain.Project {
		out := items[:0:0]
		for _, p := range items {
			if p.ID != "p1" {
				out = append(out, p)
			}
		}
		return out
	})

	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	if _, ok := c.Get("p1"); ok {
		t.Error("p1 should be gone")
	}
	if _, ok := c.Get("p2"); !ok {
		t.Error("p2 should remain")
	}
}

func TestProjectCacheSnapshotIsCopy(t *testing.T) {
	c := NewProjectCache()
	c.Replace([]*domain.Project{{ID: "p1"}})

	snap := c.Snapshot()
	snap[0] = nil

	if _, ok := c.Get("p1"); !ok {
		t.Error("mutating a snapshot must not affect the cache")
	}
}
