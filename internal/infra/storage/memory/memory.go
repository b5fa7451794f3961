package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/buildlog/estimator/internal/core/domain"
	"github.com/buildlog/estimator/internal/infra/storage"
)

// ProjectRepo is an in-memory storage.ProjectRepository used for
// development and tests.
type ProjectRepo struct {
	mu       sync.RWMutex
	projects map[string]*domain.Project
}

// NewProjectRepo creates an empty in-memory repository.
func NewProjectRepo() *ProjectRepo {
	return &ProjectRepo{
		projects: make(map[string]*domain.Project),
	}
}

// List returns all projects, most recently updated first.
func (r *ProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Project, 0, len(r.projects))
	for _, p := range r.projects {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Get retrieves a project by id.
func (r *ProjectRepo) Get(ctx context.Context, id string) (*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, storage.ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

// Create inserts a new project.
func (r *ProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

// Update saves changes to an existing project.
func (r *ProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[p.ID]; !ok {
		return storage.ErrProjectNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

// Delete removes a project by id. (false, nil) means nothing matched.
func (r *ProjectRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[id]; !ok {
		return false, nil
	}
	delete(r.projects, id)
	return true, nil
}
