package storage

import (
	"context"
	"errors"

	"github.com/buildlog/estimator/internal/core/domain"
)

var (
	// ErrProjectNotFound is returned when a project doesn't exist
	ErrProjectNotFound = errors.New("project not found")
)

// ProjectRepository handles project storage operations
type ProjectRepository interface {
	// List returns all projects, most recently updated first
	List(ctx context.Context) ([]*domain.Project, error)

	// Get retrieves a project by id
	Get(ctx context.Context, id string) (*domain.Project, error)

	// Create inserts a new project
	Create(ctx context.Context, p *domain.Project) error

	// Update saves changes to an existing project
	Update(ctx context.Context, p *domain.Project) error

	// Delete removes a project by id. It reports (false, nil) when no
	// row was affected: the application-level "not actually deleted"
	// outcome, as opposed to a transport or permission error.
	Delete(ctx context.Context, id string) (bool, error)
}
