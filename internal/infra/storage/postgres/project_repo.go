package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/buildlog/estimator/internal/core/domain"
	"github.com/buildlog/estimator/internal/infra/storage"
)

// ProjectRepo implements storage.ProjectRepository using PostgreSQL.
type ProjectRepo struct {
	db *DB
}

// NewProjectRepo creates a new PostgreSQL project repository.
func NewProjectRepo(db *DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// List returns all projects, most recently updated first.
func (r *ProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	var projects []*domain.Project
	err := r.db.SelectContext(ctx, &projects, `
		SELECT id, name, client, status, contract_amount, cost_estimate,
		       start_date, end_date, created_at, updated_at
		FROM projects
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Get retrieves a project by id.
func (r *ProjectRepo) Get(ctx context.Context, id string) (*domain.Project, error) {
	var p domain.Project
	err := r.db.GetContext(ctx, &p, `
		SELECT id, name, client, status, contract_amount, cost_estimate,
		       start_date, end_date, created_at, updated_at
		FROM projects
		WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

// Create inserts a new project.
func (r *ProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, client, status, contract_amount,
		                      cost_estimate, start_date, end_date,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Name, p.Client, p.Status, p.ContractAmount,
		p.CostEstimate, p.StartDate, p.EndDate, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// Update saves changes to an existing project.
func (r *ProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	p.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		UPDATE projects
		SET name = $2, client = $3, status = $4, contract_amount = $5,
		    cost_estimate = $6, start_date = $7, end_date = $8,
		    updated_at = $9
		WHERE id = $1`,
		p.ID, p.Name, p.Client, p.Status, p.ContractAmount,
		p.CostEstimate, p.StartDate, p.EndDate, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrProjectNotFound
	}
	return nil
}

// Delete removes a project by id. (false, nil) means no row matched.
func (r *ProjectRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}
