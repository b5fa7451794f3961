package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"github.com/buildlog/estimator/internal/api"
	"github.com/buildlog/estimator/internal/core/config"
	"github.com/buildlog/estimator/internal/core/domain"
	"github.com/buildlog/estimator/internal/deletion"
	"github.com/buildlog/estimator/internal/diag"
	"github.com/buildlog/estimator/internal/infra/storage"
	"github.com/buildlog/estimator/internal/infra/storage/memory"
	"github.com/buildlog/estimator/internal/infra/storage/postgres"
	"github.com/buildlog/estimator/internal/metrics"

	redisclient "github.com/buildlog/estimator/internal/infra/redis"
)

// Service is the main application struct wiring storage, the project
// cache, the delete orchestrator, and the HTTP server together.
type Service struct {
	cfg       *config.AppConfig
	repo      storage.ProjectRepository
	db        *postgres.DB
	trash     *redisclient.Client
	cache     *ProjectCache
	orch      *deletion.Orchestrator[*domain.Project]
	perf      *diag.PerformanceMonitor
	leaks     *diag.LeakDetector
	listeners *diag.ListenerRegistry
	server    *api.Server
	log       *slog.Logger
}

// NewService creates a Service with all dependencies initialized.
func NewService(cfg *config.AppConfig) (*Service, error) {
	log := slog.Default()

	s := &Service{
		cfg:       cfg,
		cache:     NewProjectCache(),
		perf:      diag.NewPerformanceMonitor(log),
		leaks:     diag.NewLeakDetector(log),
		listeners: diag.NewListenerRegistry(),
		log:       log,
	}

	// 1. Storage
	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}
		s.db = db
		s.repo = postgres.NewProjectRepo(db)
		slog.Info("Using PostgreSQL storage")
	} else {
		s.repo = memory.NewProjectRepo()
		slog.Info("Using Memory storage")
	}

	// 2. Trash bin (optional)
	if cfg.Redis.URL != "" {
		trash, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		s.trash = trash
		slog.Info("Trash bin enabled", "ttl", cfg.Delete.TrashTTL.Std())
	}

	// 3. Delete orchestrator
	delCfg := deletion.Config{
		OptimisticUpdates: cfg.Delete.OptimisticEnabled(),
		Retries:           cfg.Delete.RetriesEnabled(),
		Retry: deletion.RetryConfig{
			MaxRetries: cfg.Delete.MaxRetries,
			BaseDelay:  cfg.Delete.BaseDelay.Std(),
			MaxDelay:   cfg.Delete.MaxDelay.Std(),
		},
	}
	s.orch = deletion.NewOrchestrator[*domain.Project](
		delCfg,
		func(ctx context.Context, id string) (bool, error) {
			return s.repo.Delete(ctx, id)
		},
		s.perf,
		s.leaks,
	)
	s.orch.OnSuccess(s.onDeleteConfirmed)
	s.orch.OnError(func(id string, err error, g deletion.Guidance) {
		s.log.Warn("delete failed",
			"project_id", id,
			"error", err,
			"severity", g.Severity,
			"action", g.Action,
		)
	})

	// 4. HTTP server
	s.server = api.NewServer(s, cfg.Server.Port)

	return s, nil
}

// Start loads the project cache and starts background work and the
// HTTP server.
func (s *Service) Start(ctx context.Context) error {
	if err := s.RefreshProjects(ctx); err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}

	if interval := s.cfg.Delete.LeakCheckInterval.Std(); interval > 0 {
		s.leaks.StartLeakDetection(interval)
		s.listeners.Register("leak-detection", s.leaks.StopLeakDetection)
	}

	if s.db != nil {
		s.db.StartMetricsCollector(ctx)
	}

	go func() {
		if err := s.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server failed", "error", err)
		}
	}()
	s.log.Info("API server listening", "port", s.cfg.Server.Port)

	return nil
}

// Stop shuts down the HTTP server and releases resources. Pending
// optimistic deletes are abandoned, not rolled back.
func (s *Service) Stop(ctx context.Context) error {
	var errs []error

	if err := s.server.Stop(ctx); err != nil {
		errs = append(errs, err)
	}

	s.listeners.Close()
	s.orch.Close()

	if s.trash != nil {
		if err := s.trash.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// APIHandler exposes the HTTP route table, mainly for tests.
func (s *Service) APIHandler() http.Handler {
	return s.server.Handler()
}

// RefreshProjects reloads the cache from storage.
func (s *Service) RefreshProjects(ctx context.Context) error {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	s.cache.Replace(projects)
	s.log.Info("Loaded projects into cache", "count", len(projects))
	return nil
}

// Projects returns the cached project list.
func (s *Service) Projects() []*domain.Project {
	return s.cache.Snapshot()
}

// GetProject retrieves a project, preferring the cache.
func (s *Service) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	if p, ok := s.cache.Get(id); ok {
		return p, nil
	}
	return s.repo.Get(ctx, id)
}

// CreateProject stores a new project and adds it to the cache.
func (s *Service) CreateProject(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = domain.StatusEstimating
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}

	s.cache.Apply(func(items []*domain.Project) []*domain.Project {
		return append([]*domain.Project{p}, items...)
	})
	return nil
}

// UpdateProject saves changes and refreshes the cached row.
func (s *Service) UpdateProject(ctx context.Context, p *domain.Project) error {
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}

	s.cache.Apply(func(items []*domain.Project) []*domain.Project {
		for i, item := range items {
			if item.ID == p.ID {
				items[i] = p
			}
		}
		return items
	})
	return nil
}

// DeleteProject runs the enhanced delete path: optimistic cache
// removal, retried backend delete, rollback on terminal failure.
func (s *Service) DeleteProject(ctx context.Context, id string) bool {
	snapshot, _ := s.cache.Get(id)
	return s.orch.ExecuteDelete(ctx, id, snapshot, s.cache.Apply)
}

// onDeleteConfirmed runs after the backend confirms a delete.
func (s *Service) onDeleteConfirmed(id string, snapshot *domain.Project) {
	s.log.Info("project deleted", "project_id", id)

	if s.trash == nil || snapshot == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.trash.StoreTombstone(ctx, snapshot, s.cfg.Delete.TrashTTL.Std()); err != nil {
		s.log.Warn("failed to store trash tombstone", "project_id", id, "error", err)
	}
}

// RestoreProject pulls a project back out of the trash bin.
func (s *Service) RestoreProject(ctx context.Context, id string) (*domain.Project, error) {
	if s.trash == nil {
		return nil, storage.ErrProjectNotFound
	}

	t, err := s.trash.GetTombstone(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, storage.ErrProjectNotFound
	}

	p := t.Project
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, fmt.Errorf("failed to restore project: %w", err)
	}
	if err := s.trash.RemoveTombstone(ctx, id); err != nil {
		s.log.Warn("failed to remove tombstone after restore", "project_id", id, "error", err)
	}

	s.cache.Apply(func(items []*domain.Project) []*domain.Project {
		return append([]*domain.Project{&p}, items...)
	})
	metrics.TrashRestores.Inc()
	s.log.Info("project restored from trash", "project_id", id)
	return &p, nil
}

// IsDeleting reports whether a delete for id is in flight.
func (s *Service) IsDeleting(id string) bool {
	return s.orch.IsDeleting(id)
}

// DeleteError returns stored guidance for id's last failed delete.
func (s *Service) DeleteError(id string) (deletion.Guidance, bool) {
	return s.orch.Error(id)
}

// DeleteStats returns delete statistics.
func (s *Service) DeleteStats() deletion.Stats {
	return s.orch.Stats()
}

// ResetDeleteStats zeroes delete statistics.
func (s *Service) ResetDeleteStats() {
	s.orch.ResetStats()
}

// Health reports backend health.
func (s *Service) Health(ctx context.Context) error {
	if s.db != nil {
		return s.db.Health(ctx)
	}
	return nil
}
