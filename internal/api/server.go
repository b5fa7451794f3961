package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/buildlog/estimator/internal/core/domain"
	"github.com/buildlog/estimator/internal/deletion"
	"github.com/buildlog/estimator/internal/infra/storage"
)

// ProjectService is what the HTTP layer needs from the application.
type ProjectService interface {
	Projects() []*domain.Project
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	CreateProject(ctx context.Context, p *domain.Project) error
	UpdateProject(ctx context.Context, p *domain.Project) error
	DeleteProject(ctx context.Context, id string) bool
	RestoreProject(ctx context.Context, id string) (*domain.Project, error)
	IsDeleting(id string) bool
	DeleteError(id string) (deletion.Guidance, bool)
	DeleteStats() deletion.Stats
	ResetDeleteStats()
	Health(ctx context.Context) error
}

// Server provides the HTTP surface: project CRUD, delete statistics,
// health, and prometheus metrics.
type Server struct {
	svc    ProjectService
	server *http.Server
}

// NewServer creates a new API server.
func NewServer(svc ProjectService, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		svc: svc,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("GET /projects", s.handleList)
	mux.HandleFunc("POST /projects", s.handleCreate)
	mux.HandleFunc("GET /projects/{id}", s.handleGet)
	mux.HandleFunc("PUT /projects/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /projects/{id}", s.handleDelete)
	mux.HandleFunc("POST /projects/{id}/restore", s.handleRestore)
	mux.HandleFunc("GET /deletes/stats", s.handleStats)
	mux.HandleFunc("POST /deletes/stats/reset", s.handleStatsReset)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// projectView adds the derived financial metrics to the stored fields.
type projectView struct {
	*domain.Project
	GrossProfit   float64 `json:"gross_profit"`
	MarginPercent float64 `json:"margin_percent"`
}

func viewOf(p *domain.Project) projectView {
	return projectView{
		Project:       p,
		GrossProfit:   p.GrossProfit(),
		MarginPercent: p.MarginPercent(),
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	projects := s.svc.Projects()
	views := make([]projectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, viewOf(p))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.GetProject(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrProjectNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, viewOf(p))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var p domain.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid project payload")
		return
	}
	if p.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := s.svc.CreateProject(r.Context(), &p); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(&p))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var p domain.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid project payload")
		return
	}
	p.ID = r.PathValue("id")

	err := s.svc.UpdateProject(r.Context(), &p)
	if errors.Is(err, storage.ErrProjectNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, viewOf(&p))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if s.svc.IsDeleting(id) {
		writeError(w, http.StatusConflict, "delete already in progress")
		return
	}

	if s.svc.DeleteProject(r.Context(), id) {
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
		return
	}

	status := http.StatusBadGateway
	resp := map[string]any{"deleted": false}
	if g, ok := s.svc.DeleteError(id); ok {
		resp["guidance"] = g
		switch g.Action {
		case deletion.ActionReauth:
			status = http.StatusForbidden
		case deletion.ActionRefresh:
			status = http.StatusConflict
		}
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.RestoreProject(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrProjectNotFound) {
		writeError(w, http.StatusNotFound, "project not in trash")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, viewOf(p))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.DeleteStats())
}

func (s *Server) handleStatsReset(w http.ResponseWriter, r *http.Request) {
	s.svc.ResetDeleteStats()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Health(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
