// Package api serves stored sweep results over HTTP. The surface is
// read-only: sweeps are produced by the pipeline binary, never through this
// server.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"qbench/domain/bench"
	"qbench/domain/core"
	"qbench/internal"
	"qbench/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes the results API
type Server struct {
	router *chi.Mux
	repo   ports.ResultRepository
	logger *internal.Logger
}

// NewServer creates the results API server
func NewServer(repo ports.ResultRepository, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router: chi.NewRouter(),
		repo:   repo,
		logger: logger.WithPrefix("api"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/families", s.handleListFamilies)
	s.router.Get("/api/families/{family}/runs", s.handleListFamilyRuns)
	s.router.Get("/api/sweeps", s.handleListSweeps)
	s.router.Get("/api/sweeps/{id}", s.handleGetSweep)
	s.router.Get("/api/runs/{id}", s.handleGetRun)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListFamilies(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, bench.Families())
}

func (s *Server) handleListFamilyRuns(w http.ResponseWriter, r *http.Request) {
	family := core.BenchmarkKey(chi.URLParam(r, "family"))
	limit, offset := pagination(r)
	records, err := s.repo.ListRecordsByFamily(r.Context(), family, limit, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleListSweeps(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	sweeps, err := s.repo.ListSweeps(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sweeps)
}

func (s *Server) handleGetSweep(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseSweepID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sweep, err := s.repo.GetSweep(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sweep)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	record, err := s.repo.GetRecord(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, record)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, core.ErrNotFound) {
		status = http.StatusNotFound
	} else {
		s.logger.Error("request failed: %v", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response: %v", err)
	}
}

func pagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
