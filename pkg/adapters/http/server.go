package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/dto"
	"github.com/aretw0/lattice/internal/presentation/graph"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/aretw0/lattice/pkg/reference"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Workspace is the part of lattice.Workspace the server needs.
type Workspace interface {
	Blueprint(id string) (*domain.Blueprint, error)
	BlueprintIDs() ([]string, error)
	ParseReference(s string) (reference.Info, error)
	Watch(ctx context.Context) (<-chan string, error)
}

var _ Workspace = (*lattice.Workspace)(nil)

// Server serves blueprint inspection and reference parsing over HTTP.
type Server struct {
	Workspace Workspace
	Logger    *slog.Logger
	Metrics   *observability.Metrics
	Gatherer  prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics instruments every route and serves g on /metrics.
func WithMetrics(m *observability.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Metrics = m
		s.Gatherer = g
	}
}

// ReferenceRequest is the body of POST /references/parse.
type ReferenceRequest struct {
	Reference string `json:"reference"`
}

// ReferenceResponse carries an encoded reference.
type ReferenceResponse struct {
	Reference string `json:"reference"`
}

// ErrorResponse is returned with every 4xx/5xx status.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// NewHandler creates a new HTTP handler for the workspace.
func NewHandler(ws Workspace, opts ...Option) http.Handler {
	s := &Server{Workspace: ws}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = slog.Default()
	}

	r := chi.NewRouter()
	route := func(method, pattern string, h http.HandlerFunc) {
		r.Method(method, pattern, s.Metrics.InstrumentHandler(pattern, h))
	}

	route(http.MethodGet, "/health", s.GetHealth)
	route(http.MethodGet, "/info", s.GetInfo)
	route(http.MethodGet, "/blueprints", s.ListBlueprints)
	route(http.MethodGet, "/blueprints/{id}", s.GetBlueprint)
	route(http.MethodGet, "/blueprints/{id}/graph", s.GetGraph)
	route(http.MethodPost, "/references/parse", s.ParseReference)
	route(http.MethodPost, "/references/encode", s.EncodeReference)
	r.Get("/events", s.SubscribeEvents)

	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "lattice-http",
		"version": strings.TrimSpace(lattice.Version),
	})
}

// ListBlueprints handles the GET /blueprints request.
func (s *Server) ListBlueprints(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Workspace.BlueprintIDs()
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err, "")
		s.Logger.Error("ListBlueprints failed", "err", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetBlueprint handles the GET /blueprints/{id} request.
func (s *Server) GetBlueprint(w http.ResponseWriter, r *http.Request) {
	bp, ok := s.blueprint(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, dto.FromBlueprint(bp))
}

// GetGraph handles the GET /blueprints/{id}/graph request.
// The optional "select" query parameter highlights comma-separated operators.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	bp, ok := s.blueprint(w, r)
	if !ok {
		return
	}

	var overlay *graph.Overlay
	if sel := r.URL.Query().Get("select"); sel != "" {
		overlay = &graph.Overlay{Selected: strings.Split(sel, ",")}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(bp, overlay))
}

// ParseReference handles the POST /references/parse request.
func (s *Server) ParseReference(w http.ResponseWriter, r *http.Request) {
	var body ReferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err), "")
		return
	}

	info, err := s.Workspace.ParseReference(body.Reference)
	if err != nil {
		var syntaxErr *reference.SyntaxError
		reason := ""
		if errors.As(err, &syntaxErr) {
			reason = syntaxErr.Reason
		}
		s.fail(w, http.StatusBadRequest, err, reason)
		s.Logger.Debug("ParseReference rejected", "reference", body.Reference, "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}

// EncodeReference handles the POST /references/encode request.
func (s *Server) EncodeReference(w http.ResponseWriter, r *http.Request) {
	var info reference.Info
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err), "")
		return
	}

	ref, err := reference.Encode(info)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err, "")
		return
	}
	s.writeJSON(w, http.StatusOK, ReferenceResponse{Reference: ref})
}

// SubscribeEvents handles the GET /events request (SSE).
// Each changed blueprint ID is sent as one data event.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	events, err := s.Workspace.Watch(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, lattice.ErrNotWatchable) {
			status = http.StatusNotImplemented
		}
		s.fail(w, status, err, "")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.Logger.Info("SSE: client subscribed")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE: client disconnected")
			return
		case id, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", id)
			flusher.Flush()
		}
	}
}

func (s *Server) blueprint(w http.ResponseWriter, r *http.Request) (*domain.Blueprint, bool) {
	id := chi.URLParam(r, "id")
	bp, err := s.Workspace.Blueprint(id)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, domain.ErrBlueprintNotFound) {
			status = http.StatusNotFound
		}
		s.fail(w, status, err, "")
		s.Logger.Warn("blueprint unavailable", "id", id, "err", err)
		return nil, false
	}
	return bp, true
}

func (s *Server) fail(w http.ResponseWriter, status int, err error, reason string) {
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Reason: reason})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}
