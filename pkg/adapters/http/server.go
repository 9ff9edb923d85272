package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/patrol"
	"github.com/aretw0/patrol/pkg/domain"
	"github.com/aretw0/patrol/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxGridBytes caps request bodies; the largest practical grids are a few hundred KB.
const maxGridBytes = 4 << 20

// Analyzer is the persistence-aware side of the API, implemented by session.Manager.
type Analyzer interface {
	Analyze(ctx context.Context, input []byte) (*domain.Report, bool, error)
	Load(ctx context.Context, id string) (*domain.Report, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
}

// Server serves the patrol HTTP API.
type Server struct {
	Engine   ports.Simulator
	Analyzer Analyzer
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics exposes the gatherer's collectors on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// GridRequest is the JSON form of a grid submission. Plain-text bodies are accepted too.
type GridRequest struct {
	Grid string `json:"grid"`
}

// TraceResponse is the body returned by POST /trace.
type TraceResponse struct {
	Outcome domain.Outcome    `json:"outcome"`
	Visited int               `json:"visited"`
	Steps   int               `json:"steps"`
	Turns   int               `json:"turns"`
	Final   domain.Agent      `json:"final"`
	Path    []domain.Position `json:"path"`
}

// AnalyzeResponse is the body returned by POST /analyze.
type AnalyzeResponse struct {
	Cached bool           `json:"cached"`
	Report *domain.Report `json:"report"`
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.Simulator, analyzer Analyzer, opts ...Option) http.Handler {
	s := &Server{
		Engine:   engine,
		Analyzer: analyzer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.GetHealth)
	r.Get("/version", s.GetInfo)
	r.Post("/trace", s.Trace)
	r.Post("/search", s.Search)
	if s.Analyzer != nil {
		r.Post("/analyze", s.Analyze)
		r.Get("/reports", s.ListReports)
		r.Get("/reports/{id}", s.GetReport)
		r.Delete("/reports/{id}", s.DeleteReport)
	}
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Trace handles the POST /trace request.
func (s *Server) Trace(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.scenario(w, r)
	if !ok {
		return
	}
	tr, err := s.Engine.Trace(r.Context(), sc)
	if err != nil {
		s.fail(w, "Trace", err)
		return
	}
	s.respond(w, TraceResponse{
		Outcome: tr.Outcome,
		Visited: tr.VisitedCount(),
		Steps:   tr.Steps,
		Turns:   tr.Turns,
		Final:   tr.Final,
		Path:    tr.Path,
	})
}

// Search handles the POST /search request.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.scenario(w, r)
	if !ok {
		return
	}
	res, err := s.Engine.Search(r.Context(), sc)
	if err != nil {
		s.fail(w, "Search", err)
		return
	}
	s.respond(w, res)
}

// Analyze handles the POST /analyze request.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	data, err := readGrid(w, r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Analyze: Invalid request body", "error", err)
		return
	}
	report, cached, err := s.Analyzer.Analyze(r.Context(), data)
	if err != nil {
		s.fail(w, "Analyze", err)
		return
	}
	s.respond(w, AnalyzeResponse{Cached: cached, Report: report})
}

// ListReports handles GET /reports.
func (s *Server) ListReports(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Analyzer.List(r.Context())
	if err != nil {
		s.fail(w, "ListReports", err)
		return
	}
	s.respond(w, map[string][]string{"reports": ids})
}

// GetReport handles GET /reports/{id}.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.Analyzer.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetReport", err)
		return
	}
	s.respond(w, report)
}

// DeleteReport handles DELETE /reports/{id}.
func (s *Server) DeleteReport(w http.ResponseWriter, r *http.Request) {
	if err := s.Analyzer.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "DeleteReport", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, map[string]string{"status": "ok"})
}

// GetInfo handles GET /version.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.respond(w, map[string]string{"version": strings.TrimSpace(patrol.Version)})
}

func (s *Server) scenario(w http.ResponseWriter, r *http.Request) (*domain.Scenario, bool) {
	data, err := readGrid(w, r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		return nil, false
	}
	sc, err := s.Engine.Parse(data)
	if err != nil {
		s.fail(w, "Parse", err)
		return nil, false
	}
	return sc, true
}

// readGrid accepts either {"grid": "..."} or the raw grid text as the body.
func readGrid(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxGridBytes))
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return data, nil
	}
	var body GridRequest
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	return []byte(body.Grid), nil
}

// fail maps domain errors onto status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrMalformedInput),
		errors.Is(err, domain.ErrInvalidGrid),
		errors.Is(err, domain.ErrInvalidAgent):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrReportNotFound):
		status = http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Warn(op+" rejected", "status", status, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": fmt.Sprint(err)})
}

func (s *Server) respond(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
