package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ghostprep/ghostprep/internal/config"
	"github.com/ghostprep/ghostprep/internal/export"
	"github.com/ghostprep/ghostprep/internal/source"
)

// Server is the HTTP API over the section extractor and batch exporter.
type Server struct {
	router chi.Router
	runner *export.Runner
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(runner *export.Runner, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		runner: runner,
		log:    log,
		cfg:    cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(s.requireAPIKey)

		r.Get("/api/sections", s.handleListSections)
		r.Get("/api/sections/find", s.handleFindSection)
		r.Get("/api/sections/search", s.handleSearchSections)

		r.Post("/api/export", s.handleStartExport)
		r.Get("/api/export/{jobID}/status", s.handleExportStatus)
		r.Get("/api/stats/export", s.handleExportStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// loadDocument reads the master document fresh on every request; sections are
// always re-derived, never cached.
func (s *Server) loadDocument() (string, error) {
	return source.Read(s.cfg.SourcePath())
}
