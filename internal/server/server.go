// Package server provides the HTTP API for rawi.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/rawi/internal/analysis"
	"github.com/hyperjump/rawi/internal/bulk"
	"github.com/hyperjump/rawi/internal/config"
	"github.com/hyperjump/rawi/internal/directory"
	"github.com/hyperjump/rawi/internal/similarity"
	"github.com/hyperjump/rawi/internal/storage"
	"go.uber.org/zap"
)

// Server is the HTTP server for the rawi API.
type Server struct {
	analyzer  *analysis.Engine
	sim       *similarity.Engine
	jobs      *bulk.Orchestrator
	directory *directory.Directory
	storage   storage.Storage
	config    *config.ServerConfig
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	analyzer *analysis.Engine,
	sim *similarity.Engine,
	jobs *bulk.Orchestrator,
	dir *directory.Directory,
	storage storage.Storage,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		analyzer:  analyzer,
		sim:       sim,
		jobs:      jobs,
		directory: dir,
		storage:   storage,
		config:    cfg,
		logger:    logger,
	}
}

// Router builds the API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/analyze", s.handleAnalyze)
	r.Post("/api/v1/similar", s.handleSimilar)
	r.Post("/api/v1/bulk", s.handleBulkSubmit)
	r.Get("/api/v1/bulk/{jobID}", s.handleBulkProgress)
	r.Get("/api/v1/narrators", s.handleNarrators)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
