package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanonone/propgraph/pkg/engine"
	"github.com/sanonone/propgraph/pkg/recommend"
)

// Options configures the HTTP interface.
type Options struct {
	Addr         string
	AuthToken    string // empty disables authentication
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Metrics      bool // expose /metrics
	Rules        recommend.Rules
}

// Server holds the HTTP interface and the underlying graph Engine.
type Server struct {
	Engine *engine.Engine

	httpServer *http.Server
	authToken  string
	rules      recommend.Rules
}

// NewServer builds the router around an existing Engine.
func NewServer(eng *engine.Engine, opts Options) *Server {
	s := &Server{
		Engine:    eng,
		authToken: opts.AuthToken,
		rules:     opts.Rules,
	}

	r := chi.NewRouter()

	// Recovery must be outer-most to catch everything.
	r.Use(s.RecoveryMiddleware)
	r.Use(s.LoggingMiddleware)

	r.Get("/healthz", s.handleHealthz)
	if opts.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/stats", s.handleStats)

		r.Get("/nodes", s.handleFindNodes)
		r.Post("/nodes", s.handleAddNode)
		r.Get("/nodes/{name}", s.handleGetNode)
		r.Patch("/nodes/{name}", s.handleUpdateNode)
		r.Get("/nodes/{name}/adjacent", s.handleAdjacent)
		r.Get("/nodes/{name}/recommendations", s.handleRecommendations)

		r.Get("/relationships", s.handleGetRelationship)
		r.Post("/relationships", s.handleAddRelationship)
		r.Patch("/relationships", s.handleUpdateRelationship)
		r.Post("/subgraph", s.handleSubgraph)
		r.Get("/edges", s.handleEdges)

		r.Get("/export/table", s.handleExportTable)
		r.Get("/export/dot", s.handleExportDOT)
	})

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      r,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	slog.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server startup failed: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server. It does not touch the Engine.
func (s *Server) Shutdown() {
	slog.Info("Starting graceful shutdown of HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}
}
