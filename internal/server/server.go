// Package server exposes resolution and search over HTTP: a health
// endpoint, the search API, the CMS revalidation webhook, and a
// reindex trigger. Draft content is never served here; preview
// resolution stays a CLI and library concern.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/nafsi-health/contentcore/internal/content"
	"github.com/nafsi-health/contentcore/internal/resolver"
	"github.com/nafsi-health/contentcore/internal/search"
)

// Config holds the HTTP server settings.
type Config struct {
	Host             string
	Port             int
	Version          string
	RevalidateSecret string
	ArtifactPath     string
}

// Server is the HTTP surface over the resolver and search engine. The
// engine is an atomic snapshot: reindexing builds a fresh one and
// swaps it in whole, so queries never see a partial index.
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	cfg        Config

	resolver *resolver.Resolver
	builder  *search.Builder
	engine   atomic.Pointer[search.Engine]
	logger   *slog.Logger
}

// New creates a server. initial may be nil when no index has been
// built yet; searches then answer from an empty snapshot.
func New(cfg Config, res *resolver.Resolver, builder *search.Builder, initial *search.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		router:   http.NewServeMux(),
		cfg:      cfg,
		resolver: res,
		builder:  builder,
		logger:   logger.With("component", "server"),
	}
	if initial == nil {
		initial = search.NewEngine(nil)
	}
	s.engine.Store(initial)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /healthz", s.handleHealthz)
	s.router.HandleFunc("GET /search", s.handleSearch)
	s.router.HandleFunc("GET /content/{type}/{slug}", s.handleContent)

	// Webhook surface, guarded by the shared secret.
	s.router.HandleFunc("POST /invalidate", s.requireSecret(s.handleInvalidate))
	s.router.HandleFunc("POST /reindex", s.requireSecret(s.handleReindex))
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Reindex rebuilds the search index, swaps the engine snapshot, and
// persists the artifact when a path is configured.
func (s *Server) Reindex(ctx context.Context) (int, error) {
	entries, err := s.builder.Build(ctx)
	if err != nil {
		return 0, err
	}
	s.engine.Store(search.NewEngine(entries))

	if s.cfg.ArtifactPath != "" {
		if err := search.WriteArtifact(s.cfg.ArtifactPath, entries); err != nil {
			return len(entries), err
		}
	}
	return len(entries), nil
}

// requireSecret rejects webhook calls lacking the configured secret.
// With no secret configured the endpoints are disabled outright rather
// than left open.
func (s *Server) requireSecret(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.RevalidateSecret == "" {
			writeError(w, http.StatusForbidden, "webhook endpoints are not configured")
			return
		}
		if r.Header.Get("X-Revalidate-Secret") != s.cfg.RevalidateSecret {
			writeError(w, http.StatusUnauthorized, "invalid secret")
			return
		}
		next(w, r)
	}
}

// Invalidate drops one cached resolution. Exposed for the watcher
// wiring as well as the webhook handler.
func (s *Server) Invalidate(ctx context.Context, ct content.ContentType, slug, locale string) {
	s.resolver.Invalidate(ctx, ct, slug, locale)
}
