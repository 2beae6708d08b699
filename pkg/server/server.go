// Package server exposes graph rendering over HTTP.
//
// Routes:
//
//	POST /v1/graphs                    render a LayerView posted as JSON
//	GET  /v1/layer_views/{id}/graph    retrieve a LayerView from the platform and render it
//	POST /v1/terms                     term summary of every leaf
//	GET  /v1/renders/{id}              a stored render record
//	GET  /healthz                      liveness
//
// Graph options are query parameters named like the CLI flags
// (format, rankdir, with_terms, compact, warnings, max_depth, max_sources,
// colors, color_mode, filename, scale). Rendered responses carry the
// derived filename in X-Filename and the record id in X-Render-Id.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/analyzere/extras/pkg/cache"
	"github.com/analyzere/extras/pkg/layerview"
	"github.com/analyzere/extras/pkg/platform"
	"github.com/analyzere/extras/pkg/store"
)

// DefaultMaxBodyBytes bounds posted LayerView documents.
const DefaultMaxBodyBytes = 16 << 20

// Config wires the server's collaborators. Only Defaults is required;
// missing collaborators fall back to in-memory or disabled variants.
type Config struct {
	// Platform retrieves LayerViews by id. Nil disables the layer_views route.
	Platform *platform.Client
	// Cache holds rendered artifacts.
	Cache    cache.Cache
	CacheTTL time.Duration
	Keyer    cache.Keyer
	// Store persists render records.
	Store store.Store
	// Defaults are the graph options used when a request does not override them.
	Defaults layerview.Options

	MaxBodyBytes int64
	Logger       *log.Logger
}

// Server handles graph requests.
type Server struct {
	platform *platform.Client
	cache    cache.Cache
	cacheTTL time.Duration
	keys     cache.Keyer
	store    store.Store
	defaults layerview.Options
	maxBody  int64
	logger   *log.Logger
}

// New returns a server for cfg.
func New(cfg Config) *Server {
	s := &Server{
		platform: cfg.Platform,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		keys:     cfg.Keyer,
		store:    cfg.Store,
		defaults: cfg.Defaults,
		maxBody:  cfg.MaxBodyBytes,
		logger:   cfg.Logger,
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.keys == nil {
		s.keys = cache.NewDefaultKeyer()
	}
	if s.store == nil {
		s.store = store.NewMemoryStore()
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/graphs", s.handleCreateGraph)
		r.Get("/layer_views/{id}/graph", s.handleLayerViewGraph)
		r.Post("/terms", s.handleTerms)
		r.Get("/renders/{id}", s.handleGetRender)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
