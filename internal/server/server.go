// Package server exposes discovery over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/dbsmedya/objectgraph/internal/config"
	"github.com/dbsmedya/objectgraph/internal/discovery"
	"github.com/dbsmedya/objectgraph/internal/logger"
	"github.com/dbsmedya/objectgraph/internal/types"
)

// Backend is the part of the record store the API uses besides discovery.
type Backend interface {
	ListTypes(ctx context.Context) ([]string, error)
	Object(ctx context.Context, key types.NodeKey) (map[string]interface{}, error)
	Ping(ctx context.Context) error
}

// Config holds the collaborators of the server.
type Config struct {
	Builder   *discovery.Builder
	Backend   Backend
	Server    config.ServerConfig
	Traversal config.TraversalConfig
	Logger    *logger.Logger
}

// Server is the HTTP API.
type Server struct {
	builder   *discovery.Builder
	backend   Backend
	settings  config.ServerConfig
	traversal config.TraversalConfig
	logger    *logger.Logger
}

// New creates a server.
func New(cfg Config) (*Server, error) {
	if cfg.Builder == nil {
		return nil, fmt.Errorf("builder is nil")
	}
	if cfg.Backend == nil {
		return nil, fmt.Errorf("backend is nil")
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewDefault()
	}

	return &Server{
		builder:   cfg.Builder,
		backend:   cfg.Backend,
		settings:  cfg.Server,
		traversal: cfg.Traversal,
		logger:    log,
	}, nil
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		s.observe,
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/getNetwork", s.handleGetNetwork)
		r.Get("/getTypes", s.handleGetTypes)
		r.Get("/getObjectInfo", s.handleGetObjectInfo)
		r.Get("/verify", s.handleVerify)
	})

	return r
}

// Serve listens on the configured address and blocks until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.settings.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.settings.Listen, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Infof("Starting API server on %s", ln.Addr())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		timeout := s.settings.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		s.logger.Info("Shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// observe logs each request and records its metrics.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)

		recordRequest(route, status, duration)
		s.logger.WithRequest(middleware.GetReqID(r.Context())).WithFields(map[string]interface{}{
			"route":       route,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
		}).Debug("Request served")
	})
}
