package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ngothanh/posi/pkg/config"
	"github.com/ngothanh/posi/pkg/ratelimit"
)

// Server is the HTTP server exposing the rate limiters.
type Server struct {
	config   *config.Config
	factory  *ratelimit.Factory
	gate     ratelimit.RateLimiter
	rate     ratelimit.Rate
	registry *prometheus.Registry
	logger   *slog.Logger

	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a server. The factory backs POST /v1/acquire; gate is the
// limiter enforced by the RateLimit middleware on the gated route group. A
// nil registry disables the metrics endpoint.
func New(cfg *config.Config, factory *ratelimit.Factory, gate ratelimit.RateLimiter, rate ratelimit.Rate, registry *prometheus.Registry) *Server {
	return &Server{
		config:   cfg,
		factory:  factory,
		gate:     gate,
		rate:     rate,
		registry: registry,
		logger:   slog.Default().With("component", "server"),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        s.Handler(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			"address", s.config.Server.ListenAddress,
			"rate", s.rate.String(),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server, draining in-flight requests
// within the configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler builds the router with the full middleware chain. Exposed for
// httptest-based testing.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery)
	r.Use(RequestID)
	r.Use(Logging)

	r.Get("/healthz", s.handleHealthz)

	if s.registry != nil && s.config.Telemetry.Metrics.Enabled {
		r.Method(http.MethodGet, s.config.Telemetry.Metrics.Path,
			promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/acquire", s.handleAcquire)

		// Routes behind the admission gate, one permit per request.
		r.Group(func(r chi.Router) {
			r.Use(RateLimit(s.gate, s.rate))
			r.Get("/ping", s.handlePing)
		})
	})

	return r
}
