// Package server exposes the multiplication engine over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"

	"github.com/agbru/matbench/internal/config"
	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/logging"
	"github.com/agbru/matbench/internal/multiply"
	"github.com/agbru/matbench/internal/parallel"
	"github.com/agbru/matbench/internal/service"
)

// Server is the matbench HTTP API. It wraps an http.Server with the
// middleware chain and a graceful shutdown tied to a context.
type Server struct {
	factory        multiply.Factory
	service        service.Service
	cfg            config.AppConfig
	pool           *parallel.Pool
	httpServer     *http.Server
	logger         logging.Logger
	rateLimiter    *RateLimiter
	securityConfig SecurityConfig
	metrics        *Metrics
	timeouts       Timeouts
}

// NewServer creates a Server for the algorithms of factory.
//
// Parameters:
//   - factory: The algorithm registry served by /algorithms and /multiply.
//   - cfg: The application configuration (port, thresholds, max-dim, workers).
//   - opts: Functional options, e.g. WithLogger or WithService.
//
// Returns:
//   - *Server: The configured server, not yet listening.
func NewServer(factory multiply.Factory, cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		factory:        factory,
		cfg:            cfg,
		logger:         logging.NewLogger(os.Stdout, "server"),
		securityConfig: DefaultSecurityConfig(),
		metrics:        NewMetrics(),
		timeouts:       TimeoutsFor(cfg),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.pool == nil {
		s.pool = parallel.NewPool(cfg.Workers)
	}
	if s.service == nil {
		svc, err := service.NewMatrixService(s.factory, s.cfg, s.pool, s.logger)
		if err != nil {
			s.logger.Error("result cache disabled", err)
			svc, _ = service.NewMatrixServiceWithCache(s.factory, s.cfg, s.pool, s.logger, 0)
		}
		s.service = svc
	}
	if s.rateLimiter == nil {
		s.rateLimiter = NewRateLimiter(DefaultRateLimiterConfig())
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/multiply", s.wrapWithMiddleware(s.handleMultiply))
	mux.HandleFunc("/health", s.wrapWithMiddleware(s.handleHealth))
	mux.HandleFunc("/algorithms", s.wrapWithMiddleware(s.handleAlgorithms))
	mux.HandleFunc("/metrics", s.wrapWithMiddleware(s.handleMetrics))

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}

	return s
}

// wrapWithMiddleware applies, outermost first: request ID, security
// headers, rate limiting, body limit, logging, metrics.
func (s *Server) wrapWithMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	wrapped := s.metricsMiddleware(handler)
	wrapped = s.loggingMiddleware(wrapped)
	wrapped = BodyLimitMiddleware(s.securityConfig.MaxBodyBytes, wrapped)
	wrapped = RateLimitMiddleware(s.rateLimiter, wrapped)
	wrapped = SecurityMiddleware(s.securityConfig, wrapped)
	wrapped = RequestIDMiddleware(wrapped)
	return wrapped
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens on the configured port and serves until ctx is canceled,
// then shuts down gracefully within the shutdown timeout.
//
// Returns:
//   - error: An apperrors.ServerError if listening or shutdown fails.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return apperrors.NewServerError("server failed to start", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			logging.String("addr", ln.Addr().String()),
			logging.Int("seq_threshold", s.cfg.SequentialThreshold),
			logging.Int("par_threshold", s.cfg.ParallelThreshold),
			logging.Int("max_dim", s.cfg.MaxDim),
			logging.Int("workers", s.pool.Workers()))
		s.logger.Println("Available endpoints:")
		s.logger.Println("  POST /multiply")
		s.logger.Println("  GET /algorithms")
		s.logger.Println("  GET /health")
		s.logger.Println("  GET /metrics")

		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Println("Shutdown signal received, initiating graceful shutdown...")
	case err, ok := <-errCh:
		if ok {
			return apperrors.NewServerError("server failed", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return apperrors.NewServerError("failed to gracefully shutdown server", err)
	}

	s.logger.Println("Server stopped gracefully")
	return nil
}
