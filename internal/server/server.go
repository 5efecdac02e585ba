// Package server exposes hyperoperation evaluation over HTTP.
//
// Endpoints:
//
//	GET  /evaluate?a=<int>&b=<int>&arrows=<n>&backend=<name>
//	POST /evaluate/batch
//	GET  /backends
//	GET  /health
//	GET  /metrics
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/hypercalc/internal/config"
	apperrors "github.com/agbru/hypercalc/internal/errors"
	"github.com/agbru/hypercalc/internal/hyperop"
	"github.com/agbru/hypercalc/internal/logging"
	"github.com/agbru/hypercalc/internal/service"
)

// Server is the hypercalc HTTP API.
type Server struct {
	service        service.Service
	cfg            config.AppConfig
	httpServer     *http.Server
	logger         logging.Logger
	shutdownSignal chan os.Signal
	rateLimiter    *RateLimiter
	securityConfig SecurityConfig
	metrics        *Metrics
	timeouts       Timeouts
}

// NewServer builds a Server evaluating with the backends of factory.
//
// Parameters:
//   - factory: The backend registry.
//   - cfg: The application configuration (port and request limits).
//   - opts: Functional options (WithLogger, WithService, ...).
//
// Returns:
//   - *Server: The configured server, not yet listening.
func NewServer(factory hyperop.CalculatorFactory, cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		cfg:            cfg,
		logger:         logging.NewLogger(os.Stdout, "server"),
		shutdownSignal: make(chan os.Signal, 1),
		securityConfig: DefaultSecurityConfig(),
		metrics:        NewMetrics(),
		timeouts:       DefaultServerTimeouts(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.service == nil {
		s.service = service.NewCalculatorService(factory, service.LimitsFromConfig(cfg), 0)
	}
	if s.rateLimiter == nil {
		rlConfig := DefaultRateLimiterConfig()
		rlConfig.TrustedProxies = cfg.ProxyList()
		s.rateLimiter = NewRateLimiter(rlConfig)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/evaluate", s.wrap("/evaluate", s.handleEvaluate))
	mux.HandleFunc("/evaluate/batch", s.wrap("/evaluate/batch", s.handleBatch))
	mux.HandleFunc("/backends", s.wrap("/backends", s.handleBackends))
	mux.HandleFunc("/health", s.wrap("/health", s.handleHealth))
	mux.HandleFunc("/metrics", s.wrap("/metrics", s.handleMetrics))

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}
	return s
}

// Handler returns the routed handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// wrap applies Security -> RateLimit -> Logging -> Metrics -> handler.
func (s *Server) wrap(route string, handler http.HandlerFunc) http.HandlerFunc {
	wrapped := s.metricsMiddleware(route, handler)
	wrapped = s.loggingMiddleware(wrapped)
	wrapped = RateLimitMiddleware(s.rateLimiter, wrapped)
	return SecurityMiddleware(s.securityConfig, wrapped)
}

// Start listens on the configured port until SIGINT or SIGTERM, then shuts
// down gracefully.
func (s *Server) Start() error {
	signal.Notify(s.shutdownSignal, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(s.shutdownSignal)
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			logging.String("addr", s.httpServer.Addr),
			logging.Int("max_arrows", int(s.cfg.MaxArrows)),
			logging.Uint64("max_operand", s.cfg.MaxOperand),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-s.shutdownSignal:
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		return apperrors.NewServerError("server failed to start", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return apperrors.NewServerError("failed to gracefully shutdown server", err)
	}
	s.logger.Info("server stopped")
	return nil
}
