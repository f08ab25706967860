// Package server provides HTTP server initialization and lifecycle management.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"regform/src/app/http/handler"
	"regform/src/app/middleware"
	"regform/src/core/ports"
	"regform/src/core/usecase"
	"regform/src/infra/config"
	"regform/src/infra/metrics"
)

// Deps are the collaborators the server builds its services from.
type Deps struct {
	Sessions ports.SessionRepository
	Engine   *usecase.FormEngine

	// Metrics and Gatherer may be nil when metrics are disabled.
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg      *config.Config
	log      *slog.Logger
	router   *gin.Engine
	http     *http.Server
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer

	// Handlers
	healthHandler  *handler.HealthHandler
	formHandler    *handler.FormHandler
	countryHandler *handler.CountryHandler
}

// New creates a new Server with all dependencies wired up.
func New(cfg *config.Config, log *slog.Logger, deps Deps) *Server {
	// Set Gin mode based on log level
	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router without default middleware
	router := gin.New()

	// Create services
	healthService := usecase.NewHealthService(deps.Engine.Directory(), deps.Sessions, log)
	sessionService := usecase.NewSessionService(deps.Sessions, deps.Engine, log)

	s := &Server{
		cfg:            cfg,
		log:            log,
		router:         router,
		metrics:        deps.Metrics,
		gatherer:       deps.Gatherer,
		healthHandler:  handler.NewHealthHandler(healthService),
		formHandler:    handler.NewFormHandler(sessionService),
		countryHandler: handler.NewCountryHandler(sessionService),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupHTTPServer()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	// Order matters: Recovery should be first to catch all panics
	s.router.Use(middleware.Recovery(s.log))
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.CORS(s.cfg.Server.CORSOrigin))
	s.router.Use(middleware.Logging(s.log))
	if s.metrics != nil {
		s.router.Use(middleware.Metrics(s.metrics))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthHandler.Health)
	s.router.GET("/health/detailed", s.healthHandler.DetailedHealth)

	if s.cfg.Metrics.Enabled && s.gatherer != nil {
		s.router.GET(s.cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.router.Group("/v1")
	{
		v1.GET("/countries", s.countryHandler.List)

		v1.POST("/forms", s.formHandler.Create)
		v1.GET("/forms/:form_id", s.formHandler.Get)
		v1.DELETE("/forms/:form_id", s.formHandler.Delete)
		v1.PUT("/forms/:form_id/fields/:field", s.formHandler.SetField)
		v1.POST("/forms/:form_id/validate", s.formHandler.Validate)
		v1.POST("/forms/:form_id/submit", s.formHandler.Submit)
	}

	// Handle 404
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":       "NOT_FOUND",
				"message":    "The requested resource was not found",
				"request_id": middleware.GetRequestID(c),
			},
		})
	})
}

// setupHTTPServer configures the underlying HTTP server.
func (s *Server) setupHTTPServer() {
	s.http = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
}

// Run starts the HTTP server and blocks until shutdown. It stops on
// SIGINT/SIGTERM or when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting HTTP server",
			"addr", s.cfg.Server.Addr(),
		)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info("shutdown requested", "cause", context.Cause(ctx))
	case err := <-errCh:
		return err
	}

	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	s.log.Info("shutting down server", "timeout", s.cfg.Server.ShutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("server stopped gracefully")
	return nil
}

// Router returns the Gin router for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// WaitForReady waits until the server is ready to accept connections.
// Useful for integration tests.
func (s *Server) WaitForReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(fmt.Sprintf("http://%s/health", s.cfg.Server.Addr()))
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("server not ready after %v", timeout)
}

