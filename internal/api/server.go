package api

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/amaumene/kioskarr/internal/api/handlers"
	"github.com/amaumene/kioskarr/internal/api/middleware"
	"github.com/amaumene/kioskarr/internal/config"
)

// Server represents the local status server of the kiosk
type Server struct {
	app    *fiber.App
	addr   string
	logger zerolog.Logger
}

// NewServer creates a new status server
func NewServer(cfg *config.Config, session handlers.SessionState, requests handlers.RequestSource, gatherer prometheus.Gatherer, logger zerolog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		IdleTimeout:           60 * time.Second,
	})

	s := &Server{
		app:    app,
		addr:   ":" + cfg.ServerPort,
		logger: logger,
	}

	app.Use(middleware.Logging(logger))
	s.setupRoutes(session, requests, gatherer)

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(session handlers.SessionState, requests handlers.RequestSource, gatherer prometheus.Gatherer) {
	// Health check
	healthHandler := handlers.NewHealthHandler(session, s.logger)
	s.app.Get("/health", healthHandler.Handle)

	// Status endpoint
	statusHandler := handlers.NewStatusHandler(requests, s.logger)
	s.app.Get("/status", statusHandler.Handle)

	// Prometheus metrics
	if gatherer != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}

// App exposes the fiber application, mainly for in-process tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the HTTP server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info().Str("port", s.addr).Msg("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.app.Listen(s.addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.app.ShutdownWithContext(shutdownCtx)
}
