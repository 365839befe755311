package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/megayours/megadata-studio/internal/api/middleware"
	"github.com/megayours/megadata-studio/internal/api/rest"
	"github.com/megayours/megadata-studio/internal/logger"
)

// Config holds the server configuration
type Config struct {
	Debug          bool
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	Auth           middleware.AuthConfig
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	handler    rest.Handler
	httpServer *http.Server
}

// New creates a new API server around an already wired handler
func New(cfg Config, handler rest.Handler) *Server {
	return &Server{
		config:  cfg,
		handler: handler,
	}
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Setup middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS(s.config.AllowedOrigins))
	router.Use(middleware.Metrics())

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup REST routes
	rest.SetupRoutes(router, s.handler, s.config.Auth)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
