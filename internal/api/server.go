package api

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	apimw "github.com/streamsage/streamsage/internal/api/middleware"
	"github.com/streamsage/streamsage/internal/catalog"
	"github.com/streamsage/streamsage/internal/config"
	"github.com/streamsage/streamsage/internal/discovery"
	"github.com/streamsage/streamsage/internal/llm"
	"github.com/streamsage/streamsage/internal/scheduler"
)

// Server handles HTTP requests for the StreamSage API.
type Server struct {
	echo      *echo.Echo
	logger    zerolog.Logger
	cfg       *config.Config
	discovery *discovery.Service
	provider  llm.Provider
	catalog   *catalog.Service
	sched     *scheduler.Scheduler
}

// NewServer creates a new API server instance. The scheduler may be nil
// when background tasks are disabled.
func NewServer(cfg *config.Config, discoverySvc *discovery.Service, provider llm.Provider, catalogSvc *catalog.Service, sched *scheduler.Scheduler, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		logger:    logger.With().Str("component", "api").Logger(),
		cfg:       cfg,
		discovery: discoverySvc,
		provider:  provider,
		catalog:   catalogSvc,
		sched:     sched,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID
	s.echo.Use(middleware.RequestID())

	// Security headers
	s.echo.Use(apimw.SecurityHeaders())

	// Request body size limit
	bodyLimit := s.cfg.Server.BodyLimit
	if bodyLimit == "" {
		bodyLimit = "64K"
	}
	s.echo.Use(middleware.BodyLimit(bodyLimit))

	// CORS - the discovery endpoint is called from browser clients
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
	}))

	// Request logging
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	// Per-IP rate limiting; every discovery request fans out to paid
	// upstream APIs, so abuse is expensive.
	if s.cfg.Server.RateLimit > 0 {
		s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:  rate.Limit(s.cfg.Server.RateLimit),
				Burst: s.cfg.Server.RateLimitBurst,
			}),
			IdentifierExtractor: func(c echo.Context) (string, error) {
				return c.RealIP(), nil
			},
		}))
	}
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	api := s.echo.Group("/api/v1")
	api.GET("/status", s.getStatus)
	api.POST("/discover", s.handleDiscover)
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("Starting HTTP server")
	if err := s.echo.Start(address); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}
