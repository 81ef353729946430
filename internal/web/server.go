package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/a3tai/pcp-change-form/internal/changeform"
	"github.com/a3tai/pcp-change-form/internal/config"
	"github.com/a3tai/pcp-change-form/internal/web/middleware"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Server is the HTTP front end of the change form service
type Server struct {
	config  *config.Config
	service *changeform.Service
	logger  zerolog.Logger
	echo    *echo.Echo
}

// NewServer wires the routes. When mcpHandler is not nil it is mounted at
// /mcp so MCP clients can reach the same tools over HTTP.
func NewServer(cfg *config.Config, service *changeform.Service, mcpHandler http.Handler, logger zerolog.Logger) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		config:  cfg,
		service: service,
		logger:  logger.With().Str("component", "web").Logger(),
		echo:    e,
	}

	e.Use(middleware.Recovery(s.logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(s.logger))
	e.Use(middleware.BodyLimit(cfg.MaxInputSize))

	e.GET("/health", s.handleHealth)
	e.POST("/pcp-change-form", s.handleGenerate)

	api := e.Group("/api/v1")
	api.POST("/extract", s.handleExtract)
	api.GET("/template", s.handleTemplate)

	if mcpHandler != nil {
		e.Any("/mcp", echo.WrapHandler(mcpHandler))
	}

	return s, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves HTTP on the configured address until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.config.Address()).Msg("starting HTTP server")
	if err := s.echo.Start(s.config.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}
