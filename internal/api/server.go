// Package api exposes the analytical query surface over HTTP, plus the
// health, readiness, and metrics endpoints.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atlasboard/country-data-service/internal/domain"
	"github.com/atlasboard/country-data-service/internal/observability"
)

// SnapshotSource provides the canonical collection queries run against.
type SnapshotSource interface {
	Countries(ctx context.Context) ([]domain.Country, error)
	CheckReadiness(ctx context.Context) error
}

// Server wires the query handlers into an echo instance.
type Server struct {
	echo   *echo.Echo
	addr   string
	logger *slog.Logger
}

// NewServer creates the HTTP server with all query and operational routes.
func NewServer(addr string, source SnapshotSource, metrics *observability.Metrics, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	// The dashboard frontend is served from a different origin.
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	h := &handler{source: source, metrics: metrics, logger: logger}

	e.GET("/healthz", handleHealth)
	e.GET("/readyz", handleReady(source))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")
	v1.GET("/countries", h.listCountries)
	v1.GET("/countries/:name", h.getCountry)
	v1.GET("/top/:metric", h.topCountries)
	v1.GET("/filter", h.filterByRegion)
	v1.GET("/stats", h.stats)
	v1.GET("/extremes", h.extremes)

	return &Server{echo: e, addr: addr, logger: logger}
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.addr)
	return s.echo.Start(s.addr)
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			logger.Info("request", attrs...)
			return nil
		},
	})
}

// errorHandler renders uncaught errors in the {"detail": ...} shape the
// rest of the API uses.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	detail := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		detail = fmt.Sprintf("%v", he.Message)
	}
	_ = c.JSON(code, errorResponse{Detail: detail})
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(source SnapshotSource) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := source.CheckReadiness(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	}
}
