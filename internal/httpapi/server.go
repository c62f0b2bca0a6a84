// Package httpapi serves the admin JSON API over echo.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexanderramin/planops/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Services are the use cases the API exposes.
type Services struct {
	Customers service.CustomerService
	Plans     service.PlanService
	Rules     service.RuleService
	Overview  service.OverviewService
}

// Config holds HTTP server configuration.
type Config struct {
	Host      string
	Port      int
	JWTSecret []byte
}

// Server provides the HTTP endpoints.
type Server struct {
	echo     *echo.Echo
	services Services
	logger   *zap.Logger
	config   *Config
	gatherer prometheus.Gatherer
}

// NewServer builds the echo instance, registers request metrics with reg and
// mounts every route.
func NewServer(services Services, reg *prometheus.Registry, logger *zap.Logger, cfg *Config) (*Server, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking")
	}
	if cfg == nil || len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("a JWT secret is required to serve the API")
	}
	if services.Customers == nil || services.Plans == nil || services.Rules == nil || services.Overview == nil {
		return nil, fmt.Errorf("all services are required")
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics, err := newRequestMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("registering http metrics: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(metrics.middleware)
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return nil
		}
	})

	s := &Server{
		echo:     e,
		services: services,
		logger:   logger,
		config:   cfg,
		gatherer: reg,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	v1 := s.echo.Group("/api/v1", jwtActor(s.config.JWTSecret))

	v1.GET("/customers", s.listCustomers)
	v1.POST("/customers", s.createCustomer)
	v1.GET("/customers/:id", s.getCustomer)
	v1.PUT("/customers/:id", s.updateCustomer)
	v1.DELETE("/customers/:id", s.deleteCustomer)

	v1.GET("/customers/:id/plan", s.getPlan)
	v1.GET("/customers/:id/tasks", s.listTasks)
	v1.POST("/customers/:id/tasks", s.createTask)
	v1.PUT("/customers/:id/tasks/:taskID", s.updateTask)
	v1.DELETE("/customers/:id/tasks/:taskID", s.deleteTask)
	v1.POST("/customers/:id/tasks/:taskID/subtasks/:subtaskID/toggle", s.toggleSubtask)
	v1.POST("/customers/:id/tasks/:taskID/counter", s.adjustCounter)

	v1.GET("/catalogs", s.listCatalogs)
	v1.GET("/catalogs/:id", s.getCatalog)
	v1.PUT("/catalogs/:id", s.saveCatalog)
	v1.PUT("/catalogs/:id/rules/:ruleID", s.upsertRule)
	v1.DELETE("/catalogs/:id/rules/:ruleID", s.deleteRule)
	v1.POST("/catalogs/:id/rules/:ruleID/apply", s.applyRule)
	v1.POST("/catalogs/:id/rules/:ruleID/remove", s.removeRule)

	v1.POST("/plans/rollover", s.rolloverAll)
	v1.GET("/overview", s.overview)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
