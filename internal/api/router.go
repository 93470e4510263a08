package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/legacyapp/legacyapp-api/docs"
	"github.com/legacyapp/legacyapp-api/internal/api/handler"
	"github.com/legacyapp/legacyapp-api/internal/api/middleware"
	"github.com/legacyapp/legacyapp-api/internal/core/domain"
	"github.com/legacyapp/legacyapp-api/internal/core/ports"
	"github.com/legacyapp/legacyapp-api/internal/infrastructure/http/handlers"
)

// Deps is everything the router needs to serve requests.
type Deps struct {
	Auth        ports.AuthService
	Users       ports.UserService
	Projects    ports.ProjectService
	Pages       ports.PageService
	Workflows   ports.WorkflowService
	Comments    ports.CommentService
	Assignments ports.AssignmentService
	Reports     ports.ReportService

	Tokens    middleware.TokenVerifier
	Readiness []handlers.Dependency
	Log       zerolog.Logger

	// Metrics defaults to the global Prometheus registry when nil.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	promCfg := echoprometheus.MiddlewareConfig{Namespace: "legacyapp", Subsystem: "http"}
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if d.Metrics != nil {
		promCfg.Registerer = d.Metrics
		gatherer = d.Metrics
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promCfg))
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(d.Readiness...).Readiness)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Protected routes ---
	// Middleware is attached per route: a root group carrying middleware
	// registers a catch-all that turns 405 into 404.
	protected := []echo.MiddlewareFunc{
		middleware.Auth(d.Tokens),
		middleware.RequireRole(domain.RoleProjectManager, domain.RoleDeveloper),
	}

	users := handler.NewUserHandler(d.Users)
	e.GET("/users", users.List, protected...)
	e.GET("/users/:id", users.Get, protected...)

	projects := handler.NewProjectHandler(d.Projects)
	e.POST("/projects", projects.Create, protected...)
	e.GET("/projects", projects.List, protected...)
	e.GET("/projects/:id", projects.Get, protected...)
	e.PUT("/projects/:id", projects.Update, protected...)
	e.DELETE("/projects/:id", projects.Delete, protected...)

	pages := handler.NewPageHandler(d.Pages)
	e.POST("/pages", pages.Create, protected...)
	e.GET("/pages", pages.List, protected...)
	e.GET("/pages/:id", pages.Get, protected...)
	e.PUT("/pages/:id", pages.Update, protected...)
	e.DELETE("/pages/:id", pages.Delete, protected...)

	workflows := handler.NewWorkflowHandler(d.Workflows)
	e.POST("/workflows", workflows.Create, protected...)
	e.GET("/workflows", workflows.List, protected...)
	e.GET("/workflows/:id", workflows.Get, protected...)
	e.DELETE("/workflows/:id", workflows.Delete, protected...)

	comments := handler.NewCommentHandler(d.Comments)
	e.POST("/comments", comments.Create, protected...)
	e.GET("/comments", comments.List, protected...)
	e.GET("/comments/:id", comments.Get, protected...)
	e.DELETE("/comments/:id", comments.Delete, protected...)

	assignments := handler.NewAssignmentHandler(d.Assignments)
	e.POST("/assignments", assignments.Create, protected...)
	e.GET("/assignments", assignments.List, protected...)
	e.GET("/assignments/:id", assignments.Get, protected...)
	e.DELETE("/assignments/:id", assignments.Delete, protected...)

	reports := handler.NewReportHandler(d.Reports)
	e.POST("/reports", reports.Create, protected...)
	e.GET("/reports", reports.List, protected...)
	e.GET("/reports/:id", reports.Get, protected...)
	e.DELETE("/reports/:id", reports.Delete, protected...)

	return e
}

// requestLogger emits one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
