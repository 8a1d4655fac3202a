package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/notastartupanymore/companywatch/docs"
	"github.com/notastartupanymore/companywatch/internal/api/handler"
	"github.com/notastartupanymore/companywatch/internal/api/middleware"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
)

// Deps are the services the console exposes.
type Deps struct {
	Session       ports.SessionService
	Account       ports.AccountService
	Subscriptions ports.CollectionService
	Filters       ports.CollectionService
	Feed          ports.FeedService
	Reports       ports.ReportService
	Redirects     handler.RedirectSource
	Probes        map[string]handler.Probe
	Log           zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Redirects)

	// Request metrics go to a per-router registry so routers can be built
	// more than once in a process; /metrics gathers both registries.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "companywatch",
		Subsystem:  "console",
		Registerer: reg,
	}))

	// --- Handlers ---
	sessionHandler := handler.NewSessionHandler(d.Session, d.Account, d.Redirects)
	accountHandler := handler.NewAccountHandler(d.Account)
	subscriptionHandler := handler.NewCollectionHandler(d.Subscriptions)
	filterHandler := handler.NewCollectionHandler(d.Filters)
	feedHandler := handler.NewFeedHandler(d.Feed)
	reportHandler := handler.NewReportHandler(d.Reports)

	requireSession := middleware.RequireSession(d.Session)
	requireAnonymous := middleware.RequireAnonymous(d.Session)

	v1 := e.Group("/v1")

	// --- Session and accounts ---
	v1.GET("/session", sessionHandler.Get)
	v1.POST("/session", sessionHandler.Login, requireAnonymous)
	v1.DELETE("/session", sessionHandler.Logout, requireSession)

	v1.POST("/accounts", accountHandler.Register, requireAnonymous)
	v1.GET("/accounts/verify", accountHandler.Verify)
	v1.GET("/accounts/me", accountHandler.Profile, requireSession)
	v1.DELETE("/accounts/me", accountHandler.Delete, requireSession)
	v1.POST("/contact", accountHandler.Contact)

	// --- Public feed ---
	v1.GET("/news", feedHandler.News)
	v1.GET("/news/filtered", feedHandler.Filtered)
	v1.GET("/companies", feedHandler.Companies)
	v1.GET("/filter-labels", feedHandler.FilterLabels)

	// --- Session-bound feed, collections and reports ---
	private := v1.Group("", requireSession)
	private.GET("/news/interesting", feedHandler.Interesting)
	private.GET("/charts", feedHandler.Chart)
	private.POST("/reports", reportHandler.Create)

	for _, r := range []struct {
		path string
		h    *handler.CollectionHandler
	}{
		{"/subscriptions", subscriptionHandler},
		{"/filters", filterHandler},
	} {
		private.GET(r.path, r.h.List)
		private.POST(r.path, r.h.Add)
		private.DELETE(r.path+"/:item", r.h.Remove)
		private.POST(r.path+"/:item/toggle", r.h.Toggle)
	}

	// --- Health probes, metrics and docs (no session required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Probes)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
