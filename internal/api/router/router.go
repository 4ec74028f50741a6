package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pawtrait-ai/backend/internal/api/handlers"
	"github.com/pawtrait-ai/backend/internal/api/middleware"
	"github.com/pawtrait-ai/backend/internal/config"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
	"github.com/pawtrait-ai/backend/internal/pkg/metrics"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Health    *handlers.HealthHandler
	Tracking  *handlers.TrackingHandler
	Status    *handlers.StatusHandler
	Settings  *handlers.SettingsHandler
	Analytics *handlers.AnalyticsHandler
	Visitors  *handlers.VisitorsHandler
	Orders    *handlers.OrdersHandler
	Trial     *handlers.TrialHandler
	Payment   *handlers.PaymentHandler
}

// New builds the chi router with the full middleware chain. Everything under
// /api/admin goes through bearer auth; the rest is public.
func New(cfg *config.Config, log *logger.Logger, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(middleware.RateLimit(20, 40))
	r.Use(metrics.Middleware)

	r.Get("/healthz", h.Health.Live)
	r.Get("/readyz", h.Health.Ready)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		// Public surface: the browser snippet and checkout flow.
		r.Get("/tracking-status", h.Status.TrackingStatus)
		r.Post("/track-visitor", h.Tracking.TrackVisitor)
		r.Delete("/track-visitor", h.Tracking.DeleteVisitor)
		r.Post("/analytics/track", h.Tracking.TrackEvent)

		r.Post("/trial/check", h.Trial.Check)
		r.Post("/trial/claim", h.Trial.Claim)

		r.Post("/payment/orders", h.Payment.CreateOrder)
		r.Post("/payment/verify", h.Payment.Verify)

		// Admin surface: single shared credential, checked before anything
		// touches storage.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.Admin.APIKey))

			r.Get("/analytics", h.Analytics.Summary)
			r.Get("/visitors", h.Visitors.List)
			r.Get("/export-visitors", h.Visitors.Export)
			r.Get("/orders", h.Orders.List)
			r.Get("/settings", h.Settings.Get)
			r.Post("/settings", h.Settings.Update)
		})
	})

	return r
}
