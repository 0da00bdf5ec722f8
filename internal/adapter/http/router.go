package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/goholdings/internal/adapter/http/handler"
	"github.com/iho/goholdings/internal/adapter/http/middleware"
	"github.com/iho/goholdings/internal/infrastructure/metrics"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TaskHandler   *handler.TaskHandler
	HealthHandler *handler.HealthHandler
	Logger        zerolog.Logger

	// Optional.
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	RateLimiter *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}

		r.Route("/tenants", func(r chi.Router) {
			r.Post("/rebuild", cfg.TaskHandler.RebuildAllTenants)
			r.Post("/{tenantID}/rebuild", cfg.TaskHandler.RebuildTenant)
			r.Post("/{tenantID}/rate-corrections", cfg.TaskHandler.CorrectRates)
		})

		r.Post("/securities/rebuild", cfg.TaskHandler.RebuildSecurity)
		r.Post("/instruments/{id}/rebuild", cfg.TaskHandler.RebuildInstrument)
		r.Post("/cash-accounts/{id}/rebuild", cfg.TaskHandler.RebuildCashAccount)

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", cfg.TaskHandler.Create)
			r.Get("/{id}", cfg.TaskHandler.Get)
		})
	})

	return r
}
