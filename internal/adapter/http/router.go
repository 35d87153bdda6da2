package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/lexpractice/lexledger/internal/adapter/http/handler"
	"github.com/lexpractice/lexledger/internal/adapter/http/middleware"
	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/infrastructure/metrics"
	"github.com/lexpractice/lexledger/internal/usecase"
)

// DefaultIdempotencyTTL is used when RouterConfig.IdempotencyTTL is zero.
const DefaultIdempotencyTTL = 24 * time.Hour

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	MatterHandler  *handler.MatterHandler
	ClientHandler  *handler.ClientHandler
	TrustHandler   *handler.TrustHandler
	PayrollHandler *handler.PayrollHandler
	HealthHandler  *handler.HealthHandler

	Authenticator    *middleware.Authenticator
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	// MetricsHandler serves /metrics. Defaults to promhttp.Handler().
	MetricsHandler http.Handler
	CORSOrigins    []string
	Logger         zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestInfo)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Compress(5))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORSOrigins))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Ops endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	partners := middleware.RequireRoles(domain.RoleAdmin, domain.RolePartner)
	admins := middleware.RequireRoles(domain.RoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", cfg.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(cfg.Authenticator.Authenticate)

			// Keys are scoped per actor, so this runs after authentication.
			if cfg.IdempotencyStore != nil {
				ttl := cfg.IdempotencyTTL
				if ttl <= 0 {
					ttl = DefaultIdempotencyTTL
				}
				r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, ttl, cfg.Metrics, cfg.Logger).Wrap)
			}

			r.Route("/auth", func(r chi.Router) {
				r.Get("/me", cfg.AuthHandler.Me)
				r.Put("/change-password", cfg.AuthHandler.ChangePassword)
				r.With(admins).Post("/register", cfg.AuthHandler.Register)
				r.With(partners).Get("/users", cfg.AuthHandler.Users)
			})

			r.Route("/matters", func(r chi.Router) {
				r.Get("/dashboard/stats", cfg.MatterHandler.DashboardStats)
				r.Get("/", cfg.MatterHandler.List)
				r.With(partners).Post("/", cfg.MatterHandler.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", cfg.MatterHandler.Get)
					r.With(partners).Put("/", cfg.MatterHandler.Update)
					r.Post("/time", cfg.MatterHandler.AddTime)

					r.Route("/trust", func(r chi.Router) {
						r.Get("/", cfg.TrustHandler.Balance)
						r.Get("/entries", cfg.TrustHandler.Entries)

						r.Group(func(r chi.Router) {
							r.Use(partners)
							r.Get("/reconcile", cfg.TrustHandler.Reconcile)
							r.Post("/deposit", cfg.TrustHandler.Deposit)
							r.Post("/withdraw", cfg.TrustHandler.Withdraw)
						})
					})
				})
			})

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", cfg.ClientHandler.List)
				r.With(partners).Post("/", cfg.ClientHandler.Create)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.With(partners).Post("/calculate", cfg.PayrollHandler.Calculate)
				r.With(admins).Post("/process", cfg.PayrollHandler.Process)
				r.With(partners).Get("/", cfg.PayrollHandler.List)
				r.With(admins).Put("/{id}/status", cfg.PayrollHandler.UpdateStatus)
				r.Get("/staff/{staffId}", cfg.PayrollHandler.Staff)
				r.With(partners).Get("/report/annual", cfg.PayrollHandler.AnnualReport)
			})
		})
	})

	return r
}
