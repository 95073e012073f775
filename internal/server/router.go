package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fintrack/fintrack/internal/handler"
	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/service"
)

// RouterConfig carries everything NewRouter mounts.
type RouterConfig struct {
	Logger *slog.Logger

	Auth     *service.AuthService
	Guard    middleware.Authenticator
	Expenses *service.RecordService
	Incomes  *service.RecordService
	Stats    *service.StatsService

	// Health dependencies; nil means not configured.
	DB    handler.HealthChecker
	Cache handler.HealthChecker

	// Metrics is mounted at /metrics when non-nil.
	Metrics *handler.MetricsHandler

	CORS          middleware.CORSConfig
	IsDevelopment bool
	MaxBodyBytes  int64
}

// NewRouter builds the fintrack HTTP API.
func NewRouter(cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := handler.New()
	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Cache, logger)
	authHandler := handler.NewAuthHandler(cfg.Auth, logger)
	expenseHandler := handler.NewRecordHandler(cfg.Expenses, logger)
	incomeHandler := handler.NewRecordHandler(cfg.Incomes, logger)
	statsHandler := handler.NewStatsHandler(cfg.Stats, logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.MaxBodyBytes > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxBodyBytes))
	}

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/", h.Hello)
	if cfg.Metrics != nil {
		r.Get("/metrics", cfg.Metrics.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(middleware.AuthConfig{
				Logger: logger,
				Guard:  cfg.Guard,
			}))

			r.Route("/expense", recordRoutes(expenseHandler))
			r.Route("/income", recordRoutes(incomeHandler))

			r.Route("/stats", func(r chi.Router) {
				r.Get("/", statsHandler.Summary)
				r.Get("/chart", statsHandler.Chart)
			})
		})
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

// recordRoutes mounts the five CRUD routes shared by every ledger.
// chi matches the static "/all" ahead of "/{id}".
func recordRoutes(h *handler.RecordHandler) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/all", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	}
}
