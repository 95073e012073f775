// Package main is the entrypoint for the fintrack API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/cache"
	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/handler"
	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/migrate"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/server"
	"github.com/fintrack/fintrack/internal/service"
)

// store is what the API needs from a storage backend.
type store interface {
	service.CredentialStore
	service.RecordStore
	service.IdentityLookup
	Ping(ctx context.Context) error
	Close()
}

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize storage
	db, err := openStore(ctx, cfg, logger)
	if err != nil {
		os.Exit(1)
	}

	// Initialize cache. Without REDIS_URL stats are computed on every request.
	var (
		statsCache  service.StatsCache
		cacheHealth handler.HealthChecker
		cacheClient *cache.Cache
	)
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL, cfg.StatsCacheTTL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			db.Close()
			os.Exit(1)
		}
		statsCache = cacheClient
		cacheHealth = cacheClient
		logger.Info("connected to Redis")
	} else {
		logger.Info("stats cache disabled")
	}

	// Initialize tokens
	tokens, err := auth.NewTokenCodec([]byte(cfg.JWTSecret), cfg.TokenTTL, cfg.TokenIssuer)
	if err != nil {
		logger.Error("failed to initialize token codec", "error", err)
		os.Exit(1)
	}

	// Initialize services
	var (
		recorder       metrics.Recorder = metrics.NewNoop()
		metricsHandler *handler.MetricsHandler
	)
	if cfg.MetricsEnabled {
		inMemory := metrics.NewInMemory()
		recorder = inMemory
		metricsHandler = handler.NewMetricsHandler(inMemory)
	}

	guard := service.NewGuard(db, tokens, recorder)
	authService := service.NewAuthService(db, tokens, recorder)
	expenseService := service.NewRecordService(model.KindExpense, db, guard, statsCache, recorder)
	incomeService := service.NewRecordService(model.KindIncome, db, guard, statsCache, recorder)
	statsService := service.NewStatsService(db, statsCache, recorder, cfg.ChartWindowMonths)

	// Setup router
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	r := server.NewRouter(server.RouterConfig{
		Logger:        logger,
		Auth:          authService,
		Guard:         guard,
		Expenses:      expenseService,
		Incomes:       incomeService,
		Stats:         statsService,
		DB:            db,
		Cache:         cacheHealth,
		Metrics:       metricsHandler,
		CORS:          corsCfg,
		IsDevelopment: cfg.IsDevelopment(),
		MaxBodyBytes:  cfg.MaxRequestBodySize,
	})

	// Create and run server
	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("store", func(ctx context.Context) error {
		db.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(ctx context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"storage", cfg.StorageDriver,
		"metrics", cfg.MetricsEnabled,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStore connects the configured storage backend, applying migrations
// first when asked to. Failures are logged here.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store, error) {
	if cfg.UsesMemoryStore() {
		logger.Warn("using in-memory storage; data is lost on restart")
		return repository.NewMemoryStore(), nil
	}

	if cfg.MigrateOnStart {
		if err := migrate.Up(ctx, cfg.DatabaseURL); err != nil {
			logger.Error(
				"failed to apply migrations",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			return nil, err
		}
		logger.Info("migrations applied")
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return nil, err
	}
	logger.Info("connected to database")
	return repo, nil
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
