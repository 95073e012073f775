// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// MinJWTSecretLength is the shortest accepted signing secret, in bytes.
const MinJWTSecretLength = 32

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Storage
	StorageDriver  string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"true"`

	// Cache (Redis). Empty disables the stats cache.
	RedisURL      string        `env:"REDIS_URL"`
	StatsCacheTTL time.Duration `env:"STATS_CACHE_TTL" envDefault:"5m"`

	// Tokens. The secret is removed from the process environment once read.
	JWTSecret   string        `env:"JWT_SECRET,required,unset"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	TokenIssuer string        `env:"TOKEN_ISSUER" envDefault:"fintrack"`

	// Stats
	ChartWindowMonths int `env:"CHART_WINDOW_MONTHS" envDefault:"10"`

	// Observability
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string `env:"LOG_FORMAT" envDefault:"json"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"false"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UsesMemoryStore reports whether records live in process memory.
func (c *Config) UsesMemoryStore() bool {
	return c.StorageDriver == DriverMemory
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate reports every cross-field problem at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.StorageDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORAGE_DRIVER=postgres"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, c.StorageDriver))
	}

	if len(c.JWTSecret) < MinJWTSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", MinJWTSecretLength))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.StatsCacheTTL <= 0 {
		errs = append(errs, errors.New("STATS_CACHE_TTL must be positive"))
	}
	if c.ChartWindowMonths < 1 {
		errs = append(errs, errors.New("CHART_WINDOW_MONTHS must be at least 1"))
	}
	if c.AppPort < 1 || c.AppPort > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT out of range: %d", c.AppPort))
	}
	if c.MaxRequestBodySize <= 0 {
		errs = append(errs, errors.New("MAX_REQUEST_BODY_SIZE must be positive"))
	}

	return errors.Join(errs...)
}

// Load reads an optional .env file, parses environment variables and
// validates the result.
func Load() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
