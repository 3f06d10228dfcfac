package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env            string        `env:"ENV" envDefault:"dev"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile        string        `env:"LOG_FILE"` // Optional rotated log file in addition to stdout
	Addr           string        `env:"ADDR" envDefault:"127.0.0.1:3000"`
	ShutdownGrace  time.Duration `env:"SHUTDOWN_GRACE" envDefault:"5s"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","` // Browser origins allowed to call the API
	Storage        StorageConfig
	Notifications  NotificationConfig
	Catalog        CatalogConfig
	Events         EventsConfig
	Sentry         SentryConfig
}

// StorageConfig selects where the engines keep their durable state.
type StorageConfig struct {
	Provider   string `env:"STORAGE_PROVIDER" envDefault:"local"` // "local", "sqlite" or "memory"
	Dir        string `env:"STORAGE_DIR" envDefault:"./.kinderkit"`
	SQLitePath string `env:"STORAGE_SQLITE_PATH" envDefault:"./.kinderkit/state.db"`
}

// NotificationConfig holds the two independent notification caps.
type NotificationConfig struct {
	// Recent is the size of the compact "recent" window.
	Recent int `env:"NOTIFICATIONS_RECENT" envDefault:"5"`

	// History is the retention cap of the full log. Oldest entries are evicted first.
	History int `env:"NOTIFICATIONS_HISTORY" envDefault:"50"`
}

// CatalogConfig points at the upstream catalog the view layer reads products from.
// When DatabaseURL is empty the built-in seed catalog is used.
type CatalogConfig struct {
	DatabaseURL string        `env:"CATALOG_DATABASE_URL"`
	RedisURL    string        `env:"CATALOG_REDIS_URL"`
	CacheTTL    time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"15m"`
	Timeout     time.Duration `env:"CATALOG_TIMEOUT" envDefault:"3s"`
	Migrate     bool          `env:"CATALOG_MIGRATE" envDefault:"false"` // Apply the dev schema and seed rows on startup
}

// EventsConfig enables publishing order events for other collaborators.
type EventsConfig struct {
	NATSURL string `env:"NATS_URL"`
	Subject string `env:"NATS_ORDER_SUBJECT" envDefault:"kinderkit.orders.confirmed"`
}

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN              string  `env:"SENTRY_DSN"`
	Enabled          bool    `env:"SENTRY_ENABLED" envDefault:"false"`
	Environment      string  `env:"SENTRY_ENVIRONMENT" envDefault:"development"`
	Release          string  `env:"SENTRY_RELEASE"`
	SampleRate       float64 `env:"SENTRY_SAMPLE_RATE" envDefault:"1.0"`
	TracesSampleRate float64 `env:"SENTRY_TRACES_SAMPLE_RATE" envDefault:"0.0"`
	Debug            bool    `env:"SENTRY_DEBUG" envDefault:"false"`
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	switch cfg.Storage.Provider {
	case "local", "sqlite", "memory":
	default:
		return fmt.Errorf("STORAGE_PROVIDER must be one of local, sqlite, memory (got %q)", cfg.Storage.Provider)
	}

	if cfg.Notifications.Recent < 1 || cfg.Notifications.History < 1 {
		return fmt.Errorf("NOTIFICATIONS_RECENT and NOTIFICATIONS_HISTORY must be positive")
	}
	if cfg.Notifications.Recent > cfg.Notifications.History {
		slog.Default().Warn("Recent window larger than history cap; clamping",
			slog.Int("recent", cfg.Notifications.Recent),
			slog.Int("history", cfg.Notifications.History),
		)
		cfg.Notifications.Recent = cfg.Notifications.History
	}

	if cfg.Catalog.RedisURL != "" && cfg.Catalog.DatabaseURL == "" {
		slog.Default().Warn("CATALOG_REDIS_URL ignored without CATALOG_DATABASE_URL")
	}

	return nil
}
