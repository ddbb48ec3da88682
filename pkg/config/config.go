package config

import (
	"os"
	"strconv"
	"time"

	"todoapi/pkg/auth"
)

// AppConfig is read once from the environment at startup; nothing else in
// the process reaches for os.Getenv.
type AppConfig struct {
	Environment string
	Port        string
	MetricsPort string

	DatabaseDriver string
	DatabaseDSN    string
	MigrationsPath string
	LogQueries     bool

	JWTSecret string
	TokenTTL  time.Duration

	RateLimitEnabled bool
	OTLPEndpoint     string
}

func Load() *AppConfig {
	cfg := &AppConfig{
		Environment:      getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		MetricsPort:      getEnv("METRICS_PORT", "9091"),
		DatabaseDriver:   getEnv("DATABASE_DRIVER", "sqlite3"),
		DatabaseDSN:      getEnv("DATABASE_DSN", "database.db?_foreign_keys=on"),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", "db/migrations"),
		LogQueries:       getBool("LOG_QUERIES", false),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		TokenTTL:         getDuration("TOKEN_TTL", auth.DefaultTTL),
		RateLimitEnabled: getBool("RATE_LIMIT_ENABLED", true),
		OTLPEndpoint:     getEnv("OTLP_ENDPOINT", "localhost:4317"),
	}

	if cfg.DatabaseDriver == "pgx" {
		cfg.MigrationsPath = getEnv("MIGRATIONS_PATH", "infra/migrations")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func getBool(key string, fallback bool) bool {
	value := os.Getenv(key)

	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)

	if err != nil {
		return fallback
	}

	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)

	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)

	if err != nil {
		return fallback
	}

	return parsed
}
