package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"todoapi/internal/adapter/database"
	api "todoapi/internal/adapter/http"
	"todoapi/internal/shared"
	"todoapi/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	logger, err := config.NewAppLogger("todoapi")

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer logger.Sync()

	telemetry, err := shared.InitTelemetry(shared.TelemetryConfig{
		ServiceName:    "todoapi",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		MetricsPort:    cfg.MetricsPort,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})

	if err != nil {
		log.Fatal("Failed to initialize telemetry:", err)
	}

	defer telemetry.Shutdown(context.Background())

	metrics := shared.NewAppMetrics(telemetry.PrometheusRegistry)
	metrics.StartSystemMetrics(ctx)

	db, err := database.NewDB(database.Config{
		Driver:         cfg.DatabaseDriver,
		DSN:            cfg.DatabaseDSN,
		MigrationsPath: cfg.MigrationsPath,
		LogQueries:     cfg.LogQueries,
	})

	if err != nil {
		log.Fatal("Failed to open database:", err)
	}

	defer db.Close()

	if err := api.StartServer(ctx, db, cfg, metrics, logger); err != nil {
		log.Fatal("Server failed:", err)
	}
}
