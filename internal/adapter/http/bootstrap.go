package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"todoapi/internal/adapter/database"
	"todoapi/internal/adapter/http/routes"
	"todoapi/internal/shared"
	"todoapi/pkg/config"
)

// StartServer wires the container, serves until ctx is cancelled, then drains
// in-flight requests before returning.
func StartServer(ctx context.Context, db *database.DB, cfg *config.AppConfig, metrics *shared.AppMetrics, logger *config.AppLogger) error {
	container := NewContainer(db, cfg, metrics)

	router := routes.SetupRouter(routes.HandlersConfig{
		AuthService: container.AuthUseCase,
		AuthHandler: container.AuthHandler,
		TodoHandler: container.TodoHandler,
	}, metrics, logger, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.InfoCtx(ctx, "server starting",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.Bool("rate_limit_enabled", cfg.RateLimitEnabled))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.InfoCtx(shutdownCtx, "server shutting down")

	return srv.Shutdown(shutdownCtx)
}
