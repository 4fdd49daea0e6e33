package main

import (
	"context"
	"log"
	"os"

	"teslo/internal/config"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	// --- Wire store, broker, cache and HTTP ---
	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if cfg.SeedOnStart {
		if err := app.seedOnStart(ctx, cfg.SeedOwnerEmail); err != nil {
			logger.Error("startup seed failed", zap.Error(err))
		}
	}

	if err := app.startConsumer(); err != nil {
		logger.Error("failed to start catalog event consumer", zap.Error(err))
	}

	// --- Start HTTP Server ---
	go func() {
		logger.Info("starting server", zap.String("port", cfg.AppPort))
		if err := app.http.Listen(cfg.AppPort); err != nil {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		ctx,
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"teslo": func(ctx context.Context) error {
				logger.Info("shutting down server")
				if err := app.http.ShutdownWithContext(ctx); err != nil {
					logger.Warn("error during Fiber shutdown", zap.Error(err))
				}
				return app.close()
			},
		},
	)

	exitCode := <-wait
	logger.Info("server stopped", zap.Int("exit_code", exitCode))
	_ = logger.Sync()
	os.Exit(exitCode)
}

// newLogger builds a production zap logger at the given level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}
