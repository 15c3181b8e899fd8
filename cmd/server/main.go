// Package main implements the entry point for the topspin API server, which
// runs AI video assessments of tennis play and serves the resulting score
// history to the WeChat mini-program client.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/topspin/topspin-api/internal/config"
	"github.com/topspin/topspin-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if *migrateCmd != "" {
		if err := runMigrations(cfg, *migrateCmd); err != nil {
			appLogger.Error("Migration failed", "command", *migrateCmd, "error", err)
			log.Fatalf("Migration failed: %v", err)
		}
		appLogger.Info("Migration completed", "command", *migrateCmd)
		return
	}

	app, err := newApplication(context.Background(), cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to build application", "error", err)
		log.Fatalf("Failed to build application: %v", err)
	}
	defer app.cleanup()

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		appLogger.Error("Server exited with error", "error", err)
		log.Fatalf("Server exited with error: %v", err)
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"model", cfg.LLM.ModelName)

	return cfg, appLogger, nil
}
