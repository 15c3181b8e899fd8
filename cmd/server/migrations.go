package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/topspin/topspin-api/internal/config"
)

// migrationsDir is the on-disk directory holding goose SQL migrations,
// relative to the server's working directory.
const migrationsDir = "migrations"

// slogGooseLogger adapts goose's logger interface to structured logging.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...), "source", "goose")
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), "source", "goose")
}

// runMigrations executes the given goose command (up, down, status) against
// the configured database.
func runMigrations(cfg *config.Config, command string) error {
	goose.SetLogger(&slogGooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			slog.Error("Failed to close migration database connection", "error", cerr)
		}
	}()

	switch command {
	case "up":
		err = goose.Up(db, migrationsDir)
	case "down":
		err = goose.Down(db, migrationsDir)
	case "status":
		err = goose.Status(db, migrationsDir)
	default:
		return fmt.Errorf("unknown migration command: %q", command)
	}
	if err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	return nil
}
