// Package cli provides the startup steps shared by cmd/invoicestats and
// cmd/invoicectl.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"invoicestats/internal/config"
	applog "invoicestats/internal/log"
	"invoicestats/internal/storage"
)

// SetupLogger builds the application logger at the given level and sets it
// as the slog default. Unknown levels fall back to info with a warning.
func SetupLogger(level string) *applog.Logger {
	return SetupLoggerTo(os.Stdout, level)
}

// SetupLoggerTo is SetupLogger writing to out. Operator commands log to
// stderr so their stdout stays machine readable.
func SetupLoggerTo(out io.Writer, level string) *applog.Logger {
	cfg := applog.DefaultConfig()
	lvl, err := applog.ParseLevel(level)
	cfg.Level = lvl
	cfg.Output = out

	logger := applog.New(cfg)
	applog.SetDefault(logger)
	if err != nil {
		logger.Warn("Falling back to info log level", "error", err)
	}
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitSQLite migrates and opens the invoice database.
func InitSQLite(ctx context.Context, logger *applog.Logger, dbPath string) (*storage.SQLiteRepository, error) {
	repo, err := storage.NewSQLiteRepository(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite repository at %s: %w", dbPath, err)
	}
	logger.Info("SQLite repository ready", applog.FieldDBPath, dbPath)
	return repo, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
