package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"invoicestats/internal/cli"
	apphttp "invoicestats/internal/http"
	applog "invoicestats/internal/log"
	"invoicestats/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	repo, err := cli.InitSQLite(ctx, logger, cfg.InvoiceDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, applog.FieldDBPath, cfg.InvoiceDBPath)
		os.Exit(1)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close SQLite repository", applog.FieldError, err)
		}
	}()

	reports := services.NewReportService(repo)
	srv := apphttp.NewServer(cfg.Addr(), apphttp.Readers{
		Stats:     reports,
		Invoices:  reports,
		Directory: reports,
		Health:    repo,
	}, apphttp.Options{
		RequestTimeout:    cfg.RequestTimeout,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimitPerMin:   cfg.RateLimitPerMin,
		Logger:            logger,
	})
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting invoicestats server",
			applog.FieldOperation, applog.OpStartup,
			"port", cfg.Port,
			applog.FieldDBPath, cfg.InvoiceDBPath,
			"rate_limit_per_min", cfg.RateLimitPerMin)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	start := time.Now()
	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully", "uptime", time.Since(start).Round(time.Second).String())
}
