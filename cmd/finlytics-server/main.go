package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soltixdb/finlytics/internal/cache"
	"github.com/soltixdb/finlytics/internal/config"
	"github.com/soltixdb/finlytics/internal/logging"
	"github.com/soltixdb/finlytics/internal/metrics"
	"github.com/soltixdb/finlytics/internal/queue"
	"github.com/soltixdb/finlytics/internal/router"
	"github.com/soltixdb/finlytics/internal/services"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewFromConfig(cfg.Logging, "finlytics-server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Finlytics server starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime, "production", cfg.IsProduction())

	// Result cache (a no-op when disabled)
	resultCache, err := cache.New(cfg.Cache)
	if err != nil {
		logger.Fatal("Failed to initialize cache", "type", cfg.Cache.Type, "error", err)
	}
	defer func() { _ = resultCache.Close() }()
	logger.Info("Result cache ready", "enabled", cfg.Cache.Enabled, "type", cfg.Cache.Type, "ttl", cfg.Cache.TTL)

	// Job status lives apart from results so result traffic cannot evict it
	jobStore, err := cache.New(cfg.Jobs.StoreConfig())
	if err != nil {
		logger.Fatal("Failed to initialize job store", "type", cfg.Jobs.Type, "error", err)
	}
	defer func() { _ = jobStore.Close() }()
	logger.Info("Job store ready", "type", cfg.Jobs.Type, "ttl", cfg.Jobs.TTL)

	logger.Info("Connecting to Queue", "type", cfg.Queue.Type, "url", cfg.Queue.URL)
	queueClient, err := queue.NewQueue(cfg.Queue)
	if err != nil {
		logger.Fatal("Failed to connect to Queue", "error", err)
	}
	logger.Info("Queue connection established")

	analytics := services.NewAnalyticsService(logger, resultCache, cfg.Analytics)
	jobs := services.NewJobService(logger, queueClient, jobStore, analytics, cfg.Queue.Subject)

	var rec *metrics.Recorder
	if cfg.Metrics.Enabled {
		rec = metrics.New()
		analytics.SetMetrics(rec)
		jobs.SetMetrics(rec)
		logger.Info("Metrics enabled", "path", cfg.Metrics.Path)
	}

	if err := jobs.Start(queueClient); err != nil {
		logger.Fatal("Failed to start job worker", "error", err)
	}

	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	app := router.New(logger, analytics, jobs, rec, *cfg)

	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Stop consuming before the stores close
	if err := queueClient.Close(); err != nil {
		logger.Error("Failed to close queue", "error", err)
	}

	logger.Info("Server exited")
}
