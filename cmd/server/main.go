package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/radar-mms/ccl/internal/cache"
	"github.com/radar-mms/ccl/internal/config"
	"github.com/radar-mms/ccl/internal/httpapi"
	"github.com/radar-mms/ccl/internal/logging"
	"github.com/radar-mms/ccl/internal/services"
	"github.com/radar-mms/ccl/internal/version"
)

func main() {
	configPath := flag.String("config", "ccl.yaml", "Configuration file (optional)")
	flag.Parse()

	// Configuration is layered from defaults, the YAML file and CCL__ env vars
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	version.Describe(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cacheInstance := cache.NewCache()
	cacheInstance.StartPeriodicCleanup(ctx, cfg.Planner.CleanupInterval, logger)

	planner := services.NewPlannerService(cacheInstance, &cfg.Planner, logger)
	app := httpapi.NewApp(&httpapi.Dependencies{
		Planner: planner,
		Config:  cfg,
		Logger:  logger,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("CCL planner server starting", "addr", addr, "planner", planner.String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}
