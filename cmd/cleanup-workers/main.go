package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	workersapp "github.com/cupcake/backend/internal/application/workers"
	"github.com/cupcake/backend/internal/infrastructure/config"
	"github.com/cupcake/backend/internal/infrastructure/logger"
	"github.com/cupcake/backend/internal/infrastructure/workers"
	"go.uber.org/zap"
)

func main() {
	// Parse flags
	var (
		timeoutSeconds int
		dryRun         bool
		logLevel       string
	)

	flag.IntVar(&timeoutSeconds, "timeout", 0, "Heartbeat age in seconds past which a worker counts as dead (default: from config, 300)")
	flag.BoolVar(&dryRun, "dry-run", false, "Report dead workers without deregistering them")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	timeout := cfg.Workers.HeartbeatTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}

	// Connect to the shared worker registry
	registry, err := workers.NewRedisRegistry(workers.RedisRegistryConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, log)
	if err != nil {
		log.Fatal("Failed to connect to worker registry", zap.Error(err))
	}
	defer func() {
		if err := registry.Close(); err != nil {
			log.Error("Error closing worker registry", zap.Error(err))
		}
	}()

	cleanupService := workersapp.NewCleanupService(registry, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := cleanupService.Cleanup(ctx, workersapp.CleanupInput{
		Timeout: timeout,
		DryRun:  dryRun,
	})
	if err != nil {
		log.Fatal("Worker cleanup failed", zap.Error(err))
	}

	if dryRun {
		fmt.Printf("Dry run: %d checked, %d alive, %d dead (nothing removed)\n",
			result.Checked, result.Alive, result.Dead)
	} else {
		fmt.Printf("Cleanup done: %d checked, %d alive, %d dead, %d removed\n",
			result.Checked, result.Alive, result.Dead, result.Removed)
	}
	for _, name := range result.DeadWorkers {
		fmt.Printf("  dead: %s\n", name)
	}
	for _, name := range result.NoHeartbeat {
		fmt.Printf("  no heartbeat (skipped): %s\n", name)
	}
}
