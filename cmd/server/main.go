package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leomatch/leomatch-backend/internal/config"
	"github.com/leomatch/leomatch-backend/internal/infrastructure/container"
	"github.com/leomatch/leomatch-backend/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Server.Env, cfg.Logging.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Initialize dependency injection container
	app, err := container.NewContainer(cfg, log)
	if err != nil {
		log.Fatalw("failed to initialize application", "error", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Errorw("error closing application", "error", err)
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		if err := app.Server.Start(); err != nil {
			log.Errorw("server error", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	log.Infow("server started", "host", cfg.Server.Host, "port", cfg.Server.Port)

	// Wait for interrupt signal
	<-quit

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		log.Errorw("server shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server exited properly")
}
