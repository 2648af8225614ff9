package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"lifeexp/internal"
	"lifeexp/internal/api"
	"lifeexp/internal/config"
	"lifeexp/internal/container"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not read .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	c, err := container.New(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create container: %v", err)
	}
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c.Preload(ctx)
	if err := api.NewApp(c).Start(ctx, ":"+cfg.API.Port); err != nil {
		logger.Error("API server failed: %v", err)
		c.Close()
		os.Exit(1)
	}
}
