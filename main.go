package main

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"lifeexp/internal"
	"lifeexp/internal/api"
	"lifeexp/internal/config"
	"lifeexp/internal/container"
	"lifeexp/ui"
)

//go:embed ui/templates/*.html
var embeddedFiles embed.FS

func main() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not read .env: %v", err)
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level))
	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create container: %v", err)
	}
	defer appContainer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer.Preload(ctx)

	uiFiles, err := fs.Sub(embeddedFiles, "ui")
	if err != nil {
		log.Fatalf("Failed to open embedded templates: %v", err)
	}
	setGinMode(appConfig.Server.GinMode)
	server, err := ui.NewServer(appContainer, uiFiles)
	if err != nil {
		log.Fatalf("Failed to create UI server: %v", err)
	}
	apiApp := api.NewApp(appContainer)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Start(gctx, ":"+appConfig.Server.Port) })
	g.Go(func() error { return apiApp.Start(gctx, ":"+appConfig.API.Port) })

	if err := g.Wait(); err != nil {
		logger.Error("server stopped: %v", err)
		appContainer.Close()
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
