package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/draftguard/draftguard-agent/internal/config"
	"github.com/draftguard/draftguard-agent/internal/database"
	"github.com/draftguard/draftguard-agent/internal/handler"
	"github.com/draftguard/draftguard-agent/internal/middleware"
	"github.com/draftguard/draftguard-agent/internal/poller"
	"github.com/draftguard/draftguard-agent/internal/remote"
	"github.com/draftguard/draftguard-agent/internal/router"
	"github.com/draftguard/draftguard-agent/internal/service"
	"github.com/draftguard/draftguard-agent/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	sessions, err := session.NewStore(cfg.TokenPath, logger)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}

	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer cache.Close()
	}

	remoteClient := remote.NewClient(cfg.RemoteBaseURL, cfg.RemoteTimeout, sessions, logger)

	checkPoller := poller.New("dashboard", remoteClient, cache, cfg.SnapshotCacheTTL, cfg.DashboardInterval, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	dashboardService := service.NewDashboardService(checkPoller, cfg.ProgressWindow, logger)
	submitService := service.NewSubmitService(remoteClient, checkPoller, cfg.MaxUploadBytes(), logger)
	purgeService := service.NewPurgeService(remoteClient, checkPoller, cfg.ConfirmTicketTTL, logger)
	accountService := service.NewAccountService(remoteClient, logger)
	apiKeyService := service.NewAPIKeyService(remoteClient, validate, logger)
	blobService := service.NewBlobService(remoteClient, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    int(cfg.MaxUploadBytes()) + 1024*1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		Sessions:         sessions,
		DashboardHandler: handler.NewDashboardHandler(dashboardService, logger),
		SubmitHandler:    handler.NewSubmitHandler(submitService, logger),
		PurgeHandler:     handler.NewPurgeHandler(purgeService, validate, logger),
		BlobHandler:      handler.NewBlobHandler(blobService, logger),
		AccountHandler:   handler.NewAccountHandler(accountService, logger),
		APIKeyHandler:    handler.NewAPIKeyHandler(apiKeyService, logger),
	})

	pollCtx, stopPolling := context.WithCancel(context.Background())
	checkPoller.Start(pollCtx)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, func() {
		// Stop the poller before the server so no timer outlives the views
		// it feeds.
		stopPolling()
		checkPoller.Stop()
	})
}

func waitForShutdown(app *fiber.App, teardown func()) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	teardown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("agent stopped")
}
