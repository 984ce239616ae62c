package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/omer-studio/backend/internal/config"
	"github.com/omer-studio/backend/internal/db"
	"github.com/omer-studio/backend/internal/events"
	"github.com/omer-studio/backend/internal/gemini"
	apphttp "github.com/omer-studio/backend/internal/http"
	"github.com/omer-studio/backend/internal/http/handlers"
	"github.com/omer-studio/backend/internal/repositories"
	"github.com/omer-studio/backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Gemini gateway
	gateway := gemini.New(gemini.Options{
		APIKeys:      cfg.GeminiAPIKeys,
		BaseURL:      cfg.GeminiBaseURL,
		ImageModel:   cfg.GeminiImageModel,
		TextModel:    cfg.GeminiTextModel,
		EditModel:    cfg.GeminiEditModel,
		VideoModel:   cfg.GeminiVideoModel,
		PollInterval: cfg.VideoPollInterval,
		PollTimeout:  cfg.VideoPollTimeout,
		Log:          log,
	})

	// Repositories
	auditRepo := repositories.NewAuditRepo(pool)
	libraryRepo := repositories.NewLibraryRepo(rdb, log)

	// Events
	bus := events.NewRedisBus(rdb, log)

	// Media store
	media, err := services.NewMediaStore(cfg.MediaDir)
	if err != nil {
		log.Fatal("failed to prepare media dir", zap.Error(err))
	}

	// Services
	runs := services.NewRunManager(bus, cfg.RunRetention, log)
	imageService := services.NewImageService(gateway, auditRepo, log)
	videoService := services.NewVideoService(gateway, runs, media, auditRepo, log)
	campaignService := services.NewCampaignService(gateway, runs, auditRepo, log)
	photoshootService := services.NewPhotoshootService(gateway, runs, auditRepo, log)
	chatService := services.NewChatService(gateway, cfg.SessionSecret, cfg.SessionTTL, auditRepo, log)
	libraryService := services.NewLibraryService(ctx, libraryRepo, auditRepo, log)
	exportService := services.NewExportService(log)

	// Handlers
	imageHandler := handlers.NewImageHandler(imageService, log)
	videoHandler := handlers.NewVideoHandler(videoService, log)
	campaignHandler := handlers.NewCampaignHandler(campaignService, log)
	photoshootHandler := handlers.NewPhotoshootHandler(photoshootService, log)
	runHandler := handlers.NewRunHandler(runs, log)
	chatHandler := handlers.NewChatHandler(chatService, log)
	libraryHandler := handlers.NewLibraryHandler(libraryService, log)
	exportHandler := handlers.NewExportHandler(exportService, log)
	auditHandler := handlers.NewAuditHandler(auditRepo, log)
	wsHub := handlers.NewWSHub(bus, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: 64 * 1024 * 1024, // product photo uploads arrive as data URIs
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, log, rdb, cfg.MediaDir, chatService,
		imageHandler, videoHandler, campaignHandler, photoshootHandler,
		runHandler, chatHandler, libraryHandler, exportHandler, auditHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
