package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/omer-studio/backend/internal/http/handlers"
	"github.com/omer-studio/backend/internal/middleware"
	"github.com/omer-studio/backend/internal/services"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	log *zap.Logger,
	rdb *redis.Client,
	mediaDir string,
	chatService *services.ChatService,
	imageHandler *handlers.ImageHandler,
	videoHandler *handlers.VideoHandler,
	campaignHandler *handlers.CampaignHandler,
	photoshootHandler *handlers.PhotoshootHandler,
	runHandler *handlers.RunHandler,
	chatHandler *handlers.ChatHandler,
	libraryHandler *handlers.LibraryHandler,
	exportHandler *handlers.ExportHandler,
	auditHandler *handlers.AuditHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Generated assets
	app.Static("/media", mediaDir)

	api := app.Group("/api/v1")

	// Generation endpoints hit the upstream model; cap the request rate.
	api.Use(middleware.RateLimitMiddleware(rdb, 60, time.Minute))

	// Meta (option lists for the pickers)
	metaHandler := handlers.NewMetaHandler()
	api.Get("/meta/angles", metaHandler.GetAngles)
	api.Get("/meta/scenes", metaHandler.GetScenes)
	api.Get("/meta/markets", metaHandler.GetMarkets)
	api.Get("/meta/dialects", metaHandler.GetDialects)
	api.Get("/meta/reasons", metaHandler.GetReasons)
	api.Get("/meta/image-options", metaHandler.GetImageOptions)

	// Single-shot image operations
	api.Post("/images/generate", imageHandler.Generate)
	api.Post("/images/edit", imageHandler.Edit)
	api.Post("/images/mimic", imageHandler.Mimic)

	// Video
	api.Post("/videos/generate", videoHandler.Generate)

	// Campaign
	api.Post("/campaigns/generate", campaignHandler.Generate)
	api.Patch("/campaigns/runs/:id/posts/:day", campaignHandler.UpdatePost)

	// Photoshoot
	api.Post("/photoshoots/generate", photoshootHandler.Generate)

	// Runs
	api.Get("/runs/:id", runHandler.Get)
	api.Delete("/runs/:id", runHandler.Cancel)

	// Chat
	api.Post("/chat/sessions", chatHandler.CreateSession)
	session := api.Group("/chat/sessions/:id", middleware.SessionMiddleware(chatService, log))
	session.Post("/messages", chatHandler.SendMessage)
	session.Get("/messages", chatHandler.History)

	// Library
	api.Get("/library", libraryHandler.List)
	api.Post("/library", libraryHandler.Save)
	api.Get("/library/:id", libraryHandler.Get)
	api.Delete("/library/:id", libraryHandler.Delete)

	// Export
	api.Post("/export/zip", exportHandler.Zip)
	api.Post("/export/pdf", exportHandler.CampaignPDF)

	// Audit trail
	api.Get("/audit", auditHandler.GetByEntity)

	// WebSocket (run progress)
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
