package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/omer-studio/backend/internal/http/dto"
	"github.com/omer-studio/backend/internal/services"
	"go.uber.org/zap"
)

type VideoHandler struct {
	videoService *services.VideoService
	log          *zap.Logger
}

func NewVideoHandler(videoService *services.VideoService, log *zap.Logger) *VideoHandler {
	return &VideoHandler{videoService: videoService, log: log}
}

func (h *VideoHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	runID, err := h.videoService.GenerateVideo(services.VideoInput{
		Prompt:      req.Prompt,
		Image:       req.Image,
		AspectRatio: req.AspectRatio,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.SuccessResponse{OK: true, Data: dto.RunCreatedResponse{RunID: runID}})
}
