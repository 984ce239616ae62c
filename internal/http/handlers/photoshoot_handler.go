package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/omer-studio/backend/internal/http/dto"
	"github.com/omer-studio/backend/internal/services"
	"go.uber.org/zap"
)

type PhotoshootHandler struct {
	photoshootService *services.PhotoshootService
	log               *zap.Logger
}

func NewPhotoshootHandler(photoshootService *services.PhotoshootService, log *zap.Logger) *PhotoshootHandler {
	return &PhotoshootHandler{photoshootService: photoshootService, log: log}
}

func (h *PhotoshootHandler) Generate(c *fiber.Ctx) error {
	var req dto.GeneratePhotoshootRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	runID, err := h.photoshootService.RunPhotoshoot(services.PhotoshootInput{
		ProductImage: req.ProductImage,
		Angles:       req.Angles,
		Scenes:       req.Scenes,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.SuccessResponse{OK: true, Data: dto.RunCreatedResponse{RunID: runID}})
}
