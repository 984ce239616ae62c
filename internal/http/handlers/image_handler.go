package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/omer-studio/backend/internal/http/dto"
	"github.com/omer-studio/backend/internal/services"
	"go.uber.org/zap"
)

type ImageHandler struct {
	imageService *services.ImageService
	log          *zap.Logger
}

func NewImageHandler(imageService *services.ImageService, log *zap.Logger) *ImageHandler {
	return &ImageHandler{imageService: imageService, log: log}
}

func (h *ImageHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	image, err := h.imageService.Generate(c.Context(), services.GenerateInput{
		Prompt:      req.Prompt,
		Size:        req.Size,
		AspectRatio: req.AspectRatio,
		RefImage:    req.RefImage,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.ImageResponse{Image: image}})
}

func (h *ImageHandler) Edit(c *fiber.Ctx) error {
	var req dto.EditImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	result, err := h.imageService.Edit(c.Context(), req.Image, req.Prompt)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: result})
}

func (h *ImageHandler) Mimic(c *fiber.Ctx) error {
	var req dto.MimicDesignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	image, err := h.imageService.Mimic(c.Context(), req.ProductImage, req.StyleImage, req.Prompt)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.ImageResponse{Image: image}})
}
