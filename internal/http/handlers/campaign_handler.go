package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/omer-studio/backend/internal/http/dto"
	"github.com/omer-studio/backend/internal/services"
	"go.uber.org/zap"
)

type CampaignHandler struct {
	campaignService *services.CampaignService
	log             *zap.Logger
}

func NewCampaignHandler(campaignService *services.CampaignService, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService, log: log}
}

func (h *CampaignHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	runID, err := h.campaignService.RunCampaign(services.CampaignInput{
		ProductImages: req.ProductImages,
		Market:        req.Market,
		Dialect:       req.Dialect,
		Reason:        req.Reason,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.SuccessResponse{OK: true, Data: dto.RunCreatedResponse{RunID: runID}})
}

func (h *CampaignHandler) UpdatePost(c *fiber.Ctx) error {
	day, err := strconv.Atoi(c.Params("day"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid day"})
	}

	var req dto.UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	run, err := h.campaignService.UpdatePostContent(c.Params("id"), day, req.Content)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: run})
}
