package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/omer-studio/backend/internal/export"
	"github.com/omer-studio/backend/internal/http/dto"
	"github.com/omer-studio/backend/internal/models"
	"github.com/omer-studio/backend/internal/services"
	"go.uber.org/zap"
)

type ExportHandler struct {
	exportService *services.ExportService
	log           *zap.Logger
}

func NewExportHandler(exportService *services.ExportService, log *zap.Logger) *ExportHandler {
	return &ExportHandler{exportService: exportService, log: log}
}

func (h *ExportHandler) Zip(c *fiber.Ctx) error {
	var req dto.ExportZipRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	items := make([]export.ZipItem, 0, len(req.Images))
	for _, img := range req.Images {
		items = append(items, export.ZipItem{Name: img.Name, Data: img.Data})
	}

	data, name, err := h.exportService.BuildZip(items)
	if err != nil {
		h.log.Warn("zip export failed", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(data)
}

func (h *ExportHandler) CampaignPDF(c *fiber.Ctx) error {
	var req dto.ExportPDFRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	var campaign models.CampaignResult
	if err := json.Unmarshal(req.Campaign, &campaign); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign payload"})
	}

	data, name, err := h.exportService.RenderCampaignPDF(&campaign)
	if err != nil {
		h.log.Warn("pdf export failed", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(data)
}
