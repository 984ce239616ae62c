package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/omer-studio/backend/internal/http/dto"
	"github.com/omer-studio/backend/internal/models"
	"github.com/omer-studio/backend/internal/services"
	"go.uber.org/zap"
)

type LibraryHandler struct {
	library *services.LibraryService
	log     *zap.Logger
}

func NewLibraryHandler(library *services.LibraryService, log *zap.Logger) *LibraryHandler {
	return &LibraryHandler{library: library, log: log}
}

func (h *LibraryHandler) List(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: h.library.List(c.Context())})
}

func (h *LibraryHandler) Save(c *fiber.Ctx) error {
	var req dto.SaveItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}
	if req.Type != models.SavedTypeCampaign && req.Type != models.SavedTypePhotoshoot {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "type must be campaign or photoshoot"})
	}
	if len(req.Data) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "data is required"})
	}

	item, err := h.library.Save(c.Context(), req.Type, req.Name, req.Data)
	if err != nil {
		h.log.Error("library save failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: item})
}

func (h *LibraryHandler) Get(c *fiber.Ctx) error {
	item, err := h.library.Load(c.Context(), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: item})
}

func (h *LibraryHandler) Delete(c *fiber.Ctx) error {
	if err := h.library.Delete(c.Context(), c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
