package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/omer-studio/backend/internal/http/dto"
	"github.com/omer-studio/backend/internal/repositories"
	"go.uber.org/zap"
)

type AuditHandler struct {
	auditRepo *repositories.AuditRepo
	log       *zap.Logger
}

func NewAuditHandler(auditRepo *repositories.AuditRepo, log *zap.Logger) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo, log: log}
}

// GetByEntity lists the audit trail of one entity, newest first.
func (h *AuditHandler) GetByEntity(c *fiber.Ctx) error {
	entityType := c.Query("entity_type")
	entityID := c.Query("entity_id")
	if entityType == "" || entityID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "entity_type and entity_id are required"})
	}

	limit, offset := 50, 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}

	logs, err := h.auditRepo.GetByEntity(c.Context(), entityType, entityID, limit, offset)
	if err != nil {
		h.log.Error("audit lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: logs})
}
