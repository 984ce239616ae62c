package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/omer-studio/backend/internal/http/dto"
	"github.com/omer-studio/backend/internal/services"
	"go.uber.org/zap"
)

type RunHandler struct {
	runs *services.RunManager
	log  *zap.Logger
}

func NewRunHandler(runs *services.RunManager, log *zap.Logger) *RunHandler {
	return &RunHandler{runs: runs, log: log}
}

func (h *RunHandler) Get(c *fiber.Ctx) error {
	run, ok := h.runs.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "run not found"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: run})
}

func (h *RunHandler) Cancel(c *fiber.Ctx) error {
	if err := h.runs.Cancel(c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
