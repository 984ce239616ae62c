package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/omer-studio/backend/internal/gemini"
	"github.com/omer-studio/backend/internal/http/dto"
	"github.com/omer-studio/backend/internal/services"
)

// serviceError maps service and gateway failures onto HTTP statuses. Local
// validation keeps its Arabic message; gateway failures surface the
// user-facing translation of their kind.
func serviceError(c *fiber.Ctx, err error) error {
	var mi *services.MissingInputError
	if errors.As(err, &mi) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: mi.Message})
	}
	switch {
	case errors.Is(err, services.ErrRunNotFound),
		errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrPostNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrRunFinished):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	var ge *gemini.Error
	if errors.As(err, &ge) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: gemini.UserMessage(err)})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
}
