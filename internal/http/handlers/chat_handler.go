package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/omer-studio/backend/internal/http/dto"
	"github.com/omer-studio/backend/internal/middleware"
	"github.com/omer-studio/backend/internal/services"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *services.ChatService
	log         *zap.Logger
}

func NewChatHandler(chatService *services.ChatService, log *zap.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, log: log}
}

func (h *ChatHandler) CreateSession(c *fiber.Ctx) error {
	id, token, err := h.chatService.CreateSession()
	if err != nil {
		h.log.Error("create session failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: dto.SessionResponse{SessionID: id, Token: token}})
}

// SendMessage answers one turn. The token names the session; the path id
// must agree with it.
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	if c.Params("id") != sessionID {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "token does not match session"})
	}

	var req dto.ChatMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	reply, err := h.chatService.SendMessage(c.Context(), sessionID, req.Text, req.Images)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: reply})
}

func (h *ChatHandler) History(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	if c.Params("id") != sessionID {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "token does not match session"})
	}

	history, err := h.chatService.History(sessionID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: history})
}
