package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/middleware"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/service"
)

type ChatHandler struct {
	svc *service.ChatService
}

func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

const maxChatMessageLen = 2000

// Respond handles POST /api/chat
func (h *ChatHandler) Respond(c fiber.Ctx) error {
	var req struct {
		SessionID string `json:"sessionId,omitempty"`
		Message   string `json:"message"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "message is required")
	}
	if len(req.Message) > maxChatMessageLen {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "message too long")
	}

	reply, err := h.svc.Respond(c.Context(), req.SessionID, req.Message)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate reply")
	}

	return c.JSON(reply)
}

// History handles GET /api/chat/:sessionId
func (h *ChatHandler) History(c fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if sessionID == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "sessionId is required")
	}

	history := h.svc.History(sessionID)
	if history == nil {
		history = []service.ChatMessage{}
	}
	return c.JSON(fiber.Map{"sessionId": sessionID, "messages": history})
}
