package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-agent/internal/models"
	"alfredoptarigan/resume-agent/internal/services"
)

type ChatHandler struct {
	agent services.ChatAgent
}

func NewChatHandler(agent services.ChatAgent) *ChatHandler {
	return &ChatHandler{
		agent: agent,
	}
}

func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	if h.agent == nil {
		return respondUnavailable(c)
	}

	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, "", &models.InvalidParameterError{Name: "body", Message: "invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return respondError(c, "", &models.InvalidParameterError{Name: "message", Message: "must not be empty"})
	}

	reply, sessionID, err := h.agent.Send(c.UserContext(), req.SessionID, req.Message)
	if err != nil {
		return respondError(c, "Chat failed", err)
	}

	return c.JSON(models.ChatResponse{
		Success:   true,
		SessionID: sessionID,
		Response:  reply,
	})
}
