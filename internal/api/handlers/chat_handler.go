package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/jepco-agent/backend/internal/chat"
	"github.com/jepco-agent/backend/internal/metrics"
	"github.com/jepco-agent/backend/pkg/logger"
)

type ChatHandler struct {
	service *chat.Service
}

func NewChatHandler(service *chat.Service) *ChatHandler {
	return &ChatHandler{
		service: service,
	}
}

func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req struct {
		Message   string `json:"message"`
		SessionID string `json:"session_id"`
		Language  string `json:"language"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	response, err := h.service.Chat(c.Context(), chat.ChatRequest{
		Message:   req.Message,
		SessionID: req.SessionID,
		Language:  req.Language,
	})
	if err != nil {
		metrics.ChatTotal.WithLabelValues("error").Inc()
		logger.Error("Failed to process chat message", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process message",
		})
	}

	return c.JSON(response)
}

func (h *ChatHandler) GetSessionMessages(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session id is required",
		})
	}

	messages, err := h.service.History(sessionID)
	if err != nil {
		logger.Error("Failed to load session messages", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load messages",
		})
	}

	return c.JSON(fiber.Map{
		"session_id": sessionID,
		"messages":   messages,
	})
}

func (h *ChatHandler) GetWelcome(c *fiber.Ctx) error {
	lang, message := h.service.Welcome(c.Query("language"))

	return c.JSON(fiber.Map{
		"language": lang,
		"message":  message,
	})
}
