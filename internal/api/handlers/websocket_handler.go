package handlers

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/jepco-agent/backend/internal/chat"
	"github.com/jepco-agent/backend/internal/metrics"
	"github.com/jepco-agent/backend/pkg/logger"
)

type WebSocketHandler struct {
	service *chat.Service
}

func NewWebSocketHandler(service *chat.Service) *WebSocketHandler {
	return &WebSocketHandler{
		service: service,
	}
}

// HandleConnection runs one chat conversation over a websocket. Each
// incoming message frame produces a status frame followed by the reply,
// streamed word by word the way the browser widget renders it.
func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")
	metrics.ActiveSessions.Inc()

	defer func() {
		c.Close()
		metrics.ActiveSessions.Dec()
		logger.Info("WebSocket connection closed")
	}()

	// The session id is assigned on the first exchange and reused for
	// the rest of the connection.
	sessionID := ""

	for {
		var msg struct {
			Type      string `json:"type"`
			Content   string `json:"content"`
			SessionID string `json:"session_id"`
		}

		err := c.ReadJSON(&msg)
		if err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		if msg.Type != "message" || msg.Content == "" {
			continue
		}

		if msg.SessionID != "" {
			sessionID = msg.SessionID
		}

		response, err := h.respond(c, msg.Content, sessionID)
		if err != nil {
			logger.Error("Failed to process websocket message", zap.Error(err))
			h.sendError(c, "Failed to process message")
			continue
		}
		sessionID = response.SessionID
	}
}

func (h *WebSocketHandler) respond(c *websocket.Conn, message, sessionID string) (*chat.ChatResponse, error) {
	h.sendFrame(c, "status", "Processing message...")

	response, err := h.service.Chat(context.Background(), chat.ChatRequest{
		Message:   message,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, err
	}

	words := splitIntoWords(response.Response)
	for i, word := range words {
		chunk := word
		if i < len(words)-1 && word != "\n" {
			chunk += " "
		}
		if err := h.sendFrame(c, "chunk", chunk); err != nil {
			return nil, err
		}
	}

	if err := h.sendComplete(c, response); err != nil {
		return nil, err
	}

	return response, nil
}

func (h *WebSocketHandler) sendFrame(c *websocket.Conn, msgType, content string) error {
	msg := map[string]interface{}{
		"type":    msgType,
		"content": content,
	}

	return c.WriteJSON(msg)
}

func (h *WebSocketHandler) sendComplete(c *websocket.Conn, response *chat.ChatResponse) error {
	msg := map[string]interface{}{
		"type":       "complete",
		"message_id": response.ID,
		"session_id": response.SessionID,
		"language":   response.Language,
		"direction":  response.Direction,
		"latency_ms": response.LatencyMS,
	}

	return c.WriteJSON(msg)
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, errorMsg string) {
	msg := map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	}

	c.WriteJSON(msg)
}

func splitIntoWords(text string) []string {
	words := []string{}
	currentWord := ""

	for _, char := range text {
		if char == ' ' || char == '\n' {
			if currentWord != "" {
				words = append(words, currentWord)
				currentWord = ""
			}
			if char == '\n' {
				words = append(words, "\n")
			}
		} else {
			currentWord += string(char)
		}
	}

	if currentWord != "" {
		words = append(words, currentWord)
	}

	return words
}
