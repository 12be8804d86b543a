package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jepco-agent/backend/internal/language"
	"github.com/jepco-agent/backend/internal/llm"
	"github.com/jepco-agent/backend/internal/metrics"
	"github.com/jepco-agent/backend/internal/retrieval"
	"github.com/jepco-agent/backend/internal/storage/models"
	"github.com/jepco-agent/backend/internal/storage/sqlite"
	"github.com/jepco-agent/backend/pkg/logger"
)

// displayWindow bounds how many stored messages a history read returns.
const displayWindow = 10

// ContextFinder is the retrieval surface the service drives.
type ContextFinder interface {
	FindRelevantContent(ctx context.Context, query string, lang language.Language) (string, retrieval.Tier)
}

type ChatRequest struct {
	Message   string
	SessionID string
	// Language optionally pins the conversation language; empty or
	// unknown values fall back to detection.
	Language string
}

type ChatResponse struct {
	ID        string            `json:"id"`
	SessionID string            `json:"session_id"`
	Message   string            `json:"message"`
	Response  string            `json:"response"`
	Language  language.Language `json:"language"`
	Direction string            `json:"direction"`
	Tier      string            `json:"retrieval_tier"`
	LatencyMS int64             `json:"latency_ms"`
}

// Service is the end-to-end chat pipeline: detect the language, load the
// session, assemble context, generate the reply, persist the exchange.
type Service struct {
	db        *sqlite.Client
	assembler ContextFinder
	generator *Generator
	model     string
}

func NewService(db *sqlite.Client, assembler ContextFinder, generator *Generator, model string) *Service {
	return &Service{
		db:        db,
		assembler: assembler,
		generator: generator,
		model:     model,
	}
}

func (s *Service) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	startTime := time.Now()
	chatID := uuid.New().String()

	lang := language.Detect(req.Message)
	if language.Valid(req.Language) {
		lang = language.Language(req.Language)
	}
	metrics.LanguageDetected.WithLabelValues(string(lang)).Inc()

	logger.Info("Processing chat message",
		zap.String("chat_id", chatID),
		zap.String("language", string(lang)),
		zap.String("session_id", req.SessionID),
	)

	session, err := s.db.EnsureSession(req.SessionID, string(lang))
	if err != nil {
		return nil, err
	}

	history, err := s.db.RecentMessages(session.ID, historyWindow)
	if err != nil {
		logger.Warn("History load failed, continuing without it", zap.Error(err))
		history = nil
	}

	contextText, tier := s.assembler.FindRelevantContent(ctx, req.Message, lang)
	metrics.RetrievalTier.WithLabelValues(string(tier)).Inc()

	turns := make([]Turn, 0, len(history))
	for _, msg := range history {
		turns = append(turns, Turn{Role: msg.Role, Content: msg.Content})
	}

	reply, usage := s.generator.Respond(ctx, req.Message, contextText, turns, lang)

	latency := time.Since(startTime).Milliseconds()
	s.persist(session.ID, chatID, req.Message, reply, lang, tier, latency, usage)

	metrics.ChatDuration.WithLabelValues(string(lang)).Observe(time.Since(startTime).Seconds())
	metrics.ChatTotal.WithLabelValues("success").Inc()
	metrics.LLMTokensUsed.WithLabelValues(s.model, "prompt").Add(float64(usage.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(s.model, "completion").Add(float64(usage.CompletionTokens))

	return &ChatResponse{
		ID:        chatID,
		SessionID: session.ID,
		Message:   req.Message,
		Response:  reply,
		Language:  lang,
		Direction: direction(lang),
		Tier:      string(tier),
		LatencyMS: latency,
	}, nil
}

// History returns the most recent stored messages for a session, oldest
// first, capped at the display window.
func (s *Service) History(sessionID string) ([]models.Message, error) {
	return s.db.RecentMessages(sessionID, displayWindow)
}

// Welcome returns the localized greeting for a requested language tag.
func (s *Service) Welcome(langTag string) (language.Language, string) {
	lang := language.English
	if language.Valid(langTag) {
		lang = language.Language(langTag)
	}
	return lang, language.WelcomeMessage(lang)
}

// persist writes both conversation turns and the analytics record. Storage
// failures are logged, never surfaced: the reply already exists.
func (s *Service) persist(sessionID, chatID, query, reply string, lang language.Language, tier retrieval.Tier, latency int64, usage llm.Usage) {
	userMsg := &models.Message{
		SessionID: sessionID,
		Role:      "user",
		Content:   query,
		Language:  string(lang),
	}
	if err := s.db.InsertMessage(userMsg); err != nil {
		logger.Error("Failed to store user message", zap.Error(err))
	}

	assistantMsg := &models.Message{
		SessionID: sessionID,
		Role:      "assistant",
		Content:   reply,
		Language:  string(lang),
	}
	if err := s.db.InsertMessage(assistantMsg); err != nil {
		logger.Error("Failed to store assistant message", zap.Error(err))
	}

	record := &models.ChatRecord{
		ID:            chatID,
		SessionID:     sessionID,
		Query:         query,
		Response:      reply,
		Language:      string(lang),
		RetrievalTier: string(tier),
		LatencyMs:     latency,
		PromptTokens:  usage.PromptTokens,
		ReplyTokens:   usage.CompletionTokens,
	}
	if err := s.db.InsertChatRecord(record); err != nil {
		logger.Error("Failed to store chat record", zap.Error(err))
	}
}

func direction(lang language.Language) string {
	if lang.RTL() {
		return "rtl"
	}
	return "ltr"
}
