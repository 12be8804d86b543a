package models

import "time"

// Session is one chat conversation. Language is sticky: it follows the
// most recent user message.
type Session struct {
	ID           string    `json:"id"`
	Language     string    `json:"language"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// Message is a single stored turn within a session.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatRecord captures one full request/response exchange for analytics:
// which retrieval tier answered, how long it took, and token spend.
type ChatRecord struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	Query         string    `json:"query"`
	Response      string    `json:"response"`
	Language      string    `json:"language"`
	RetrievalTier string    `json:"retrieval_tier"`
	LatencyMs     int64     `json:"latency_ms"`
	PromptTokens  int       `json:"prompt_tokens"`
	ReplyTokens   int       `json:"reply_tokens"`
	CreatedAt     time.Time `json:"created_at"`
}
