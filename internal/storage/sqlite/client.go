package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/jepco-agent/backend/internal/storage/models"
	"github.com/jepco-agent/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		language TEXT NOT NULL DEFAULT 'english',
		created_at INTEGER NOT NULL,
		last_active_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_active ON sessions(last_active_at);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		language TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at);

	CREATE TABLE IF NOT EXISTS chat_history (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		query TEXT NOT NULL,
		response TEXT NOT NULL,
		language TEXT NOT NULL,
		retrieval_tier TEXT,
		latency_ms INTEGER,
		prompt_tokens INTEGER,
		reply_tokens INTEGER,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_chat_session ON chat_history(session_id);
	CREATE INDEX IF NOT EXISTS idx_chat_created ON chat_history(created_at);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

// EnsureSession returns the session with the given id, creating it when it
// does not exist. An empty id creates a fresh session. The session's
// language is updated to match the current exchange.
func (c *Client) EnsureSession(sessionID, lang string) (*models.Session, error) {
	now := time.Now()

	if sessionID != "" {
		session, err := c.GetSession(sessionID)
		if err != nil {
			return nil, err
		}
		if session != nil {
			_, err = c.db.Exec(
				`UPDATE sessions SET language = ?, last_active_at = ? WHERE id = ?`,
				lang, now.Unix(), sessionID,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to touch session: %w", err)
			}
			session.Language = lang
			session.LastActiveAt = now
			return session, nil
		}
	}

	session := &models.Session{
		ID:           uuid.NewString(),
		Language:     lang,
		CreatedAt:    now,
		LastActiveAt: now,
	}

	_, err := c.db.Exec(
		`INSERT INTO sessions (id, language, created_at, last_active_at) VALUES (?, ?, ?, ?)`,
		session.ID, session.Language, session.CreatedAt.Unix(), session.LastActiveAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

func (c *Client) GetSession(sessionID string) (*models.Session, error) {
	row := c.db.QueryRow(
		`SELECT id, language, created_at, last_active_at FROM sessions WHERE id = ?`,
		sessionID,
	)

	var session models.Session
	var createdAt, lastActive int64
	err := row.Scan(&session.ID, &session.Language, &createdAt, &lastActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session.CreatedAt = time.Unix(createdAt, 0)
	session.LastActiveAt = time.Unix(lastActive, 0)
	return &session, nil
}

func (c *Client) InsertMessage(msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	_, err := c.db.Exec(
		`INSERT INTO messages (id, session_id, role, content, language, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.SessionID, msg.Role, msg.Content, msg.Language, msg.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// RecentMessages returns the newest `limit` messages for a session in
// chronological order.
func (c *Client) RecentMessages(sessionID string, limit int) ([]models.Message, error) {
	rows, err := c.db.Query(
		`SELECT id, session_id, role, content, language, created_at
		 FROM messages WHERE session_id = ?
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		var createdAt int64
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &msg.Language, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.CreatedAt = time.Unix(createdAt, 0)
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	// Reverse into oldest-first order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (c *Client) InsertChatRecord(rec *models.ChatRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := c.db.Exec(
		`INSERT INTO chat_history
		 (id, session_id, query, response, language, retrieval_tier, latency_ms, prompt_tokens, reply_tokens, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.Query, rec.Response, rec.Language,
		rec.RetrievalTier, rec.LatencyMs, rec.PromptTokens, rec.ReplyTokens, rec.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat record: %w", err)
	}
	return nil
}
