package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jepco-agent/backend/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	require.NoError(t, client.InitSchema())
	t.Cleanup(func() { client.Close() })
	return client
}

func TestEnsureSessionCreatesAndReuses(t *testing.T) {
	client := newTestClient(t)

	created, err := client.EnsureSession("", "english")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "english", created.Language)

	reused, err := client.EnsureSession(created.ID, "arabic")
	require.NoError(t, err)
	assert.Equal(t, created.ID, reused.ID)
	assert.Equal(t, "arabic", reused.Language)
}

func TestEnsureSessionUnknownIDCreatesFresh(t *testing.T) {
	client := newTestClient(t)

	session, err := client.EnsureSession("does-not-exist", "english")
	require.NoError(t, err)
	assert.NotEqual(t, "does-not-exist", session.ID)
}

func TestMessageRoundTripChronological(t *testing.T) {
	client := newTestClient(t)

	session, err := client.EnsureSession("", "english")
	require.NoError(t, err)

	turns := []string{"first question", "first answer", "second question"}
	roles := []string{"user", "assistant", "user"}
	for i := range turns {
		require.NoError(t, client.InsertMessage(&models.Message{
			SessionID: session.ID,
			Role:      roles[i],
			Content:   turns[i],
			Language:  "english",
		}))
	}

	messages, err := client.RecentMessages(session.ID, 10)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "first question", messages[0].Content)
	assert.Equal(t, "second question", messages[2].Content)
	assert.Equal(t, "assistant", messages[1].Role)
}

func TestRecentMessagesWindow(t *testing.T) {
	client := newTestClient(t)

	session, err := client.EnsureSession("", "english")
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		require.NoError(t, client.InsertMessage(&models.Message{
			SessionID: session.ID,
			Role:      "user",
			Content:   "message",
			Language:  "english",
		}))
	}

	messages, err := client.RecentMessages(session.ID, 6)
	require.NoError(t, err)
	assert.Len(t, messages, 6)
}

func TestInsertChatRecord(t *testing.T) {
	client := newTestClient(t)

	session, err := client.EnsureSession("", "jordanian")
	require.NoError(t, err)

	err = client.InsertChatRecord(&models.ChatRecord{
		SessionID:     session.ID,
		Query:         "شو وضع الفاتورة",
		Response:      "reply",
		Language:      "jordanian",
		RetrievalTier: "knowledge_live",
		LatencyMs:     412,
		PromptTokens:  220,
		ReplyTokens:   90,
	})
	assert.NoError(t, err)
}
