package chat

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jepco-agent/backend/internal/language"
	"github.com/jepco-agent/backend/internal/retrieval"
	"github.com/jepco-agent/backend/internal/storage/sqlite"
)

type stubFinder struct {
	content string
	tier    retrieval.Tier
	last    string
}

func (s *stubFinder) FindRelevantContent(ctx context.Context, query string, lang language.Language) (string, retrieval.Tier) {
	s.last = query
	return s.content, s.tier
}

func newTestService(t *testing.T, finder *stubFinder, completer *stubCompleter) *Service {
	t.Helper()
	db, err := sqlite.NewClient(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	require.NoError(t, db.InitSchema())
	t.Cleanup(func() { db.Close() })

	return NewService(db, finder, NewGenerator(completer), "gpt-4o")
}

func TestChatFullExchange(t *testing.T) {
	finder := &stubFinder{content: "Hotline 116 is available around the clock.", tier: retrieval.TierCombined}
	completer := &stubCompleter{reply: "You can reach JEPCO at 116 any time."}
	service := newTestService(t, finder, completer)

	resp, err := service.Chat(context.Background(), ChatRequest{Message: "what is the hotline number"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, language.English, resp.Language)
	assert.Equal(t, "ltr", resp.Direction)
	assert.Equal(t, string(retrieval.TierCombined), resp.Tier)
	assert.Equal(t, "You can reach JEPCO at 116 any time.", resp.Response)

	// The retrieved context reached the model.
	assert.Contains(t, completer.last.Messages[0].Content, "Hotline 116")

	// Both turns were persisted.
	messages, err := service.History(resp.SessionID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "assistant", messages[1].Role)
}

func TestChatSessionContinuity(t *testing.T) {
	finder := &stubFinder{content: "ctx", tier: retrieval.TierStatic}
	completer := &stubCompleter{reply: "reply"}
	service := newTestService(t, finder, completer)

	first, err := service.Chat(context.Background(), ChatRequest{Message: "first"})
	require.NoError(t, err)

	second, err := service.Chat(context.Background(), ChatRequest{
		Message:   "second",
		SessionID: first.SessionID,
	})
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)

	// The second exchange replays the first as history.
	require.Greater(t, len(completer.last.Messages), 2)
	assert.Equal(t, "first", completer.last.Messages[1].Content)

	messages, err := service.History(first.SessionID)
	require.NoError(t, err)
	assert.Len(t, messages, 4)
}

func TestChatArabicDirection(t *testing.T) {
	finder := &stubFinder{content: "ctx", tier: retrieval.TierFallback}
	completer := &stubCompleter{reply: "رد"}
	service := newTestService(t, finder, completer)

	resp, err := service.Chat(context.Background(), ChatRequest{Message: "شو بدي أعمل عشان أدفع الفاتورة"})

	require.NoError(t, err)
	assert.Equal(t, language.Jordanian, resp.Language)
	assert.Equal(t, "rtl", resp.Direction)
}

func TestChatLanguageOverride(t *testing.T) {
	finder := &stubFinder{content: "ctx", tier: retrieval.TierStatic}
	service := newTestService(t, finder, &stubCompleter{reply: "reply"})

	resp, err := service.Chat(context.Background(), ChatRequest{
		Message:  "hello there",
		Language: "arabic",
	})

	require.NoError(t, err)
	assert.Equal(t, language.Arabic, resp.Language)

	// Unknown overrides fall back to detection.
	resp, err = service.Chat(context.Background(), ChatRequest{
		Message:  "hello there",
		Language: "french",
	})
	require.NoError(t, err)
	assert.Equal(t, language.English, resp.Language)
}

func TestWelcomeLocalization(t *testing.T) {
	service := newTestService(t, &stubFinder{}, &stubCompleter{reply: "ok"})

	lang, msg := service.Welcome("jordanian")
	assert.Equal(t, language.Jordanian, lang)
	assert.Contains(t, msg, "جيبكو")

	lang, msg = service.Welcome("unknown")
	assert.Equal(t, language.English, lang)
	assert.Contains(t, msg, "Welcome")
}
