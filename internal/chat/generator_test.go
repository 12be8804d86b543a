package chat

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jepco-agent/backend/internal/language"
	"github.com/jepco-agent/backend/internal/llm"
)

type stubCompleter struct {
	reply string
	err   error
	last  llm.CompletionRequest
}

func (s *stubCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{
		Content: s.reply,
		Usage:   llm.Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
	}, nil
}

func TestRespondReturnsModelReply(t *testing.T) {
	completer := &stubCompleter{reply: "You can pay at any JEPCO office."}
	g := NewGenerator(completer)

	reply, usage := g.Respond(context.Background(), "how do I pay", "context", nil, language.English)

	assert.Equal(t, "You can pay at any JEPCO office.", reply)
	assert.Equal(t, 150, usage.TotalTokens)
}

func TestRespondSystemMessageCarriesContextAndPersona(t *testing.T) {
	completer := &stubCompleter{reply: "ok"}
	g := NewGenerator(completer)

	g.Respond(context.Background(), "question", "THE-CONTEXT-BLOCK", nil, language.Arabic)

	require.NotEmpty(t, completer.last.Messages)
	system := completer.last.Messages[0]
	assert.Equal(t, llm.RoleSystem, system.Role)
	assert.Contains(t, system.Content, "THE-CONTEXT-BLOCK")
	assert.Contains(t, system.Content, "جيبكو")
}

func TestRespondTrimsHistoryToWindow(t *testing.T) {
	completer := &stubCompleter{reply: "ok"}
	g := NewGenerator(completer)

	var history []Turn
	for i := 0; i < 12; i++ {
		role := llm.RoleUser
		if i%2 == 1 {
			role = llm.RoleAssistant
		}
		history = append(history, Turn{Role: role, Content: fmt.Sprintf("turn %d", i)})
	}

	g.Respond(context.Background(), "latest question", "context", history, language.English)

	// System prompt + trimmed history + current question.
	require.Len(t, completer.last.Messages, 1+historyWindow+1)
	assert.Equal(t, "turn 6", completer.last.Messages[1].Content)
	assert.Equal(t, "latest question", completer.last.Messages[len(completer.last.Messages)-1].Content)
}

func TestRespondFailureIsLocalizedNeverEmpty(t *testing.T) {
	cases := []struct {
		lang language.Language
		err  error
	}{
		{language.English, llm.ErrAuthentication},
		{language.Arabic, llm.ErrAuthentication},
		{language.Jordanian, llm.ErrAuthentication},
		{language.English, llm.ErrRateLimited},
		{language.Arabic, llm.ErrProvider},
	}

	for _, tc := range cases {
		completer := &stubCompleter{err: fmt.Errorf("wrapped: %w", tc.err)}
		g := NewGenerator(completer)

		reply, usage := g.Respond(context.Background(), "question", "context", nil, tc.lang)

		assert.NotEmpty(t, reply, "language %s error %v", tc.lang, tc.err)
		assert.NotContains(t, reply, "%s")
		assert.Zero(t, usage.TotalTokens)
		if tc.lang == language.English {
			assert.Contains(t, reply, "JEPCO")
		} else {
			assert.Contains(t, reply, "جيبكو")
		}
	}
}
