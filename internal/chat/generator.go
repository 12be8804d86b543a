package chat

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jepco-agent/backend/internal/language"
	"github.com/jepco-agent/backend/internal/llm"
	"github.com/jepco-agent/backend/pkg/logger"
)

// historyWindow bounds how many prior turns the model sees. Older turns
// stay in storage but are not replayed.
const historyWindow = 6

// Completer is the model surface the generator needs.
type Completer interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error)
}

// Turn is one stored conversation exchange replayed into the prompt.
type Turn struct {
	Role    string
	Content string
}

// Generator turns an assembled context plus conversation history into the
// final user-facing reply. It never returns an error to the caller: model
// failures degrade to a localized apology so the chat surface always has
// something to say.
type Generator struct {
	completer Completer
}

func NewGenerator(completer Completer) *Generator {
	return &Generator{completer: completer}
}

// Respond produces the assistant reply for a query. The returned Usage is
// zero when the completion failed.
func (g *Generator) Respond(ctx context.Context, query, contextText string, history []Turn, lang language.Language) (string, llm.Usage) {
	messages := g.buildMessages(query, contextText, history, lang)

	resp, err := g.completer.Complete(ctx, llm.CompletionRequest{Messages: messages})
	if err != nil {
		logger.Error("Completion failed", zap.Error(err), zap.String("language", string(lang)))
		return localizedFailure(err, lang), llm.Usage{}
	}

	return resp.Content, resp.Usage
}

func (g *Generator) buildMessages(query, contextText string, history []Turn, lang language.Language) []llm.ChatMessage {
	system := language.SystemPrompt(lang) + "\n\n" +
		"Relevant JEPCO information:\n" + contextText + "\n\n" +
		formattingInstructions(lang)

	messages := []llm.ChatMessage{{Role: llm.RoleSystem, Content: system}}

	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	for _, turn := range history {
		role := llm.RoleUser
		if turn.Role == llm.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.ChatMessage{Role: role, Content: turn.Content})
	}

	messages = append(messages, llm.ChatMessage{Role: llm.RoleUser, Content: query})
	return messages
}

func formattingInstructions(lang language.Language) string {
	if lang.ArabicFamily() {
		return "أجب باللغة العربية بشكل واضح ومنظم. استخدم المعلومات المتوفرة أعلاه فقط، وإذا لم تكن كافية وجه العميل للاتصال على 116."
	}
	return "Answer clearly and concisely in English. Use only the information provided above; if it is insufficient, direct the customer to call 116."
}

// localizedFailure maps a completion error onto the user-facing message for
// the conversation language.
func localizedFailure(err error, lang language.Language) string {
	var detail string
	switch {
	case errors.Is(err, llm.ErrAuthentication):
		detail = authDetail(lang)
	case errors.Is(err, llm.ErrRateLimited):
		detail = busyDetail(lang)
	default:
		detail = genericDetail(lang)
	}
	return fmt.Sprintf(language.ErrorMessage(lang), detail)
}

func authDetail(lang language.Language) string {
	if lang.ArabicFamily() {
		return "الخدمة غير متاحة حالياً بسبب مشكلة في الإعدادات"
	}
	return "the service is currently unavailable due to a configuration problem"
}

func busyDetail(lang language.Language) string {
	if lang.ArabicFamily() {
		return "الخدمة مشغولة حالياً، حاول مرة أخرى بعد قليل"
	}
	return "the service is busy right now, please try again shortly"
}

func genericDetail(lang language.Language) string {
	if lang.ArabicFamily() {
		return "حدث خطأ مؤقت أثناء معالجة طلبك"
	}
	return "a temporary error occurred while processing your request"
}
