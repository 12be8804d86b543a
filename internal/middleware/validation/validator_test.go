package validation

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(Middleware(Config{Logger: zap.NewNop()}))
	app.Post("/api/v1/chat", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func postChat(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestValidMessagePasses(t *testing.T) {
	app := newTestApp()
	assert.Equal(t, fiber.StatusOK, postChat(t, app, `{"message": "how do I pay my bill"}`))
}

func TestArabicMessagePasses(t *testing.T) {
	app := newTestApp()
	assert.Equal(t, fiber.StatusOK, postChat(t, app, `{"message": "شو وضع الفاتورة؟"}`))
}

func TestMissingMessageRejected(t *testing.T) {
	app := newTestApp()
	assert.Equal(t, fiber.StatusBadRequest, postChat(t, app, `{}`))
	assert.Equal(t, fiber.StatusBadRequest, postChat(t, app, `{"message": "   "}`))
}

func TestOversizedMessageRejected(t *testing.T) {
	app := newTestApp()
	long := strings.Repeat("a", 3000)
	assert.Equal(t, fiber.StatusBadRequest, postChat(t, app, `{"message": "`+long+`"}`))
}

func TestInjectionPayloadsRejected(t *testing.T) {
	app := newTestApp()
	assert.Equal(t, fiber.StatusBadRequest, postChat(t, app, `{"message": "x' OR 1=1"}`))
	assert.Equal(t, fiber.StatusBadRequest, postChat(t, app, `{"message": "<script>alert(1)</script>"}`))
}

func TestEverydayVocabularyNotFlagged(t *testing.T) {
	app := newTestApp()
	assert.Equal(t, fiber.StatusOK, postChat(t, app, `{"message": "please update my address and select a payment plan"}`))
}

func TestBadSessionIDRejected(t *testing.T) {
	app := newTestApp()
	assert.Equal(t, fiber.StatusBadRequest, postChat(t, app, `{"message": "hi", "session_id": "../etc/passwd"}`))
	assert.Equal(t, fiber.StatusOK, postChat(t, app, `{"message": "hi", "session_id": "4a1f0c1e-aaaa-bbbb-cccc-000011112222"}`))
}

func TestUnsupportedContentTypeRejected(t *testing.T) {
	app := newTestApp()
	req := httptest.NewRequest("POST", "/api/v1/chat", strings.NewReader("message=hi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
}
