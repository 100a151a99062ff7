package gateway

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tgbridge/pkg/adapter"
	"tgbridge/pkg/config"
	"tgbridge/pkg/telegram"
)

// stubAPI satisfies adapter.API with canned responses.
type stubAPI struct {
	webhookURL string
	sent       []telegram.SendMessageRequest
}

func (s *stubAPI) SendMessage(_ context.Context, req telegram.SendMessageRequest) (*telegram.Message, error) {
	s.sent = append(s.sent, req)
	return &telegram.Message{MessageID: int64(len(s.sent)), Chat: telegram.Chat{ID: req.ChatID}}, nil
}

func (s *stubAPI) GetFile(context.Context, string) (*telegram.File, error) {
	return &telegram.File{}, nil
}

func (s *stubAPI) DownloadFile(context.Context, string) ([]byte, error) {
	return nil, nil
}

func (s *stubAPI) GetWebhookInfo(context.Context) (*telegram.WebhookInfo, error) {
	return &telegram.WebhookInfo{URL: s.webhookURL}, nil
}

func (s *stubAPI) DeleteWebhook(context.Context) error {
	s.webhookURL = ""
	return nil
}

func (s *stubAPI) SetWebhook(_ context.Context, url string) error {
	s.webhookURL = url
	return nil
}

func newTestService(t *testing.T) (*Service, *stubAPI) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Telegram = config.TelegramConfig{Token: "t", WebhookHost: "https://bot.example.com"}

	api := &stubAPI{}
	bridge, err := adapter.New(cfg.Telegram, api, nil, nil)
	require.NoError(t, err)
	bridge.Use(adapter.EventTypeMiddleware{})

	logic := func(ctx context.Context, turn *adapter.TurnContext) error {
		return nil
	}

	svc, err := NewService(cfg, bridge, logic, nil)
	require.NoError(t, err)

	return svc, api
}

func TestNewServiceValidation(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil, nil, nil, nil)
	require.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	svc, _ := newTestService(t)
	router := svc.buildRouter(svc.cfg.Telegram.Path())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	require.Equal(t, 200, rec.Code)

	var status statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, "ok", status.Status)
	require.Equal(t, config.DefaultWebhookPath, status.WebhookPath)
}

func TestWebhookRouteAcknowledgesAnything(t *testing.T) {
	svc, _ := newTestService(t)
	router := svc.buildRouter(svc.cfg.Telegram.Path())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", config.DefaultWebhookPath, strings.NewReader(`{"update_id": 1}`)))

	require.Equal(t, 200, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestWebhookRouteRunsPipeline(t *testing.T) {
	svc, api := newTestService(t)

	// Swap in logic that replies, proving the route reaches the adapter.
	svc.logic = func(ctx context.Context, turn *adapter.TurnContext) error {
		_, err := turn.SendActivity(ctx, turn.Activity)
		return err
	}

	router := svc.buildRouter(svc.cfg.Telegram.Path())
	body := `{"update_id": 2, "message": {"message_id": 1, "chat": {"id": 9}, "from": {"id": 3, "first_name": "Ada"}, "text": "hi"}}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", config.DefaultWebhookPath, strings.NewReader(body)))

	require.Equal(t, 200, rec.Code)
	require.Len(t, api.sent, 1)
	require.Equal(t, int64(9), api.sent[0].ChatID)
	require.Equal(t, "hi", api.sent[0].Text)
}

func TestMetricsEndpoint(t *testing.T) {
	svc, _ := newTestService(t)
	router := svc.buildRouter(svc.cfg.Telegram.Path())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
}
