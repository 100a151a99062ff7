package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tgbridge/pkg/config"
)

// DefaultAPIBaseURL is the production Bot API host.
const DefaultAPIBaseURL = "https://api.telegram.org"

const defaultRequestTimeout = 30 * time.Second

// APIError is a Bot API response with ok=false.
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

// Client issues authenticated calls against the Bot API.
//
// Methods live under /bot<token>/<method>; raw file content lives under the
// separate /file/bot<token>/<path> namespace.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient validates the Telegram configuration and constructs a client.
func NewClient(cfg config.TelegramConfig, log *slog.Logger) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("telegram.token is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}

	timeout := defaultRequestTimeout
	if cfg.RequestTimeoutSeconds > 0 {
		timeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	}

	if log == nil {
		log = slog.Default()
	}

	return &Client{
		token:      token,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With("component", "telegram.client"),
	}, nil
}

// SendMessage delivers one text message and returns the created message.
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error) {
	var msg Message
	if err := c.call(ctx, "sendMessage", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetFile resolves a file id into a file path servable from the file
// namespace.
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	var file File
	payload := struct {
		FileID string `json:"file_id"`
	}{FileID: fileID}
	if err := c.call(ctx, "getFile", payload, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// DownloadFile fetches raw file bytes for a path returned by GetFile.
func (c *Client) DownloadFile(ctx context.Context, filePath string) ([]byte, error) {
	url := c.baseURL + "/file/bot" + c.token + "/" + strings.TrimLeft(filePath, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build file request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch file %s: %w", filePath, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Method: "file download", Code: resp.StatusCode, Description: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", filePath, err)
	}

	return data, nil
}

// GetWebhookInfo reports the currently registered webhook.
func (c *Client) GetWebhookInfo(ctx context.Context) (*WebhookInfo, error) {
	var info WebhookInfo
	if err := c.call(ctx, "getWebhookInfo", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// DeleteWebhook removes any existing webhook registration.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	return c.call(ctx, "deleteWebhook", nil, nil)
}

// SetWebhook registers url as the single delivery target for updates.
func (c *Client) SetWebhook(ctx context.Context, url string) error {
	payload := struct {
		URL string `json:"url"`
	}{URL: url}
	return c.call(ctx, "setWebhook", payload, nil)
}

// apiResponse is the Bot API JSON envelope shared by every method call.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
}

// call POSTs one Bot API method and decodes the result envelope into out.
func (c *Client) call(ctx context.Context, method string, payload, out any) error {
	url := c.baseURL + "/bot" + c.token + "/" + method

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", method, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}

	if !envelope.OK {
		return &APIError{Method: method, Code: envelope.ErrorCode, Description: envelope.Description}
	}

	if out != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}

	return nil
}
