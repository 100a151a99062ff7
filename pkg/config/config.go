package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	envBotToken    = "TELEGRAM_BOT_TOKEN"
	envWebhookHost = "TGBRIDGE_WEBHOOK_HOST"
)

// DefaultWebhookPath is the route updates are delivered to when the config
// does not name one.
const DefaultWebhookPath = "/api/messages"

// Config is the root runtime configuration loaded from config.json.
type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Gateway  GatewayConfig  `json:"gateway"`
	Logging  LoggingConfig  `json:"logging,omitempty"`
}

// TelegramConfig configures the Bot API client and webhook registration.
type TelegramConfig struct {
	// Token is the bot access token from @BotFather.
	Token string `json:"token"`
	// APIBaseURL overrides the Bot API host, mainly for tests and proxies.
	APIBaseURL string `json:"api_base_url,omitempty"`
	// WebhookHost is the public base URL Telegram delivers updates to,
	// for example https://bot.example.com. Required for webhook setup.
	WebhookHost string `json:"webhook_host"`
	// WebhookPath is appended to WebhookHost when registering the webhook.
	WebhookPath string `json:"webhook_path,omitempty"`
	// RequestTimeoutSeconds bounds each Bot API call.
	RequestTimeoutSeconds int `json:"request_timeout_seconds,omitempty"`
}

// GatewayConfig configures HTTP bind settings for the webhook server.
type GatewayConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// LoggingConfig controls structured log output format and verbosity.
type LoggingConfig struct {
	Format    string `json:"format,omitempty"`
	Level     string `json:"level,omitempty"`
	AddSource bool   `json:"add_source,omitempty"`
}

// Path returns the configured webhook path with the default applied.
func (c TelegramConfig) Path() string {
	path := strings.TrimSpace(c.WebhookPath)
	if path == "" {
		return DefaultWebhookPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// LoadConfig resolves config.json, unmarshals it, and applies environment
// overrides.
func LoadConfig() (*Config, error) {
	configPath, err := findConfigPath()
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides injects selected env-driven settings on top of file config.
func applyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if token := strings.TrimSpace(os.Getenv(envBotToken)); token != "" {
		cfg.Telegram.Token = token
	}

	if host := strings.TrimSpace(os.Getenv(envWebhookHost)); host != "" {
		cfg.Telegram.WebhookHost = host
	}
}

// findConfigPath resolves the active config file location.
//
// Precedence is TGBRIDGE_CONFIG first, then cwd-local fallback paths.
func findConfigPath() (string, error) {
	if value := strings.TrimSpace(os.Getenv("TGBRIDGE_CONFIG")); value != "" {
		if info, err := os.Stat(value); err == nil && !info.IsDir() {
			return value, nil
		}
		return "", fmt.Errorf("TGBRIDGE_CONFIG does not point to a file: %s", value)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get current working directory: %w", err)
	}

	candidates := []string{
		filepath.Join(cwd, "config.json"),
		filepath.Join(cwd, "config", "config.json"),
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("config.json not found (checked %s and %s)", candidates[0], candidates[1])
}
