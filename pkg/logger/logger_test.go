package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"tgbridge/pkg/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TGBRIDGE_LOG_FORMAT", "")
	t.Setenv("TGBRIDGE_LOG_LEVEL", "")
	t.Setenv("TGBRIDGE_LOG_ADD_SOURCE", "")
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	clearEnv(t)

	if _, err := New(config.LoggingConfig{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	clearEnv(t)

	if _, err := New(config.LoggingConfig{Level: "loud"}); err == nil {
		t.Fatal("expected error for unsupported level")
	}
}

func TestJSONFormatEmitsJSON(t *testing.T) {
	clearEnv(t)

	var buf bytes.Buffer
	log, err := newWithWriter(config.LoggingConfig{Format: "json", Level: "info"}, &buf)
	if err != nil {
		t.Fatalf("newWithWriter: %v", err)
	}

	log.Info("webhook registered", "url", "https://bot.example.com/api/messages")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "webhook registered" {
		t.Fatalf("msg = %v", entry["msg"])
	}
}

func TestLevelFiltering(t *testing.T) {
	clearEnv(t)

	var buf bytes.Buffer
	log, err := newWithWriter(config.LoggingConfig{Format: "json", Level: "warn"}, &buf)
	if err != nil {
		t.Fatalf("newWithWriter: %v", err)
	}

	log.Debug("dropped")
	log.Info("dropped too")
	log.Warn("kept")

	if strings.Contains(buf.String(), "dropped") {
		t.Fatalf("sub-warn output leaked: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn output missing: %q", buf.String())
	}
}

func TestEnvOverridesLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("TGBRIDGE_LOG_LEVEL", "error")

	level, err := parseLevel("debug")
	if err != nil {
		t.Fatalf("parseLevel: %v", err)
	}
	if level != slog.LevelError {
		t.Fatalf("level = %v, want env override to error", level)
	}
}
