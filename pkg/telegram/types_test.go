package telegram

import (
	"encoding/json"
	"testing"
)

func TestUpdateKind(t *testing.T) {
	t.Parallel()

	message := &Update{Message: &Message{MessageID: 7, Chat: Chat{ID: 1}}}
	if got := message.Kind(); got != KindMessage {
		t.Fatalf("Kind = %v, want KindMessage", got)
	}

	callback := &Update{CallbackQuery: &CallbackQuery{ID: "cb"}}
	if got := callback.Kind(); got != KindCallbackQuery {
		t.Fatalf("Kind = %v, want KindCallbackQuery", got)
	}

	// A message without an id does not count as a message update.
	noID := &Update{Message: &Message{Chat: Chat{ID: 1}}}
	if got := noID.Kind(); got != KindUnknown {
		t.Fatalf("Kind = %v, want KindUnknown", got)
	}

	empty := &Update{}
	if got := empty.Kind(); got != KindUnknown {
		t.Fatalf("Kind = %v, want KindUnknown", got)
	}
}

func TestUpdateKindPrefersMessage(t *testing.T) {
	t.Parallel()

	update := &Update{
		Message:       &Message{MessageID: 3, Chat: Chat{ID: 1}},
		CallbackQuery: &CallbackQuery{ID: "cb"},
	}
	if got := update.Kind(); got != KindMessage {
		t.Fatalf("Kind = %v, want KindMessage when both payloads present", got)
	}
}

func TestSendMessageRequestSerializesExplicitPreviewDefault(t *testing.T) {
	t.Parallel()

	encoded, err := json.Marshal(SendMessageRequest{ChatID: 42, Text: "hi"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(encoded, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	preview, ok := payload["disable_web_page_preview"]
	if !ok {
		t.Fatal("disable_web_page_preview missing from payload")
	}
	if preview != false {
		t.Fatalf("disable_web_page_preview = %v, want false", preview)
	}
	if _, ok := payload["parse_mode"]; ok {
		t.Fatal("empty parse_mode should be omitted")
	}
}
