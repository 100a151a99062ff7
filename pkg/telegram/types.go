package telegram

import "encoding/json"

// UpdateKind identifies which payload shape an Update carries.
type UpdateKind int

const (
	// KindUnknown marks an update this bridge does not translate.
	KindUnknown UpdateKind = iota
	// KindMessage marks an update carrying a single chat message.
	KindMessage
	// KindCallbackQuery marks an inline-keyboard button press.
	KindCallbackQuery
)

// String returns the wire-style name of the update kind.
func (k UpdateKind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindCallbackQuery:
		return "callback_query"
	default:
		return "unknown"
	}
}

// Update is one webhook event pushed by Telegram. Exactly one of the payload
// fields is expected to be set; Kind resolves which one wins.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// Kind classifies the update payload shape.
//
// A message update must carry a message id to count; anything without a
// recognized payload is KindUnknown and is acknowledged without translation.
func (u *Update) Kind() UpdateKind {
	switch {
	case u.Message != nil && u.Message.MessageID != 0:
		return KindMessage
	case u.CallbackQuery != nil:
		return KindCallbackQuery
	default:
		return KindUnknown
	}
}

// Message is a single chat message.
//
// From is absent for messages authored by a channel rather than a user.
type Message struct {
	MessageID int64       `json:"message_id"`
	From      *User       `json:"from,omitempty"`
	Chat      Chat        `json:"chat"`
	Date      int64       `json:"date,omitempty"`
	Text      string      `json:"text,omitempty"`
	Photo     []PhotoSize `json:"photo,omitempty"`
}

// User identifies a Telegram account.
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID    int64  `json:"id"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
}

// PhotoSize is one entry of a photo set. Telegram orders the set from
// smallest to largest resolution.
type PhotoSize struct {
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	FileSize     int64  `json:"file_size,omitempty"`
}

// CallbackQuery is an inline-keyboard button press referencing the message
// the keyboard was attached to.
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    *User    `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

// File is the result of a getFile call; FilePath is fetched through the
// file/bot URL namespace.
type File struct {
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id,omitempty"`
	FileSize     int64  `json:"file_size,omitempty"`
	FilePath     string `json:"file_path,omitempty"`
}

// WebhookInfo describes the currently registered webhook.
type WebhookInfo struct {
	URL                string `json:"url"`
	PendingUpdateCount int    `json:"pending_update_count,omitempty"`
	LastErrorMessage   string `json:"last_error_message,omitempty"`
}

// SendMessageRequest is the flat sendMessage payload.
//
// DisableWebPagePreview is always serialized so the wire payload carries the
// explicit default. Fields Telegram supports but this bridge does not map yet
// (message tags, stickers, notification type) belong here when they are added.
type SendMessageRequest struct {
	ChatID                int64           `json:"chat_id"`
	Text                  string          `json:"text"`
	ParseMode             string          `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool            `json:"disable_web_page_preview"`
	ReplyMarkup           json.RawMessage `json:"reply_markup,omitempty"`
}
