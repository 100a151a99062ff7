// Package activity defines the normalized conversational unit exchanged
// between the Telegram bridge and the bot logic pipeline.
package activity

import (
	"encoding/json"
	"time"

	"tgbridge/pkg/telegram"
)

// ChannelID is stamped on every activity this bridge produces.
const ChannelID = "telegram"

// Type distinguishes textual messages from structural events.
type Type string

const (
	// TypeMessage marks an activity carrying text or media content.
	TypeMessage Type = "message"
	// TypeEvent marks a structural payload such as a button-press callback.
	TypeEvent Type = "event"
)

// ContinuationName is the event name of activities synthesized for proactive
// conversation continuation.
const ContinuationName = "continueConversation"

// Account identifies one party of a conversation.
type Account struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// Conversation identifies the chat thread an activity belongs to.
type Conversation struct {
	ID int64 `json:"id"`
}

// Activity is the channel-agnostic representation of one inbound or outbound
// conversational event. Activities live for a single pipeline pass and are
// never persisted.
type Activity struct {
	ChannelID    string        `json:"channelId"`
	Type         Type          `json:"type"`
	Name         string        `json:"name,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
	Text         string        `json:"text,omitempty"`
	Conversation Conversation  `json:"conversation"`
	From         *Account      `json:"from,omitempty"`
	Recipient    *Account      `json:"recipient,omitempty"`
	ChannelData  *ChannelData  `json:"channelData,omitempty"`
	Attachments  *Attachments  `json:"attachments,omitempty"`
}

// ChannelData retains the channel-specific payload an activity was derived
// from, so downstream inspection can reconstruct the decision that produced
// Type and Text, plus fields derived during the pipeline pass.
type ChannelData struct {
	// Message is the inbound message payload, when the update carried one.
	Message *telegram.Message `json:"message,omitempty"`
	// CallbackQuery is present for button-press updates.
	CallbackQuery *telegram.CallbackQuery `json:"callback_query,omitempty"`
	// Photo is the resolved highest-resolution photo, metadata plus bytes.
	Photo *Photo `json:"photo,omitempty"`
	// EventType is the semantic label stamped by the event-type middleware.
	// Empty until the middleware runs, and for updates it does not classify.
	EventType string `json:"botkitEventType,omitempty"`

	// Outbound overrides.
	ReplyKeyboard json.RawMessage `json:"replyKeyboard,omitempty"`
	ParseMode     string          `json:"parseMode,omitempty"`
	NoWebPreview  bool            `json:"noWebPreview,omitempty"`
}

// Photo combines resolved file metadata with the downloaded bytes.
type Photo struct {
	telegram.File
	Data []byte `json:"data,omitempty"`
}

// Attachments is the alternate location for outbound overrides. When both
// this and ChannelData carry a reply keyboard, ChannelData wins.
type Attachments struct {
	ReplyKeyboard json.RawMessage `json:"replyKeyboard,omitempty"`
}

// ConversationReference captures enough of an activity to address the same
// conversation later, outside the originating webhook exchange.
type ConversationReference struct {
	ChannelID    string       `json:"channelId"`
	Conversation Conversation `json:"conversation"`
	User         *Account     `json:"user,omitempty"`
	Bot          *Account     `json:"bot,omitempty"`
}

// Reference extracts a conversation reference from an activity.
func (a *Activity) Reference() ConversationReference {
	return ConversationReference{
		ChannelID:    a.ChannelID,
		Conversation: a.Conversation,
		User:         a.From,
		Bot:          a.Recipient,
	}
}

// Continuation synthesizes the event activity used to re-enter the logic
// pipeline for proactive messaging.
func (r ConversationReference) Continuation(now time.Time) *Activity {
	return &Activity{
		ChannelID:    ChannelID,
		Type:         TypeEvent,
		Name:         ContinuationName,
		Timestamp:    now,
		Conversation: r.Conversation,
		From:         r.Bot,
		Recipient:    r.User,
	}
}

// ResourceResponse reports the remote identifier of a delivered activity.
type ResourceResponse struct {
	ID int64 `json:"id"`
}
