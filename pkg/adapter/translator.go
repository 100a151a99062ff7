package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tgbridge/pkg/activity"
	"tgbridge/pkg/telegram"
)

// ErrUnsupportedUpdate marks an update whose shape this bridge does not
// translate.
var ErrUnsupportedUpdate = errors.New("unsupported update payload")

// FileFetcher is the slice of the Telegram client needed to resolve photo
// content during translation.
type FileFetcher interface {
	GetFile(ctx context.Context, fileID string) (*telegram.File, error)
	DownloadFile(ctx context.Context, filePath string) ([]byte, error)
}

// Translator maps webhook updates to normalized activities and activities
// back to send payloads.
//
// Both directions are pure field mapping; the only network call is the
// conditional photo resolution on inbound messages.
type Translator struct {
	files FileFetcher
	log   *slog.Logger
}

// NewTranslator constructs a translator around the file-resolution collaborator.
func NewTranslator(files FileFetcher, log *slog.Logger) *Translator {
	if log == nil {
		log = slog.Default()
	}

	return &Translator{
		files: files,
		log:   log.With("component", "telegram.translator"),
	}
}

// FromUpdate translates one decoded webhook update into a normalized activity.
func (t *Translator) FromUpdate(ctx context.Context, update *telegram.Update) (*activity.Activity, error) {
	switch update.Kind() {
	case telegram.KindMessage:
		return t.fromMessage(ctx, update.Message)
	case telegram.KindCallbackQuery:
		return t.fromCallbackQuery(ctx, update)
	default:
		return nil, ErrUnsupportedUpdate
	}
}

// fromMessage maps a single-message update.
//
// The sender doubles as the recipient identity here: Telegram surfaces no
// separate bot "self" account on inbound messages.
func (t *Translator) fromMessage(ctx context.Context, msg *telegram.Message) (*activity.Activity, error) {
	act := &activity.Activity{
		ChannelID:    activity.ChannelID,
		Type:         activity.TypeEvent,
		Timestamp:    time.Now().UTC(),
		Conversation: activity.Conversation{ID: msg.Chat.ID},
		ChannelData:  &activity.ChannelData{Message: msg},
	}

	if msg.From != nil {
		act.From = &activity.Account{ID: msg.From.ID, Name: msg.From.FirstName}
		act.Recipient = &activity.Account{ID: msg.From.ID, Name: msg.From.Username}
	} else {
		// Channel posts are authored by the channel itself. Still worth an
		// activity, just with no sender identity.
		t.log.Warn("Message has no sender", "chat_id", msg.Chat.ID, "message_id", msg.MessageID)
	}

	photo, err := t.resolvePhoto(ctx, msg)
	if err != nil {
		return nil, err
	}
	act.ChannelData.Photo = photo

	if msg.Text != "" {
		act.Type = activity.TypeMessage
		act.Text = msg.Text
	}

	return act, nil
}

// fromCallbackQuery maps a button-press update. The conversation comes from
// the quoted message the keyboard was attached to, and the channel data keeps
// the whole update so the callback query stays visible downstream.
func (t *Translator) fromCallbackQuery(ctx context.Context, update *telegram.Update) (*activity.Activity, error) {
	cb := update.CallbackQuery
	if cb.Message == nil {
		return nil, errors.New("callback query has no quoted message")
	}

	act := &activity.Activity{
		ChannelID:    activity.ChannelID,
		Type:         activity.TypeEvent,
		Timestamp:    time.Now().UTC(),
		Conversation: activity.Conversation{ID: cb.Message.Chat.ID},
		ChannelData: &activity.ChannelData{
			Message:       update.Message,
			CallbackQuery: cb,
		},
	}

	if cb.From != nil {
		act.From = &activity.Account{ID: cb.From.ID, Name: cb.From.FirstName}
	}
	if cb.Message.From != nil {
		act.Recipient = &activity.Account{ID: cb.Message.From.ID, Name: cb.Message.From.FirstName}
	}

	// Mirrors the message-update rule for the rare update that carries a
	// literal message body alongside the callback.
	if update.Message != nil {
		photo, err := t.resolvePhoto(ctx, update.Message)
		if err != nil {
			return nil, err
		}
		act.ChannelData.Photo = photo

		if update.Message.Text != "" {
			act.Type = activity.TypeMessage
			act.Text = update.Message.Text
		}
	}

	return act, nil
}

// resolvePhoto fetches the highest-resolution entry of a message's photo set.
//
// Failure propagates: a message activity with a half-resolved photo is worse
// than a dropped update.
func (t *Translator) resolvePhoto(ctx context.Context, msg *telegram.Message) (*activity.Photo, error) {
	if len(msg.Photo) == 0 {
		return nil, nil
	}

	// The photo set is ordered smallest to largest.
	largest := msg.Photo[len(msg.Photo)-1]

	file, err := t.files.GetFile(ctx, largest.FileID)
	if err != nil {
		return nil, fmt.Errorf("resolve photo file %s: %w", largest.FileID, err)
	}

	data, err := t.files.DownloadFile(ctx, file.FilePath)
	if err != nil {
		return nil, fmt.Errorf("download photo %s: %w", file.FilePath, err)
	}

	return &activity.Photo{File: *file, Data: data}, nil
}

// ToSendRequest maps one outgoing message activity to a flat sendMessage
// payload. Deterministic: no clock, no randomness. Non-message activities are
// not translated; callers filter first.
//
// Unmapped Telegram fields (message tags, quick replies, stickers, persona
// id, notification type) are deliberate extension points on
// telegram.SendMessageRequest.
func (t *Translator) ToSendRequest(act *activity.Activity) telegram.SendMessageRequest {
	req := telegram.SendMessageRequest{
		ChatID: act.Conversation.ID,
		Text:   act.Text,
	}

	if cd := act.ChannelData; cd != nil {
		req.ParseMode = cd.ParseMode
		req.DisableWebPagePreview = cd.NoWebPreview
		if len(cd.ReplyKeyboard) > 0 {
			req.ReplyMarkup = cd.ReplyKeyboard
		}
	}

	// Attachments are the legacy location for the keyboard; channel data wins
	// when both are set.
	if len(req.ReplyMarkup) == 0 && act.Attachments != nil && len(act.Attachments.ReplyKeyboard) > 0 {
		req.ReplyMarkup = act.Attachments.ReplyKeyboard
	}

	return req
}
