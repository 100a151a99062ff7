// Package adapter bridges Telegram's webhook protocol and the normalized
// activity model consumed by the bot logic pipeline.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tgbridge/pkg/activity"
	"tgbridge/pkg/config"
	"tgbridge/pkg/metrics"
	"tgbridge/pkg/telegram"
)

// ErrNotSupported marks adapter operations the Telegram bridge does not
// implement. Callers probing optimistically check with errors.Is instead of
// crashing on an unexpected failure.
var ErrNotSupported = errors.New("not supported by the telegram adapter")

// API is the Telegram client surface the adapter depends on.
type API interface {
	FileFetcher
	SendMessage(ctx context.Context, req telegram.SendMessageRequest) (*telegram.Message, error)
	GetWebhookInfo(ctx context.Context) (*telegram.WebhookInfo, error)
	DeleteWebhook(ctx context.Context) error
	SetWebhook(ctx context.Context, url string) error
}

// Adapter composes the translator, dispatcher, and middleware pipeline behind
// the standard adapter contract: init, send, continue conversation.
//
// The adapter carries no per-update state, so concurrent webhook requests
// need no cross-request locking.
type Adapter struct {
	api         API
	translator  *Translator
	middlewares []Middleware
	stats       *metrics.Metrics
	webhookHost string
	log         *slog.Logger
}

// New validates the configuration and constructs an adapter. The metrics
// argument may be nil when no diagnostic counters are wanted.
func New(cfg config.TelegramConfig, api API, stats *metrics.Metrics, log *slog.Logger) (*Adapter, error) {
	if api == nil {
		return nil, errors.New("telegram api client is required")
	}

	if log == nil {
		log = slog.Default()
	}

	return &Adapter{
		api:         api,
		translator:  NewTranslator(api, log),
		stats:       stats,
		webhookHost: strings.TrimRight(strings.TrimSpace(cfg.WebhookHost), "/"),
		log:         log.With("component", "telegram.adapter"),
	}, nil
}

// Use appends middleware to the turn pipeline, run in registration order
// before the bot logic.
func (a *Adapter) Use(mw ...Middleware) {
	a.middlewares = append(a.middlewares, mw...)
}

// API returns the underlying Telegram client for handlers that need raw Bot
// API access.
func (a *Adapter) API() API {
	return a.api
}

// Translator returns the activity translator, mainly for reuse in tests and
// tooling.
func (a *Adapter) Translator() *Translator {
	return a.translator
}

// Init idempotently registers the webhook for inbound updates.
//
// Any previous registration is deleted before the new URL is set; the bot
// holds a single webhook and two URLs must never be briefly active together.
func (a *Adapter) Init(ctx context.Context, webhookPath string) error {
	if a.webhookHost == "" {
		return errors.New("telegram.webhook_host is required to register the webhook")
	}

	url := a.webhookHost + webhookPath

	info, err := a.api.GetWebhookInfo(ctx)
	if err != nil {
		return fmt.Errorf("get webhook info: %w", err)
	}
	a.log.Info("Replacing webhook registration", "current_url", info.URL, "new_url", url)

	if err := a.api.DeleteWebhook(ctx); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}

	if err := a.api.SetWebhook(ctx, url); err != nil {
		return fmt.Errorf("set webhook %s: %w", url, err)
	}

	a.log.Info("Webhook registered", "url", url)
	return nil
}

// SendActivities delivers outbound activities in order, translating only
// message-kind ones. Each send is independent: a failed item is reported in
// the joined error while later items still go out, and the response list
// carries the remote message ids of the successes only.
func (a *Adapter) SendActivities(ctx context.Context, activities []*activity.Activity) ([]activity.ResourceResponse, error) {
	responses := make([]activity.ResourceResponse, 0, len(activities))
	var errs []error

	for _, act := range activities {
		if act == nil {
			continue
		}

		if act.Type != activity.TypeMessage {
			a.log.Debug("Skipping non-message activity", "type", string(act.Type), "name", act.Name)
			a.countSend("skipped")
			continue
		}

		msg, err := a.api.SendMessage(ctx, a.translator.ToSendRequest(act))
		if err != nil {
			a.log.Error("Failed to send activity", "chat_id", act.Conversation.ID, "error", err)
			a.countSend("error")
			errs = append(errs, fmt.Errorf("send to chat %d: %w", act.Conversation.ID, err))
			continue
		}

		a.countSend("success")
		responses = append(responses, activity.ResourceResponse{ID: msg.MessageID})
	}

	return responses, errors.Join(errs...)
}

// UpdateActivity reports the unsupported operation without touching the
// network.
func (a *Adapter) UpdateActivity(ctx context.Context, act *activity.Activity) error {
	_ = ctx
	a.log.Debug("updateActivity requested but not supported")
	return fmt.Errorf("updateActivity: %w", ErrNotSupported)
}

// DeleteActivity reports the unsupported operation without touching the
// network.
func (a *Adapter) DeleteActivity(ctx context.Context, ref activity.ConversationReference) error {
	_ = ctx
	a.log.Debug("deleteActivity requested but not supported", "conversation_id", ref.Conversation.ID)
	return fmt.Errorf("deleteActivity: %w", ErrNotSupported)
}

// ContinueConversation synthesizes a continuation turn from a saved
// conversation reference and re-enters the standard pipeline. Used for
// bot-initiated messaging outside a webhook exchange.
func (a *Adapter) ContinueConversation(ctx context.Context, ref activity.ConversationReference, logic Logic) error {
	return a.runPipeline(ctx, ref.Continuation(time.Now().UTC()), logic)
}

// runPipeline wraps an activity in a turn context and runs middleware then
// logic, middleware in registration order.
func (a *Adapter) runPipeline(ctx context.Context, act *activity.Activity, logic Logic) error {
	turn := &TurnContext{Activity: act, adapter: a}

	handler := func(ctx context.Context) error {
		if logic == nil {
			return nil
		}
		return logic(ctx, turn)
	}

	for i := len(a.middlewares) - 1; i >= 0; i-- {
		mw, next := a.middlewares[i], handler
		handler = func(ctx context.Context) error {
			return mw.OnTurn(ctx, turn, next)
		}
	}

	return handler(ctx)
}

func (a *Adapter) countSend(status string) {
	if a.stats != nil {
		a.stats.ActivitiesSent.WithLabelValues(status).Inc()
	}
}

func (a *Adapter) countUpdate(kind telegram.UpdateKind) {
	if a.stats != nil {
		a.stats.UpdatesReceived.WithLabelValues(kind.String()).Inc()
	}
}

func (a *Adapter) countTranslationFailure() {
	if a.stats != nil {
		a.stats.TranslationFailures.Inc()
	}
}

func (a *Adapter) countLogicFailure() {
	if a.stats != nil {
		a.stats.LogicFailures.Inc()
	}
}
