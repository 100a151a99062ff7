package adapter

import (
	"context"

	"tgbridge/pkg/activity"
)

// Logic is the bot-side handler invoked once per turn.
type Logic func(ctx context.Context, turn *TurnContext) error

// TurnContext is the per-update scope the logic pipeline runs in. It carries
// the current activity and allows outbound replies within the same exchange.
type TurnContext struct {
	// Activity is the normalized event for this turn. Middleware may replace
	// it with a derived value; it never mutates a shared payload in place.
	Activity *activity.Activity

	adapter *Adapter
}

// SendActivity delivers reply activities through the adapter's send path.
func (tc *TurnContext) SendActivity(ctx context.Context, activities ...*activity.Activity) ([]activity.ResourceResponse, error) {
	return tc.adapter.SendActivities(ctx, activities)
}

// API exposes the Telegram client for turn handlers that need raw Bot API
// access beyond activity translation.
func (tc *TurnContext) API() API {
	return tc.adapter.API()
}

// Middleware runs before the bot logic for every turn.
type Middleware interface {
	OnTurn(ctx context.Context, turn *TurnContext, next func(context.Context) error) error
}

// EventCallbackQuery is the semantic label stamped on button-press turns.
const EventCallbackQuery = "telegram_callback_query"

// EventTypeMiddleware annotates each turn's channel data with a semantic
// event-type label derived from the payload shape.
//
// The rule set is intentionally minimal. Additional shapes (postbacks, read
// receipts, account linking) slot into classifyEventType without touching the
// dispatcher or translator.
type EventTypeMiddleware struct{}

// OnTurn stamps the event type and passes control on. Runs for every turn;
// a turn without channel data is left untouched.
func (EventTypeMiddleware) OnTurn(ctx context.Context, turn *TurnContext, next func(context.Context) error) error {
	if turn.Activity != nil && turn.Activity.ChannelData != nil {
		turn.Activity = withEventType(turn.Activity)
	}

	return next(ctx)
}

// withEventType returns a copy of the activity whose channel data carries the
// classified event type, leaving the original value untouched.
func withEventType(act *activity.Activity) *activity.Activity {
	stamped := *act
	data := *act.ChannelData
	data.EventType = classifyEventType(&data)
	stamped.ChannelData = &data

	return &stamped
}

// classifyEventType maps a channel payload shape to its semantic label.
// Unclassified shapes yield the empty label.
func classifyEventType(data *activity.ChannelData) string {
	if data.CallbackQuery != nil {
		return EventCallbackQuery
	}

	return ""
}
