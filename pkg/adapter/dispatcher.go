package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"tgbridge/pkg/telegram"
)

// ProcessActivity accepts one inbound webhook request, translates the update
// it carries, and runs the logic pipeline to completion before acknowledging.
//
// The acknowledgment is always HTTP 200 with an empty body. Telegram retries
// delivery on any other status, and a retried update that already reached the
// logic layer is worse than a swallowed error; failures surface through logs
// and counters instead.
func (a *Adapter) ProcessActivity(w http.ResponseWriter, r *http.Request, logic Logic) {
	a.processUpdate(r.Context(), r.Body, logic)
	w.WriteHeader(http.StatusOK)
}

// processUpdate handles the one update a webhook request carries. Batched
// update arrays are not a shape Telegram delivers over webhooks.
func (a *Adapter) processUpdate(ctx context.Context, body io.Reader, logic Logic) {
	var update telegram.Update
	if err := json.NewDecoder(body).Decode(&update); err != nil {
		a.log.Warn("Discarding undecodable webhook payload", "error", err)
		return
	}

	kind := update.Kind()
	a.countUpdate(kind)

	if kind == telegram.KindUnknown {
		a.log.Debug("Ignoring unrecognized update shape", "update_id", update.UpdateID)
		return
	}

	act, err := a.translator.FromUpdate(ctx, &update)
	if err != nil {
		a.countTranslationFailure()
		a.log.Error("Failed to translate update", "update_id", update.UpdateID, "kind", kind.String(), "error", err)
		return
	}

	if err := a.runPipeline(ctx, act, logic); err != nil {
		a.countLogicFailure()
		a.log.Error("Bot logic failed", "update_id", update.UpdateID, "error", err)
	}
}
