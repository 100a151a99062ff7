// Package metrics exposes Prometheus counters for the bridge's operator-facing
// diagnostic stream.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects update and delivery outcomes.
//
// Webhook processing never reports failures back to Telegram, so these
// counters are the only place send and translation errors become visible.
type Metrics struct {
	// UpdatesReceived counts inbound webhook updates by payload kind.
	// Labels: kind (message|callback_query|unknown)
	UpdatesReceived *prometheus.CounterVec

	// TranslationFailures counts updates dropped because translation failed,
	// photo resolution included.
	TranslationFailures prometheus.Counter

	// LogicFailures counts turns whose bot logic returned an error after the
	// update was already accepted.
	LogicFailures prometheus.Counter

	// ActivitiesSent counts outbound sendMessage attempts by outcome.
	// Labels: status (success|error|skipped)
	ActivitiesSent *prometheus.CounterVec
}

// New creates and registers the bridge metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		UpdatesReceived: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tgbridge_updates_received_total",
				Help: "Inbound webhook updates by payload kind",
			},
			[]string{"kind"},
		),
		TranslationFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tgbridge_translation_failures_total",
				Help: "Updates dropped because translation failed",
			},
		),
		LogicFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tgbridge_logic_failures_total",
				Help: "Turns whose bot logic returned an error",
			},
		),
		ActivitiesSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tgbridge_activities_sent_total",
				Help: "Outbound send attempts by outcome",
			},
			[]string{"status"},
		),
	}
}

// Default registers the metrics on the global Prometheus registry.
func Default() *Metrics {
	return New(prometheus.DefaultRegisterer)
}
