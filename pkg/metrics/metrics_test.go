package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersRegisterAndIncrement(t *testing.T) {
	t.Parallel()

	m := New(prometheus.NewRegistry())

	m.UpdatesReceived.WithLabelValues("message").Inc()
	m.UpdatesReceived.WithLabelValues("message").Inc()
	m.UpdatesReceived.WithLabelValues("callback_query").Inc()
	m.TranslationFailures.Inc()
	m.ActivitiesSent.WithLabelValues("success").Inc()

	if got := testutil.ToFloat64(m.UpdatesReceived.WithLabelValues("message")); got != 2 {
		t.Fatalf("message updates = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.UpdatesReceived.WithLabelValues("callback_query")); got != 1 {
		t.Fatalf("callback updates = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.TranslationFailures); got != 1 {
		t.Fatalf("translation failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ActivitiesSent.WithLabelValues("success")); got != 1 {
		t.Fatalf("sent activities = %v, want 1", got)
	}
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	t.Parallel()

	first := New(prometheus.NewRegistry())
	second := New(prometheus.NewRegistry())

	first.LogicFailures.Inc()
	if got := testutil.ToFloat64(second.LogicFailures); got != 0 {
		t.Fatalf("second registry logic failures = %v, want 0", got)
	}
}
