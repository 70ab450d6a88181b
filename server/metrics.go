package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sonnes/censor/core"
)

const namespace = "censor"

// Metrics tracks webhook processing on a private registry.
//
// Metrics:
//   - censor_events_total: deliveries by event, action and outcome status
//   - censor_rules_fired_total: fired rules by label
//   - censor_edits_total: edited items by kind
//   - censor_notes_total: notes posted
//   - censor_errors_total: failed deliveries by reason
//   - censor_handle_duration_seconds: time spent handling a delivery
type Metrics struct {
	registry *prometheus.Registry

	events     *prometheus.CounterVec
	rulesFired *prometheus.CounterVec
	edits      *prometheus.CounterVec
	notes      prometheus.Counter
	errors     *prometheus.CounterVec
	duration   prometheus.Histogram
}

// NewMetrics creates and registers the collectors. If registry is nil a new
// one is created.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: registry,
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_total",
				Help:      "Total number of webhook deliveries handled",
			},
			[]string{"event", "action", "status"},
		),
		rulesFired: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rules_fired_total",
				Help:      "Total number of times a rule rewrote a body",
			},
			[]string{"rule"},
		),
		edits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "edits_total",
				Help:      "Total number of edited items",
			},
			[]string{"kind"},
		),
		notes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notes_total",
				Help:      "Total number of notes posted after an edit",
			},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of failed deliveries",
			},
			[]string{"reason"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "handle_duration_seconds",
				Help:      "Duration of webhook handling in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
	}

	registry.MustRegister(m.events, m.rulesFired, m.edits, m.notes, m.errors, m.duration)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordOutcome records a handled delivery.
func (m *Metrics) RecordOutcome(o *core.Outcome, elapsed time.Duration) {
	if m == nil || o == nil || o.Event == nil {
		return
	}
	m.duration.Observe(elapsed.Seconds())
	m.events.WithLabelValues(o.Event.Name, string(o.Event.Action), string(o.Status)).Inc()
	for _, r := range o.Fired {
		m.rulesFired.WithLabelValues(r.Label()).Inc()
	}
	if o.Edited {
		m.edits.WithLabelValues(string(o.Event.Kind)).Inc()
	}
	if o.Commented {
		m.notes.Inc()
	}
}

// RecordError counts a delivery that failed for reason.
func (m *Metrics) RecordError(reason string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(reason).Inc()
}
