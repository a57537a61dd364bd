package libraryevent

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts delivery outcomes of library events
type Metrics struct {
	delivered *prometheus.CounterVec
	failed    *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

// NewMetrics registers the delivery metrics with reg. A nil reg leaves
// them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		delivered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "library_events_delivered_total",
				Help: "Library events acknowledged by the broker",
			},
			[]string{"topic", "event_type"},
		),
		failed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "library_events_delivery_failures_total",
				Help: "Library events the broker rejected or never acknowledged",
			},
			[]string{"topic", "event_type"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "library_events_delivery_duration_seconds",
				Help:    "Time from dispatch to delivery report",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"topic", "outcome"},
		),
	}
}

func (m *Metrics) observeSuccess(topic string, eventType EventType, seconds float64) {
	m.delivered.WithLabelValues(topic, string(eventType)).Inc()
	m.latency.WithLabelValues(topic, "acknowledged").Observe(seconds)
}

func (m *Metrics) observeFailure(topic string, eventType EventType, seconds float64) {
	m.failed.WithLabelValues(topic, string(eventType)).Inc()
	m.latency.WithLabelValues(topic, "rejected").Observe(seconds)
}
