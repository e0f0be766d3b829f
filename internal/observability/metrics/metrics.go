package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ConversationMetrics exposes counters/histograms for conversation turns.
type ConversationMetrics struct {
	turnsTotal    *prometheus.CounterVec
	toolCalls     *prometheus.CounterVec
	bookingsTotal *prometheus.CounterVec
	turnDuration  prometheus.Histogram
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "layla",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Total processed conversation turns",
		}, []string{"status"}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "layla",
			Subsystem: "conversation",
			Name:      "tool_calls_total",
			Help:      "Total dispatched tool calls",
		}, []string{"action", "status"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "layla",
			Subsystem: "conversation",
			Name:      "bookings_total",
			Help:      "Total tour booking attempts",
		}, []string{"outcome"}),
		turnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "layla",
			Subsystem: "conversation",
			Name:      "turn_duration_seconds",
			Help:      "Latency of full turn processing",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.toolCalls, m.bookingsTotal, m.turnDuration)
	return m
}

func (m *ConversationMetrics) ObserveTurn(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(status).Inc()
	m.turnDuration.Observe(d.Seconds())
}

func (m *ConversationMetrics) ObserveToolCall(action, status string) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(action, status).Inc()
}

func (m *ConversationMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}
