package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for the chat flow. All
// methods are safe on a nil receiver so wiring metrics stays optional.
type ConversationMetrics struct {
	turnsTotal        *prometheus.CounterVec
	bookingsCompleted prometheus.Counter
	searchTotal       *prometheus.CounterVec
	searchLatency     prometheus.Histogram
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "appointbot",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Total conversation turns by outcome",
		}, []string{"outcome"}),
		bookingsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "appointbot",
			Subsystem: "conversation",
			Name:      "bookings_completed_total",
			Help:      "Total booking flows carried to completion",
		}),
		searchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "appointbot",
			Subsystem: "knowledge",
			Name:      "search_total",
			Help:      "Total document searches by resolving tier",
		}, []string{"tier"}),
		searchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "appointbot",
			Subsystem: "knowledge",
			Name:      "search_latency_seconds",
			Help:      "Latency of document search, all tiers included",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.bookingsCompleted, m.searchTotal, m.searchLatency)
	return m
}

// ObserveTurn records one handled turn. Outcomes are coarse: collecting,
// booking_started, reset, answered, no_results, error.
func (m *ConversationMetrics) ObserveTurn(outcome string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(outcome).Inc()
}

func (m *ConversationMetrics) ObserveBookingCompleted() {
	if m == nil {
		return
	}
	m.bookingsCompleted.Inc()
}

// ObserveSearch records which fallback tier produced the answer: exact,
// keywords, or unrestricted.
func (m *ConversationMetrics) ObserveSearch(tier string, seconds float64) {
	if m == nil {
		return
	}
	m.searchTotal.WithLabelValues(tier).Inc()
	m.searchLatency.Observe(seconds)
}
