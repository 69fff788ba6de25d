package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the lead-qualification chat.
type ChatMetrics struct {
	turnsTotal        *prometheus.CounterVec
	leadsCaptured     prometheus.Counter
	leadPersistErrors prometheus.Counter
	conciergeTotal    *prometheus.CounterVec
	conciergeLatency  prometheus.Histogram
}

// ConciergeLatencyMetric is the fully qualified name of the concierge latency
// histogram, used by the dashboard to read the gathered samples back.
const ConciergeLatencyMetric = "punta360_concierge_latency_seconds"

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "punta360",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Total visitor turns handled, by outcome",
		}, []string{"outcome"}),
		leadsCaptured: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "punta360",
			Subsystem: "chat",
			Name:      "leads_captured_total",
			Help:      "Total leads persisted from chat sessions",
		}),
		leadPersistErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "punta360",
			Subsystem: "chat",
			Name:      "lead_persist_errors_total",
			Help:      "Total lead writes dropped on backend failure",
		}),
		conciergeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "punta360",
			Subsystem: "concierge",
			Name:      "requests_total",
			Help:      "Total concierge completions, by status",
		}, []string{"status"}),
		conciergeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "punta360",
			Subsystem: "concierge",
			Name:      "latency_seconds",
			Help:      "Latency of concierge completions",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.leadsCaptured, m.leadPersistErrors, m.conciergeTotal, m.conciergeLatency)
	return m
}

// ObserveTurn records one handled visitor turn. Outcome is the policy state
// that produced the reply ("ask_timeline", "concierge", "lead_captured", ...).
func (m *ChatMetrics) ObserveTurn(outcome string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(outcome).Inc()
}

func (m *ChatMetrics) ObserveLeadCaptured() {
	if m == nil {
		return
	}
	m.leadsCaptured.Inc()
}

func (m *ChatMetrics) ObserveLeadPersistError() {
	if m == nil {
		return
	}
	m.leadPersistErrors.Inc()
}

// ObserveConcierge records one completion round trip.
func (m *ChatMetrics) ObserveConcierge(status string, seconds float64) {
	if m == nil {
		return
	}
	m.conciergeTotal.WithLabelValues(status).Inc()
	m.conciergeLatency.Observe(seconds)
}
