package metrics

import "github.com/prometheus/client_golang/prometheus"

// DialogMetrics exposes counters/histograms for conversation turns.
type DialogMetrics struct {
	turnsTotal         *prometheus.CounterVec
	extractionFailures prometheus.Counter
	commitsTotal       *prometheus.CounterVec
	turnLatency        prometheus.Histogram
}

func NewDialogMetrics(reg prometheus.Registerer) *DialogMetrics {
	m := &DialogMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "dialog",
			Name:      "turns_total",
			Help:      "Total conversation turns by response branch",
		}, []string{"branch"}),
		extractionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "dialog",
			Name:      "extraction_failures_total",
			Help:      "Entity extraction calls that degraded to an empty mapping",
		}),
		commitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "dialog",
			Name:      "commits_total",
			Help:      "Confirmed bookings by outcome (persisted or demo fallback)",
		}, []string{"outcome"}),
		turnLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "booking",
			Subsystem: "dialog",
			Name:      "turn_latency_seconds",
			Help:      "Latency of processing one conversation turn",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.extractionFailures, m.commitsTotal, m.turnLatency)
	return m
}

func (m *DialogMetrics) ObserveTurn(branch string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(branch).Inc()
}

func (m *DialogMetrics) ObserveExtractionFailure() {
	if m == nil {
		return
	}
	m.extractionFailures.Inc()
}

func (m *DialogMetrics) ObserveCommit(outcome string) {
	if m == nil {
		return
	}
	m.commitsTotal.WithLabelValues(outcome).Inc()
}

func (m *DialogMetrics) ObserveTurnLatency(seconds float64) {
	if m == nil {
		return
	}
	m.turnLatency.Observe(seconds)
}
