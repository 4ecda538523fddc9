// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics of the signal service.
type Metrics struct {
	AnalysesTotal   *prometheus.CounterVec // labels: instrument, result
	AnalyzeDuration prometheus.Histogram
	RuleOutcomes    *prometheus.CounterVec // labels: instrument, rule, reason

	ProviderRequests *prometheus.CounterVec   // labels: provider, result
	ProviderLatency  *prometheus.HistogramVec // labels: provider

	IngestedCandles *prometheus.CounterVec // labels: granularity
	JournalWrites   *prometheus.CounterVec // labels: result
}

// New creates all collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fxsignal_analyses_total",
			Help: "Instrument analyses by result (ok|error)",
		}, []string{"instrument", "result"}),
		AnalyzeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fxsignal_analyze_duration_seconds",
			Help:    "End-to-end analysis latency including provider fetches",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RuleOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fxsignal_rule_outcomes_total",
			Help: "Trade candidate rule outcomes by reason",
		}, []string{"instrument", "rule", "reason"}),

		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fxsignal_provider_requests_total",
			Help: "Market data provider requests by result (ok|error)",
		}, []string{"provider", "result"}),
		ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fxsignal_provider_request_duration_seconds",
			Help:    "Market data provider request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),

		IngestedCandles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fxsignal_ingested_candles_total",
			Help: "Candles written to history by granularity",
		}, []string{"granularity"}),
		JournalWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fxsignal_journal_writes_total",
			Help: "Signal journal writes by result (ok|error)",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.AnalysesTotal,
		m.AnalyzeDuration,
		m.RuleOutcomes,
		m.ProviderRequests,
		m.ProviderLatency,
		m.IngestedCandles,
		m.JournalWrites,
	)
	return m
}

// ObserveProvider records one provider call.
func (m *Metrics) ObserveProvider(provider string, started time.Time, err error) {
	m.ProviderRequests.WithLabelValues(provider, result(err)).Inc()
	m.ProviderLatency.WithLabelValues(provider).Observe(time.Since(started).Seconds())
}

// ObserveAnalysis records one analysis call.
func (m *Metrics) ObserveAnalysis(instrument string, started time.Time, err error) {
	m.AnalysesTotal.WithLabelValues(instrument, result(err)).Inc()
	m.AnalyzeDuration.Observe(time.Since(started).Seconds())
}

// ObserveRule counts one rule outcome.
func (m *Metrics) ObserveRule(instrument, rule, reason string) {
	m.RuleOutcomes.WithLabelValues(instrument, rule, reason).Inc()
}

// ObserveJournal counts one journal batch write.
func (m *Metrics) ObserveJournal(err error) {
	m.JournalWrites.WithLabelValues(result(err)).Inc()
}

// ObserveIngested counts candles written to history.
func (m *Metrics) ObserveIngested(granularity string, n int) {
	m.IngestedCandles.WithLabelValues(granularity).Add(float64(n))
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
