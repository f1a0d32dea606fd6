package usecase

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records classification outcomes. A nil *Metrics records nothing.
type Metrics struct {
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  prometheus.Histogram
	analyses         *prometheus.CounterVec
}

// NewMetrics registers the analysis metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xray_analyzer",
			Name:      "upstream_requests_total",
			Help:      "Classification calls by outcome.",
		}, []string{"outcome"}),
		upstreamLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "xray_analyzer",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of classification calls.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xray_analyzer",
			Name:      "analysis_results_total",
			Help:      "Normalized analysis results by mode.",
		}, []string{"mode"}),
	}
	reg.MustRegister(m.upstreamRequests, m.upstreamLatency, m.analyses)
	return m
}

func (m *Metrics) observeUpstream(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(outcome).Inc()
	m.upstreamLatency.Observe(elapsed.Seconds())
}

func (m *Metrics) observeAnalysis(mode string) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(mode).Inc()
}
