// Package metrics exposes the Prometheus instruments for the analysis
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for the records counter.
const (
	OutcomeClassified = "classified"
	OutcomeFallback   = "fallback"
	OutcomeFailed     = "failed"
)

// Metrics holds the pipeline instruments.
type Metrics struct {
	RecordsProcessed *prometheus.CounterVec
	GatewayRetries   prometheus.Counter
	GatewayLatency   prometheus.Histogram
}

// New registers the pipeline metrics with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RecordsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "analysis_records_processed_total",
			Help: "Opportunity records processed, by outcome.",
		}, []string{"outcome"}),
		GatewayRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "analysis_gateway_retries_total",
			Help: "Gateway calls retried after a retryable failure.",
		}),
		GatewayLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "analysis_gateway_latency_seconds",
			Help:    "Latency of calls to the classification service.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}
}
