// Package metrics provides Prometheus metrics collection for the price
// estimation service: prediction throughput, failures, latency, model age and
// the distribution of served price estimates.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	PredictionsTotal   prometheus.Counter   // Total number of predictions served
	PredictionFailures prometheus.Counter   // Total number of model inference failures
	EncodeErrors       prometheus.Counter   // Total number of rejected input records
	PredictionLatency  prometheus.Histogram // End-to-end prediction latency in seconds
	ModelAge           prometheus.Gauge     // Age of the loaded model artifact in seconds
	PredictedPrices    prometheus.Histogram // Distribution of predicted prices in euros
	ModelDownloads     prometheus.Counter   // Total number of model artifact downloads
}

// New creates and registers all metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry, which keeps tests
// isolated from the global Prometheus state.
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		PredictionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of price predictions served",
		}),
		PredictionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "prediction_failures_total",
			Help: "Total number of model inference failures",
		}),
		EncodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "encode_errors_total",
			Help: "Total number of input records rejected by the feature encoder",
		}),
		PredictionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_latency_seconds",
			Help:    "End-to-end prediction latency in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}),
		ModelAge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "model_age_seconds",
			Help: "Age of the loaded model artifact in seconds",
		}),
		PredictedPrices: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "predicted_price_euros",
			Help:    "Distribution of predicted property prices in euros",
			Buckets: prometheus.ExponentialBuckets(50_000, 2, 8),
		}),
		ModelDownloads: factory.NewCounter(prometheus.CounterOpts{
			Name: "model_downloads_total",
			Help: "Total number of model artifact downloads",
		}),
	}
}

// The methods below satisfy ml.MetricsInterface so the predictor never
// imports prometheus directly.

func (m *Metrics) PredictionsInc()          { m.PredictionsTotal.Inc() }
func (m *Metrics) FailuresInc()             { m.PredictionFailures.Inc() }
func (m *Metrics) EncodeErrorsInc()         { m.EncodeErrors.Inc() }
func (m *Metrics) LatencyObserve(v float64) { m.PredictionLatency.Observe(v) }
func (m *Metrics) ModelAgeSet(v float64)    { m.ModelAge.Set(v) }
func (m *Metrics) PriceObserve(v float64)   { m.PredictedPrices.Observe(v) }

// DownloadsInc satisfies ml.DownloadMetrics.
func (m *Metrics) DownloadsInc() { m.ModelDownloads.Inc() }
