package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// planning service.
type Metrics struct {
	ScenariosEvaluated prometheus.Counter
	ScenarioFailures   prometheus.Counter
	PipelineRunning    prometheus.Gauge

	// Batch processing metrics for the Kafka pipeline.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// HTTP API metrics.
	HTTPRequests *prometheus.CounterVec   // labels: endpoint, status
	HTTPDuration *prometheus.HistogramVec // labels: endpoint

	// Climatology seeding metrics.
	ClimatologyRequests    *prometheus.CounterVec   // labels: outcome={success,error}
	ClimatologyCache       *prometheus.CounterVec   // labels: result={hit,miss}
	ClimatologyAPIDuration prometheus.Histogram
	ClimatologyEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ScenariosEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainharvest",
			Name:      "scenarios_evaluated_total",
			Help:      "Total scenarios evaluated successfully.",
		}),
		ScenarioFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainharvest",
			Name:      "scenario_failures_total",
			Help:      "Total scenarios that failed parsing or evaluation.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rainharvest",
			Name:      "pipeline_running",
			Help:      "1 when the Kafka scenario pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rainharvest",
			Name:      "batch_size",
			Help:      "Number of scenario requests per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rainharvest",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-evaluate-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainharvest",
			Name:      "http_requests_total",
			Help:      "HTTP API requests by endpoint and status code.",
		}, []string{"endpoint", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rainharvest",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP API request duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}, []string{"endpoint"}),
		ClimatologyRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainharvest",
			Name:      "climatology_requests_total",
			Help:      "Climatology API requests by outcome.",
		}, []string{"outcome"}),
		ClimatologyCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainharvest",
			Name:      "climatology_cache_total",
			Help:      "Climatology cache lookups by result.",
		}, []string{"result"}),
		ClimatologyAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rainharvest",
			Name:      "climatology_api_duration_seconds",
			Help:      "Open-Meteo API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		ClimatologyEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rainharvest",
			Name:      "climatology_enabled",
			Help:      "1 when climatology seeding is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.ScenariosEvaluated,
		m.ScenarioFailures,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.HTTPRequests,
		m.HTTPDuration,
		m.ClimatologyRequests,
		m.ClimatologyCache,
		m.ClimatologyAPIDuration,
		m.ClimatologyEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ScenariosEvaluated:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "rainharvest", Name: "scenarios_evaluated_total"}),
		ScenarioFailures:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "rainharvest", Name: "scenario_failures_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "rainharvest", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "rainharvest", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "rainharvest", Name: "batch_processing_duration_seconds"}),
		HTTPRequests:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rainharvest", Name: "http_requests_total"}, []string{"endpoint", "status"}),
		HTTPDuration:            prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "rainharvest", Name: "http_request_duration_seconds"}, []string{"endpoint"}),
		ClimatologyRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rainharvest", Name: "climatology_requests_total"}, []string{"outcome"}),
		ClimatologyCache:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rainharvest", Name: "climatology_cache_total"}, []string{"result"}),
		ClimatologyAPIDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "rainharvest", Name: "climatology_api_duration_seconds"}),
		ClimatologyEnabled:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "rainharvest", Name: "climatology_enabled"}),
	}
}
