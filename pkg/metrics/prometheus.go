package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "maturity_planner"

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal    *prometheus.CounterVec
	cacheTotal      *prometheus.CounterVec
	simulationTotal *prometheus.CounterVec
	warningsTotal   *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a recorder registered on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		fetchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "market_fetches_total",
				Help:      "Market data source fetches by result",
			},
			[]string{"result"},
		),
		cacheTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "market_cache_total",
				Help:      "Market snapshot cache lookups by layer and outcome",
			},
			[]string{"layer", "outcome"},
		),
		simulationTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "simulation_operations_total",
				Help:      "Simulation sandbox operations by result",
			},
			[]string{"operation", "result"},
		),
		warningsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "data_warnings_total",
				Help:      "Data-quality issues found in market data",
			},
			[]string{"kind"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of operations in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch records a market data fetch.
func (r *Recorder) RecordFetch(result string) {
	r.fetchesTotal.WithLabelValues(result).Inc()
}

// RecordCache records a snapshot cache lookup.
func (r *Recorder) RecordCache(layer, outcome string) {
	r.cacheTotal.WithLabelValues(layer, outcome).Inc()
}

func (r *Recorder) RecordSimulation(op, result string) {
	r.simulationTotal.WithLabelValues(op, result).Inc()
}

func (r *Recorder) RecordDataWarning(kind string) {
	r.warningsTotal.WithLabelValues(kind).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordFetch(string) {}
func (Nop) RecordCache(string, string) {}
func (Nop) RecordSimulation(string, string) {}
func (Nop) RecordDataWarning(string) {}
func (Nop) RecordError(string) {}
func (Nop) RecordLatency(string, float64) {}
