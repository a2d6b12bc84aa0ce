package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// APIMetrics tracks planner endpoints by outcome code, which the generic HTTP
// middleware cannot see.
type APIMetrics struct {
	Latency *prometheus.HistogramVec
	Errors  *prometheus.CounterVec
}

func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &APIMetrics{
		Latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "maturity_planner",
				Subsystem: "api",
				Name:      "latency_seconds",
				Help:      "Latency of planner endpoints",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		Errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "maturity_planner",
				Subsystem: "api",
				Name:      "errors_total",
				Help:      "Errors by planner endpoint and error code",
			},
			[]string{"endpoint", "code"},
		),
	}
}

// Observe records the latency of one call that started at start.
func (m *APIMetrics) Observe(endpoint string, start time.Time) {
	if m == nil {
		return
	}
	m.Latency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func (m *APIMetrics) Error(endpoint, code string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(endpoint, code).Inc()
}
