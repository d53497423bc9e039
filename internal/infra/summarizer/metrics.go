package summarizer

import (
	"time"

	"link-summarizer/internal/observability/metrics"
)

// MetricsRecorder records the outcome of backend calls. It is an interface so
// tests can observe calls without reading Prometheus collectors.
type MetricsRecorder interface {
	// RecordSummary records a successful call and the summary length in characters.
	RecordSummary(backend string, length int, duration time.Duration)

	// RecordFailure records a failed call.
	RecordFailure(backend string, duration time.Duration, err error)
}

// PrometheusMetrics implements MetricsRecorder with the shared collectors in
// the metrics package.
type PrometheusMetrics struct{}

// NewPrometheusMetrics returns the Prometheus recorder.
func NewPrometheusMetrics() PrometheusMetrics {
	return PrometheusMetrics{}
}

// RecordSummary implements MetricsRecorder.
func (PrometheusMetrics) RecordSummary(backend string, length int, duration time.Duration) {
	metrics.RecordModelRequest(backend, duration, length, nil)
}

// RecordFailure implements MetricsRecorder.
func (PrometheusMetrics) RecordFailure(backend string, duration time.Duration, err error) {
	metrics.RecordModelRequest(backend, duration, 0, err)
}
