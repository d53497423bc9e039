// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds.
	// Buckets reach two minutes because a summarize request includes model inference.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80, 120},
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// ActiveConnections tracks the number of in-flight HTTP requests
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	// RateLimitedTotal counts requests rejected by the summarize rate limiter
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"path"},
	)
)

// Pipeline metrics track the summarization pipeline
var (
	// PipelineRunsTotal counts finished pipeline runs by outcome.
	// outcome is "success" or an error kind (network, extraction, ...).
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summarize_runs_total",
			Help: "Total number of summarization pipeline runs by outcome",
		},
		[]string{"outcome"},
	)

	// SummarizeInProgress tracks pipeline runs currently fetching or summarizing
	SummarizeInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "summarize_in_progress",
			Help: "Number of summarization pipeline runs in progress",
		},
	)

	// FetchDuration measures time to download and extract an article
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "article_fetch_duration_seconds",
			Help:    "Time taken to fetch and extract an article",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)

	// SummarizeDuration measures successful model inference time
	SummarizeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summarization_duration_seconds",
			Help:    "Time taken to summarize an article",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	// ArticleLength measures extracted article length in characters
	ArticleLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "article_length_chars",
			Help: "Extracted article length in characters",
			Buckets: []float64{
				250, 500, 1000, 2000, 4000, 8000, 16000, 32000, 64000,
			},
		},
	)

	// InputTruncatedTotal counts articles cut to the model input budget
	InputTruncatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "summarize_input_truncated_total",
			Help: "Total number of articles truncated before summarization",
		},
	)
)

// Model metrics track backend construction and calls
var (
	// ModelLoadDuration measures one-time model construction by backend
	ModelLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_load_duration_seconds",
			Help:    "Time taken to construct and warm a summarization model",
			Buckets: prometheus.ExponentialBuckets(0.01, 3, 10),
		},
		[]string{"backend"},
	)

	// ModelLoadsTotal counts model construction attempts by backend and status
	ModelLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_loads_total",
			Help: "Total number of model construction attempts",
		},
		[]string{"backend", "status"},
	)

	// ModelRequestsTotal counts backend calls by backend and status
	ModelRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_requests_total",
			Help: "Total number of summarization backend requests",
		},
		[]string{"backend", "status"},
	)

	// ModelRequestDuration measures backend call latency, failures included
	ModelRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_request_duration_seconds",
			Help:    "Summarization backend request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"backend"},
	)

	// SummaryLength measures produced summary length in characters
	SummaryLength = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "summary_length_chars",
			Help:    "Generated summary length in characters",
			Buckets: []float64{50, 100, 200, 400, 800, 1600, 3200},
		},
		[]string{"backend"},
	)

	// CircuitBreakerState reports breaker state: 0 closed, 1 half-open, 2 open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"circuit"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordPipelineOutcome counts a finished pipeline run.
func RecordPipelineOutcome(outcome string) {
	PipelineRunsTotal.WithLabelValues(outcome).Inc()
}

// RecordModelLoad records a model construction attempt.
func RecordModelLoad(backend string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	ModelLoadsTotal.WithLabelValues(backend, status).Inc()
	if err == nil {
		ModelLoadDuration.WithLabelValues(backend).Observe(duration.Seconds())
	}
}

// RecordModelRequest records one backend call and, on success, the summary length.
func RecordModelRequest(backend string, duration time.Duration, summaryChars int, err error) {
	ModelRequestDuration.WithLabelValues(backend).Observe(duration.Seconds())
	if err != nil {
		ModelRequestsTotal.WithLabelValues(backend, "failure").Inc()
		return
	}
	ModelRequestsTotal.WithLabelValues(backend, "success").Inc()
	SummaryLength.WithLabelValues(backend).Observe(float64(summaryChars))
}
