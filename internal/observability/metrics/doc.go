// Package metrics provides the Prometheus collectors exposed on /metrics.
//
// Collectors are registered with the default registry through promauto.
// HTTP collectors are fed by the handler middleware; pipeline collectors are
// fed by the summarization service, the model loader and the backends.
//
// Example usage:
//
//	start := time.Now()
//	// ... fetch article ...
//	metrics.FetchDuration.Observe(time.Since(start).Seconds())
//	metrics.RecordPipelineOutcome("success")
package metrics
