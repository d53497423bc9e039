// Package observability groups the logging, metrics and tracing support used by
// the summarizer service and CLI.
//
// Subpackages:
//   - logging: slog construction and request-scoped loggers
//   - metrics: Prometheus collectors for HTTP traffic and the summarization pipeline
//   - tracing: OpenTelemetry tracer, provider setup and HTTP middleware
package observability
