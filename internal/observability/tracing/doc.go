// Package tracing provides OpenTelemetry tracing for the HTTP server and the
// summarization pipeline.
//
// Setup installs a global tracer provider and W3C propagator. Without Setup the
// global no-op provider is used and spans cost nothing.
//
//	shutdown, err := tracing.Setup(tracing.Options{Enabled: true, ServiceName: "link-summarizer"})
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.GetTracer().Start(ctx, "summarize.fetch")
//	defer span.End()
package tracing
