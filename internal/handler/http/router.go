// Package http serves the summarizer page, the JSON API, health probes and
// metrics, with the request-scoped middleware they share.
package http

import (
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"link-summarizer/internal/handler/http/requestid"
	"link-summarizer/internal/observability/tracing"
)

// maxRequestBody caps form and JSON bodies; a request carries one URL.
const maxRequestBody = 64 << 10

// RouterConfig wires the handlers.
type RouterConfig struct {
	Service Summarizer
	Model   ModelStatus
	// RequireLoaded makes /ready fail until the model is loaded. Set it when
	// the model is preloaded at start-up.
	RequireLoaded bool
	// Pipeline is optional; when set, /health reports in-flight runs.
	Pipeline InFlightCounter
	// Limiter is optional; nil disables rate limiting.
	Limiter *RateLimiter
	Logger  *slog.Logger
	Version string
	// AllowedOrigins enables CORS on the JSON API for browser clients on
	// other origins. Empty disables CORS.
	AllowedOrigins []string
}

// NewRouter builds the application handler.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	limit := func(h http.Handler) http.Handler { return h }
	if cfg.Limiter != nil {
		limit = cfg.Limiter.Limit
	}

	mux := http.NewServeMux()

	page := &PageHandler{Service: cfg.Service}
	mux.Handle("GET /{$}", page)
	mux.Handle("POST /{$}", limit(page))
	// Preflight requests are answered by the CORS handler and never reach the
	// limiter.
	api := limit(&SummariesHandler{Service: cfg.Service})
	if len(cfg.AllowedOrigins) > 0 {
		api = cors.New(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodPost},
			AllowedHeaders: []string{"Content-Type", requestid.RequestIDHeader},
			ExposedHeaders: []string{requestid.RequestIDHeader, tracing.TraceIDHeader, "Retry-After"},
			MaxAge:         600,
		}).Handler(api)
	}
	mux.Handle("/api/summaries", api)

	mux.Handle("GET /health", &HealthHandler{
		Model:    cfg.Model,
		Pipeline: cfg.Pipeline,
		Limiter:  cfg.Limiter,
		Version:  cfg.Version,
	})
	mux.Handle("GET /ready", &ReadyHandler{Model: cfg.Model, RequireLoaded: cfg.RequireLoaded})
	mux.Handle("GET /live", &LiveHandler{})
	mux.Handle("GET /metrics", MetricsHandler())

	return Chain(mux,
		requestid.Middleware,
		Recover(logger),
		Logging(logger),
		LimitRequestBody(maxRequestBody),
		SecurityHeaders,
		MetricsMiddleware,
		tracing.Middleware,
	)
}
