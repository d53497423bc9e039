package http

import (
	"net/http"
	"time"

	"link-summarizer/internal/handler/http/respond"
	"link-summarizer/internal/infra/summarizer"
)

// ModelStatus reports the state of the process-wide model without loading it.
type ModelStatus interface {
	Info() summarizer.ModelInfo
}

// InFlightCounter reports the number of running summarize pipelines.
type InFlightCounter interface {
	InProgress() int64
}

// HealthResponse is the JSON body of the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Version   string                 `json:"version"`
	Checks    map[string]CheckStatus `json:"checks"`
}

// CheckStatus is the status of one health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthHandler reports model and pipeline state. It never triggers a model
// load and never blocks on one in progress.
type HealthHandler struct {
	Model    ModelStatus
	Pipeline InFlightCounter
	Limiter  *RateLimiter
	Version  string
}

// ServeHTTP always answers 200; readiness is reported by ReadyHandler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus)

	if h.Model != nil {
		info := h.Model.Info()
		status := CheckStatus{
			Status: "healthy",
			Details: map[string]any{
				"backend":    info.Backend,
				"loaded":     info.Loaded,
				"serialized": info.Serialized,
			},
		}
		if info.Loaded {
			status.Details["loaded_at"] = info.LoadedAt.UTC().Format(time.RFC3339)
			status.Details["load_duration_ms"] = info.LoadDuration.Milliseconds()
		} else {
			status.Status = "degraded"
			status.Message = "model not loaded yet"
		}
		checks["model"] = status
	}

	if h.Pipeline != nil {
		checks["pipeline"] = CheckStatus{
			Status:  "healthy",
			Details: map[string]any{"in_progress": h.Pipeline.InProgress()},
		}
	}

	if h.Limiter != nil {
		checks["rate_limiter"] = CheckStatus{
			Status:  "healthy",
			Details: map[string]any{"active_clients": h.Limiter.Clients()},
		}
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.Version,
		Checks:    checks,
	})
}

// ReadyHandler reports whether the service can take summarize traffic. When
// RequireLoaded is set (the model is preloaded at start-up) it answers 503
// until the model is loaded. Otherwise the model loads on the first request,
// so the service is ready as soon as it serves.
type ReadyHandler struct {
	Model         ModelStatus
	RequireLoaded bool
}

// ServeHTTP performs the readiness check.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	loaded := h.Model != nil && h.Model.Info().Loaded
	switch {
	case loaded:
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	case h.RequireLoaded:
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("model not loaded"))
	default:
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready; model: not loaded (lazy)"))
	}
}

// LiveHandler answers 200 while the process can serve requests.
type LiveHandler struct{}

// ServeHTTP always returns 200 OK.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
