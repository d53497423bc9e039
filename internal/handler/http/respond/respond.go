// Package respond writes JSON responses and error bodies. Error details that
// may carry credentials are masked before they reach logs.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent.
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// ErrorBody is the payload of every API error response.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

type errorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// Error writes {"error": body} with the given status code.
func Error(w http.ResponseWriter, code int, body ErrorBody) {
	JSON(w, code, errorEnvelope{Error: body})
}

// AppError is an error type that carries a user-facing message.
type AppError struct {
	Code    int    // HTTP status code
	Kind    string // Stable error identifier
	UserMsg string // Message to display to users
	Err     error  // Internal error (logged for debugging)
}

// Error returns the error message, implementing the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMsg
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, kind, userMsg string, err error) *AppError {
	return &AppError{Code: code, Kind: kind, UserMsg: userMsg, Err: err}
}

// SafeError writes err without leaking internals. An *AppError is returned
// with its user message; anything else becomes a generic 500. The internal
// error is logged with credentials masked.
func SafeError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			slog.Default().Warn("request failed",
				slog.Int("code", appErr.Code),
				slog.String("kind", appErr.Kind),
				slog.String("user_message", appErr.UserMsg),
				slog.String("error", SanitizeError(appErr.Err)))
		}
		Error(w, appErr.Code, ErrorBody{Kind: appErr.Kind, Message: appErr.UserMsg})
		return
	}

	slog.Default().Error("internal server error",
		slog.String("error", SanitizeError(err)))
	Error(w, http.StatusInternalServerError, ErrorBody{Kind: "internal", Message: "internal server error"})
}
