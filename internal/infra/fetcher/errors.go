package fetcher

import (
	"errors"
	"fmt"
	"net/http"

	"link-summarizer/internal/usecase/summarize"
)

// Download failures. Each wraps summarize.ErrNetwork.
var (
	ErrInvalidURL       = fmt.Errorf("%w: invalid url", summarize.ErrNetwork)
	ErrPrivateIP        = fmt.Errorf("%w: private address refused", summarize.ErrNetwork)
	ErrTooManyRedirects = fmt.Errorf("%w: too many redirects", summarize.ErrNetwork)
	ErrTimeout          = fmt.Errorf("%w: request timed out", summarize.ErrNetwork)
	ErrBodyTooLarge     = fmt.Errorf("%w: response body too large", summarize.ErrNetwork)
	ErrHTTPStatus       = fmt.Errorf("%w: unexpected http status", summarize.ErrNetwork)
	ErrCircuitOpen      = fmt.Errorf("%w: article downloads temporarily suspended", summarize.ErrNetwork)
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s", e.Code, http.StatusText(e.Code))
}

// Unwrap lets errors.Is match ErrHTTPStatus.
func (e *StatusError) Unwrap() error {
	return ErrHTTPStatus
}

// clientSide reports failures caused by the requested page rather than by the
// network path; they do not count against the circuit breaker.
func clientSide(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code < http.StatusInternalServerError
	}
	return errors.Is(err, ErrBodyTooLarge) ||
		errors.Is(err, ErrTooManyRedirects) ||
		errors.Is(err, ErrPrivateIP) ||
		errors.Is(err, ErrInvalidURL)
}
