package http

import (
	"net/http"

	"link-summarizer/pkg/security/csp"
)

// SecurityHeaders sets a strict content policy and common hardening headers.
// The page handler replaces the policy with a nonce-based one for HTML.
func SecurityHeaders(next http.Handler) http.Handler {
	strict := csp.StrictPolicy()
	header, value := strict.HeaderName(), strict.Build()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set(header, value)
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}
