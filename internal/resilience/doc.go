// Package resilience groups the fault-isolation helpers used around outbound calls.
//
// The circuitbreaker subpackage wraps article downloads and model backend
// requests so that a failing dependency fails fast instead of stalling every
// user request for the full timeout. Calls are never retried.
//
//	cb := circuitbreaker.New(circuitbreaker.ArticleFetchConfig())
//	body, err := circuitbreaker.Do(cb, func() ([]byte, error) {
//	    return download(ctx, url)
//	})
package resilience
