package entity

import (
	"fmt"
	"strings"
)

// Summary length controls. Values are in model units (sub-word tokens), not characters.
const (
	MinMaxLength     = 50
	MaxMaxLength     = 300
	DefaultMaxLength = 130

	MinMinLength     = 10
	MaxMinLength     = 150
	DefaultMinLength = 40

	// LengthStep is the granularity offered by the UI range controls.
	LengthStep = 10
)

// Request is one user action: summarize the article at URL within the given bounds.
type Request struct {
	URL       string
	MaxLength int
	MinLength int
}

// NewRequest builds a Request, substituting defaults for zero lengths.
func NewRequest(url string, maxLength, minLength int) Request {
	if maxLength == 0 {
		maxLength = DefaultMaxLength
	}
	if minLength == 0 {
		minLength = DefaultMinLength
	}
	return Request{
		URL:       strings.TrimSpace(url),
		MaxLength: maxLength,
		MinLength: minLength,
	}
}

// Bounds returns the advisory generation bounds for the request.
func (r Request) Bounds() LengthBounds {
	return LengthBounds{Min: r.MinLength, Max: r.MaxLength}
}

// Validate checks the request before any network call is made.
//
// An empty or whitespace-only URL returns ErrEmptyURL. Length values outside the
// control ranges, or a minimum above the maximum, return a *ValidationError.
// Equal minimum and maximum are accepted.
func (r Request) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return ErrEmptyURL
	}
	if r.MaxLength < MinMaxLength || r.MaxLength > MaxMaxLength {
		return &ValidationError{
			Field:   "max_length",
			Message: fmt.Sprintf("must be between %d and %d, got %d", MinMaxLength, MaxMaxLength, r.MaxLength),
		}
	}
	if r.MinLength < MinMinLength || r.MinLength > MaxMinLength {
		return &ValidationError{
			Field:   "min_length",
			Message: fmt.Sprintf("must be between %d and %d, got %d", MinMinLength, MaxMinLength, r.MinLength),
		}
	}
	return r.Bounds().Validate()
}

// LengthBounds is the [Min, Max] summary length handed to a model.
type LengthBounds struct {
	Min int
	Max int
}

// Validate requires positive bounds with Min <= Max.
func (b LengthBounds) Validate() error {
	if b.Min <= 0 || b.Max <= 0 {
		return &ValidationError{
			Field:   "length",
			Message: fmt.Sprintf("bounds must be positive, got [%d, %d]", b.Min, b.Max),
		}
	}
	if b.Min > b.Max {
		return &ValidationError{
			Field:   "min_length",
			Message: fmt.Sprintf("cannot be greater than max_length (%d > %d)", b.Min, b.Max),
		}
	}
	return nil
}
