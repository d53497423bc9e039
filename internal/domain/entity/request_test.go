package entity

import (
	"errors"
	"testing"
)

func TestNewRequest_Defaults(t *testing.T) {
	req := NewRequest("  https://example.com/a  ", 0, 0)

	if req.URL != "https://example.com/a" {
		t.Errorf("URL = %q, want trimmed URL", req.URL)
	}
	if req.MaxLength != DefaultMaxLength {
		t.Errorf("MaxLength = %d, want %d", req.MaxLength, DefaultMaxLength)
	}
	if req.MinLength != DefaultMinLength {
		t.Errorf("MinLength = %d, want %d", req.MinLength, DefaultMinLength)
	}
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       Request
		wantErr   error
		wantField string
	}{
		{
			name: "defaults are valid",
			req:  Request{URL: "https://example.com/article", MaxLength: 130, MinLength: 40},
		},
		{
			name: "min equals max is valid",
			req:  Request{URL: "https://example.com/article", MaxLength: 50, MinLength: 50},
		},
		{
			name: "range edges are valid",
			req:  Request{URL: "https://example.com/article", MaxLength: 300, MinLength: 150},
		},
		{
			name:    "empty url",
			req:     Request{URL: "", MaxLength: 130, MinLength: 40},
			wantErr: ErrEmptyURL,
		},
		{
			name:    "whitespace url",
			req:     Request{URL: " \t\n", MaxLength: 130, MinLength: 40},
			wantErr: ErrEmptyURL,
		},
		{
			name:      "max below range",
			req:       Request{URL: "https://example.com", MaxLength: 40, MinLength: 10},
			wantErr:   ErrInvalidInput,
			wantField: "max_length",
		},
		{
			name:      "max above range",
			req:       Request{URL: "https://example.com", MaxLength: 310, MinLength: 40},
			wantErr:   ErrInvalidInput,
			wantField: "max_length",
		},
		{
			name:      "min below range",
			req:       Request{URL: "https://example.com", MaxLength: 130, MinLength: 5},
			wantErr:   ErrInvalidInput,
			wantField: "min_length",
		},
		{
			name:      "min above max",
			req:       Request{URL: "https://example.com", MaxLength: 60, MinLength: 100},
			wantErr:   ErrInvalidInput,
			wantField: "min_length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantField != "" {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected *ValidationError, got %T", err)
				}
				if vErr.Field != tt.wantField {
					t.Errorf("Field = %q, want %q", vErr.Field, tt.wantField)
				}
			}
		})
	}
}

func TestLengthBounds_Validate(t *testing.T) {
	tests := []struct {
		name    string
		bounds  LengthBounds
		wantErr bool
	}{
		{"ordered", LengthBounds{Min: 40, Max: 130}, false},
		{"equal", LengthBounds{Min: 50, Max: 50}, false},
		{"zero min", LengthBounds{Min: 0, Max: 130}, true},
		{"negative max", LengthBounds{Min: 10, Max: -1}, true},
		{"inverted", LengthBounds{Min: 131, Max: 130}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bounds.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "max_length", Message: "must be between 50 and 300, got 10"}

	want := "validation error on field 'max_length': must be between 50 and 300, got 10"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ValidationError should unwrap to ErrInvalidInput")
	}
}
