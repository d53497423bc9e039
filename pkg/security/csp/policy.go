// Package csp builds Content-Security-Policy header values.
package csp

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// directiveOrder keeps the rendered header stable.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"connect-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"object-src",
}

// Builder constructs a policy with a fluent interface.
//
//	policy := NewBuilder().
//	    DefaultSrc("'self'").
//	    ScriptSrc(Nonce(n)).
//	    Build()
//	// "default-src 'self'; script-src 'nonce-...'"
//
// A Builder is not safe for concurrent use.
type Builder struct {
	directives map[string][]string
	reportOnly bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{directives: make(map[string][]string)}
}

func (b *Builder) set(directive string, sources []string) *Builder {
	b.directives[directive] = sources
	return b
}

// DefaultSrc sets default-src.
func (b *Builder) DefaultSrc(sources ...string) *Builder { return b.set("default-src", sources) }

// ScriptSrc sets script-src.
func (b *Builder) ScriptSrc(sources ...string) *Builder { return b.set("script-src", sources) }

// StyleSrc sets style-src.
func (b *Builder) StyleSrc(sources ...string) *Builder { return b.set("style-src", sources) }

// ImgSrc sets img-src.
func (b *Builder) ImgSrc(sources ...string) *Builder { return b.set("img-src", sources) }

// ConnectSrc sets connect-src.
func (b *Builder) ConnectSrc(sources ...string) *Builder { return b.set("connect-src", sources) }

// FrameAncestors sets frame-ancestors.
func (b *Builder) FrameAncestors(sources ...string) *Builder {
	return b.set("frame-ancestors", sources)
}

// FormAction sets form-action.
func (b *Builder) FormAction(sources ...string) *Builder { return b.set("form-action", sources) }

// BaseURI sets base-uri.
func (b *Builder) BaseURI(sources ...string) *Builder { return b.set("base-uri", sources) }

// ObjectSrc sets object-src.
func (b *Builder) ObjectSrc(sources ...string) *Builder { return b.set("object-src", sources) }

// ReportOnly switches the header to Content-Security-Policy-Report-Only.
func (b *Builder) ReportOnly(enabled bool) *Builder {
	b.reportOnly = enabled
	return b
}

// Build renders the policy. Directives without sources are omitted.
func (b *Builder) Build() string {
	var parts []string
	for _, directive := range directiveOrder {
		if sources := b.directives[directive]; len(sources) > 0 {
			parts = append(parts, fmt.Sprintf("%s %s", directive, strings.Join(sources, " ")))
		}
	}
	return strings.Join(parts, "; ")
}

// HeaderName returns the header the policy should be sent in.
func (b *Builder) HeaderName() string {
	if b.reportOnly {
		return "Content-Security-Policy-Report-Only"
	}
	return "Content-Security-Policy"
}

// NewNonce returns a random base64 nonce for one response.
func NewNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate csp nonce: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Nonce formats a nonce as a source expression.
func Nonce(nonce string) string {
	return "'nonce-" + nonce + "'"
}

// PagePolicy is the policy for the HTML page: its only script and stylesheet
// are inline and carry the nonce, and the form posts back to the same origin.
func PagePolicy(nonce string) *Builder {
	return NewBuilder().
		DefaultSrc("'self'").
		ScriptSrc(Nonce(nonce)).
		StyleSrc(Nonce(nonce)).
		ImgSrc("'self'", "data:").
		FrameAncestors("'none'").
		FormAction("'self'").
		BaseURI("'self'").
		ObjectSrc("'none'")
}

// StrictPolicy is the policy for JSON and plain-text responses.
func StrictPolicy() *Builder {
	return NewBuilder().
		DefaultSrc("'none'").
		FrameAncestors("'none'").
		BaseURI("'none'").
		FormAction("'none'")
}
