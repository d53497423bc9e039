// Package summarize implements the article summarization pipeline:
// validate -> fetch -> check extraction -> truncate -> summarize.
// It owns the error taxonomy every layer reports against and the single
// function that turns those errors into user-facing text.
package summarize

import (
	"errors"
	"fmt"

	"link-summarizer/internal/domain/entity"
)

// Sentinel errors reported by infrastructure adapters.
var (
	// ErrNetwork indicates the article could not be downloaded: unreachable host,
	// DNS/TLS failure, timeout, non-2xx status, oversized body or refused URL.
	ErrNetwork = errors.New("article download failed")

	// ErrParse indicates the page was downloaded but its HTML could not be parsed
	// into an article.
	ErrParse = errors.New("article could not be parsed")

	// ErrExtraction indicates the download succeeded but no readable text was found.
	ErrExtraction = errors.New("no readable article text found")

	// ErrModelInference indicates the summarization model could not process the input
	// or could not be constructed.
	ErrModelInference = errors.New("summarization model failed")
)

// Kind classifies a pipeline failure.
type Kind int

// Error kinds, in the order a request can hit them.
const (
	KindUnknown Kind = iota
	KindEmptyInput
	KindInvalidRequest
	KindNetwork
	KindExtraction
	KindModelInference
)

// String returns the stable identifier used in logs, metrics and the JSON API.
func (k Kind) String() string {
	switch k {
	case KindEmptyInput:
		return "empty_input"
	case KindInvalidRequest:
		return "invalid_request"
	case KindNetwork:
		return "network"
	case KindExtraction:
		return "extraction"
	case KindModelInference:
		return "model_inference"
	default:
		return "unknown"
	}
}

// Error is a pipeline failure tagged with its Kind.
type Error struct {
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf classifies any error returned by the pipeline or its adapters.
// Untagged errors that match no sentinel are treated as model failures, the
// same catch-all the top level applies to anything unexpected.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}

	switch {
	case errors.Is(err, entity.ErrEmptyURL):
		return KindEmptyInput
	case errors.Is(err, entity.ErrInvalidInput):
		return KindInvalidRequest
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.Is(err, ErrParse), errors.Is(err, ErrExtraction):
		return KindExtraction
	default:
		return KindModelInference
	}
}

// Level is the severity a presentation layer should use for a Message.
type Level string

// Message levels.
const (
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Hint is the guidance shown with every fetch, extraction and model failure.
const Hint = "Check that the link is correct and that the article is not behind a login or paywall."

// Message is the user-facing rendering of a pipeline error.
type Message struct {
	Kind  Kind
	Level Level
	Text  string
	Hint  string
}

// Render maps an error to the text shown to the user. It is the only place
// where error kinds become words.
func Render(err error) Message {
	kind := KindOf(err)

	switch kind {
	case KindEmptyInput:
		return Message{Kind: kind, Level: LevelWarning, Text: "Please enter a news article link first."}
	case KindInvalidRequest:
		return Message{Kind: kind, Level: LevelWarning, Text: fmt.Sprintf("Invalid summary length settings: %s", detail(err))}
	case KindNetwork:
		return Message{Kind: kind, Level: LevelError, Text: "Could not load the article.", Hint: Hint}
	case KindExtraction:
		return Message{Kind: kind, Level: LevelError, Text: "Could not read the article text from that page.", Hint: Hint}
	default:
		return Message{Kind: KindModelInference, Level: LevelError, Text: fmt.Sprintf("An error occurred while summarizing: %s", detail(err)), Hint: Hint}
	}
}

// detail returns the innermost useful message for display.
func detail(err error) string {
	var vErr *entity.ValidationError
	if errors.As(err, &vErr) {
		return fmt.Sprintf("%s %s", vErr.Field, vErr.Message)
	}
	return err.Error()
}
