package summarize

import (
	"context"

	"link-summarizer/internal/domain/entity"
)

// ArticleFetcher downloads a page and extracts its article text.
//
// Implementations issue one outbound request per call and never retry.
// A returned Article with empty Text and a nil error means the page had no
// readable content; the pipeline reports that as an extraction failure.
// Download failures should wrap ErrNetwork and HTML failures ErrParse.
type ArticleFetcher interface {
	Fetch(ctx context.Context, url string) (entity.Article, error)
}

// Model is a loaded summarization model.
//
// Summarize must be deterministic: identical text and bounds against the same
// model produce the same output. The bounds are advisory to the decoder.
// Failures should wrap ErrModelInference.
type Model interface {
	Summarize(ctx context.Context, text string, bounds entity.LengthBounds) (string, error)
	Name() string
}

// ModelProvider hands out the process-wide model, constructing it on first use.
type ModelProvider interface {
	Get(ctx context.Context) (Model, error)
}
