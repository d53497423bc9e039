// Package summarizer provides the summarization model backends and the loader
// that constructs one of them once per process.
package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"link-summarizer/internal/domain/entity"
	"link-summarizer/internal/resilience/circuitbreaker"
	"link-summarizer/internal/usecase/summarize"
	"link-summarizer/internal/utils/text"
)

// Warmer is implemented by backends that can load their weights ahead of the
// first real request.
type Warmer interface {
	Warm(ctx context.Context) error
}

// checkInput rejects calls that must never reach a backend.
func checkInput(backend, input string, bounds entity.LengthBounds) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("%w: %s: empty input text", summarize.ErrModelInference, backend)
	}
	if err := bounds.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", summarize.ErrModelInference, backend, err)
	}
	return nil
}

// call is the shared request path of the hosted backends: per-call timeout,
// circuit breaker, error tagging, metrics and logging. It never retries.
type call struct {
	backend  string
	timeout  time.Duration
	breaker  *circuitbreaker.CircuitBreaker
	recorder MetricsRecorder
}

func (c call) run(ctx context.Context, input string, bounds entity.LengthBounds, fn func(context.Context) (string, error)) (string, error) {
	if err := checkInput(c.backend, input, bounds); err != nil {
		return "", err
	}

	timeout := c.timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	slog.DebugContext(ctx, "starting summarization",
		slog.String("backend", c.backend),
		slog.Int("input_length", text.CountRunes(input)),
		slog.Int("min_length", bounds.Min),
		slog.Int("max_length", bounds.Max))

	start := time.Now()
	summary, err := circuitbreaker.Do(c.breaker, func() (string, error) {
		return fn(ctx)
	})
	duration := time.Since(start)

	if err == nil && strings.TrimSpace(summary) == "" {
		err = fmt.Errorf("empty summary returned")
	}
	if err != nil {
		c.recorder.RecordFailure(c.backend, duration, err)
		if circuitbreaker.IsRejection(err) {
			slog.WarnContext(ctx, "model api circuit breaker open, request rejected",
				slog.String("backend", c.backend),
				slog.String("circuit", c.breaker.Name()))
			return "", fmt.Errorf("%w: %s: service temporarily unavailable", summarize.ErrModelInference, c.backend)
		}
		slog.ErrorContext(ctx, "summarization failed",
			slog.String("backend", c.backend),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %s: %v", summarize.ErrModelInference, c.backend, err)
	}

	summary = strings.TrimSpace(summary)
	length := text.CountRunes(summary)
	c.recorder.RecordSummary(c.backend, length, duration)
	slog.InfoContext(ctx, "summarization completed",
		slog.String("backend", c.backend),
		slog.Int("summary_length", length),
		slog.Duration("duration", duration))

	return summary, nil
}

// completionBudget is the output token limit for LLM backends. The bounds are
// advisory, so the hard limit leaves room to finish the last sentence.
func completionBudget(bounds entity.LengthBounds) int {
	return bounds.Max + bounds.Max/2
}

// summaryPrompt instructs an instruction-following model to behave like a
// news summarization model with the given length bounds.
func summaryPrompt(bounds entity.LengthBounds) string {
	return fmt.Sprintf(
		"You summarize news articles. Write a single-paragraph abstractive summary in English "+
			"of the article provided by the user. The summary should be between %d and %d tokens "+
			"(roughly %d to %d words). Report only facts stated in the article. "+
			"Reply with the summary text only, without a heading or preamble.",
		bounds.Min, bounds.Max, bounds.Min*3/4, bounds.Max*3/4)
}
