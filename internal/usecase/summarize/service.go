package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"link-summarizer/internal/domain/entity"
	"link-summarizer/internal/observability/logging"
	"link-summarizer/internal/observability/metrics"
	"link-summarizer/internal/observability/tracing"
	"link-summarizer/internal/utils/text"
)

// DefaultMaxInputChars is the character budget applied before summarization.
const DefaultMaxInputChars = 4000

// Service runs the summarization pipeline for one request at a time per caller.
// Runs are strictly sequential: extraction completes and is checked before the
// model is requested, and the model finishes before a Result is returned.
type Service struct {
	Fetcher ArticleFetcher
	Models  ModelProvider

	// MaxInputChars caps the text handed to the model. Zero means DefaultMaxInputChars.
	MaxInputChars int

	inFlight atomic.Int64
}

// NewService creates a Service.
func NewService(fetcher ArticleFetcher, models ModelProvider, maxInputChars int) *Service {
	return &Service{
		Fetcher:       fetcher,
		Models:        models,
		MaxInputChars: maxInputChars,
	}
}

// InProgress returns the number of runs currently fetching or summarizing.
func (s *Service) InProgress() int64 {
	return s.inFlight.Load()
}

// Summarize runs the pipeline for req. Every failure is returned as an *Error
// tagged with its Kind; no partial Result is ever returned.
func (s *Service) Summarize(ctx context.Context, req entity.Request, observers ...StageObserver) (*entity.Result, error) {
	notify := func(stage Stage) {
		for _, o := range observers {
			if o != nil {
				o(stage)
			}
		}
	}

	res, err := s.run(ctx, req, notify)
	if err != nil {
		notify(StageFailed)
		metrics.RecordPipelineOutcome(KindOf(err).String())
		return nil, err
	}
	notify(StageDone)
	metrics.RecordPipelineOutcome("success")
	return res, nil
}

func (s *Service) run(ctx context.Context, req entity.Request, notify func(Stage)) (*entity.Result, error) {
	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))

	// Validation happens before any network call.
	if err := req.Validate(); err != nil {
		kind := KindInvalidRequest
		if strings.TrimSpace(req.URL) == "" {
			kind = KindEmptyInput
		}
		logger.InfoContext(ctx, "summarize request rejected",
			slog.String("kind", kind.String()),
			slog.String("reason", err.Error()))
		return nil, newError(kind, err)
	}

	s.inFlight.Add(1)
	metrics.SummarizeInProgress.Inc()
	defer func() {
		s.inFlight.Add(-1)
		metrics.SummarizeInProgress.Dec()
	}()

	ctx, span := tracing.GetTracer().Start(ctx, "summarize.pipeline")
	defer span.End()
	span.SetAttributes(
		attribute.String("article.url", req.URL),
		attribute.Int("summary.max_length", req.MaxLength),
		attribute.Int("summary.min_length", req.MinLength),
	)

	// Fetch
	notify(StageFetching)
	fetchStart := time.Now()
	article, err := s.fetch(ctx, req.URL)
	fetchDuration := time.Since(fetchStart)
	metrics.FetchDuration.Observe(fetchDuration.Seconds())
	if err != nil {
		kind := KindOf(err)
		if kind != KindNetwork && kind != KindExtraction {
			kind = KindNetwork
		}
		logger.WarnContext(ctx, "article fetch failed",
			slog.String("url", req.URL),
			slog.String("kind", kind.String()),
			slog.Duration("duration", fetchDuration),
			slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, kind.String())
		return nil, newError(kind, err)
	}

	// An empty extraction must never reach the model.
	if strings.TrimSpace(article.Text) == "" {
		err := fmt.Errorf("%w: %s", ErrExtraction, req.URL)
		logger.WarnContext(ctx, "article has no readable text",
			slog.String("url", req.URL),
			slog.Duration("duration", fetchDuration))
		span.SetStatus(codes.Error, KindExtraction.String())
		return nil, newError(KindExtraction, err)
	}
	notify(StageFetched)

	articleLength := text.CountRunes(article.Text)
	metrics.ArticleLength.Observe(float64(articleLength))

	// Truncate
	budget := s.maxInputChars()
	input := text.Truncate(article.Text, budget)
	truncated := len(input) < len(article.Text)
	if truncated {
		metrics.InputTruncatedTotal.Inc()
		logger.InfoContext(ctx, "article text truncated for summarization",
			slog.Int("article_length", articleLength),
			slog.Int("max_input_chars", budget))
	}

	// Summarize
	notify(StageSummarizing)
	summarizeStart := time.Now()
	summary, backend, err := s.summarize(ctx, input, req.Bounds())
	summarizeDuration := time.Since(summarizeStart)
	if err != nil {
		logger.ErrorContext(ctx, "summarization failed",
			slog.String("url", req.URL),
			slog.Duration("duration", summarizeDuration),
			slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, KindModelInference.String())
		return nil, newError(KindModelInference, err)
	}
	metrics.SummarizeDuration.Observe(summarizeDuration.Seconds())

	logger.InfoContext(ctx, "article summarized",
		slog.String("url", req.URL),
		slog.String("backend", backend),
		slog.Int("article_length", articleLength),
		slog.Int("input_length", text.CountRunes(input)),
		slog.Int("summary_length", text.CountRunes(summary)),
		slog.Duration("fetch_duration", fetchDuration),
		slog.Duration("summarize_duration", summarizeDuration))

	return &entity.Result{
		URL:               req.URL,
		Title:             article.Title,
		Byline:            article.Byline,
		ArticleText:       article.Text,
		InputText:         input,
		Truncated:         truncated,
		Summary:           summary,
		Backend:           backend,
		Bounds:            req.Bounds(),
		FetchDuration:     fetchDuration,
		SummarizeDuration: summarizeDuration,
	}, nil
}

func (s *Service) fetch(ctx context.Context, url string) (entity.Article, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "summarize.fetch")
	defer span.End()

	article, err := s.Fetcher.Fetch(ctx, url)
	if err == nil {
		span.SetAttributes(attribute.Int("article.length", text.CountRunes(article.Text)))
	}
	return article, err
}

func (s *Service) summarize(ctx context.Context, input string, bounds entity.LengthBounds) (string, string, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "summarize.model")
	defer span.End()

	model, err := s.Models.Get(ctx)
	if err != nil {
		return "", "", err
	}
	span.SetAttributes(
		attribute.String("model.backend", model.Name()),
		attribute.Int("input.length", text.CountRunes(input)),
	)

	summary, err := model.Summarize(ctx, input, bounds)
	if err != nil {
		return "", model.Name(), err
	}
	if strings.TrimSpace(summary) == "" {
		return "", model.Name(), fmt.Errorf("%w: model %s returned an empty summary", ErrModelInference, model.Name())
	}
	return strings.TrimSpace(summary), model.Name(), nil
}

func (s *Service) maxInputChars() int {
	if s.MaxInputChars <= 0 {
		return DefaultMaxInputChars
	}
	return s.MaxInputChars
}
