package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"link-summarizer/internal/domain/entity"
	"link-summarizer/internal/observability/metrics"
	"link-summarizer/internal/usecase/summarize"
)

// Factory constructs a model. It is called by the Loader, at most once per
// successful load.
type Factory func(ctx context.Context) (summarize.Model, error)

// NewFactory returns a Factory for the backend selected in settings.
func NewFactory(settings Settings, httpClient *http.Client) Factory {
	return func(ctx context.Context) (summarize.Model, error) {
		if err := settings.Validate(); err != nil {
			return nil, err
		}
		switch strings.ToLower(settings.Backend) {
		case BackendHuggingFace:
			return NewHuggingFace(settings.HuggingFace, httpClient, nil), nil
		case BackendOpenAI:
			return NewOpenAI(settings.OpenAI, httpClient, nil), nil
		case BackendClaude:
			return NewClaude(settings.Claude, httpClient, nil), nil
		case BackendLead:
			return NewLead(nil), nil
		default:
			return nil, fmt.Errorf("unknown summarizer backend %q", settings.Backend)
		}
	}
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	// Serialize runs at most one inference at a time across the process.
	Serialize bool
	// Warm calls Warm on backends that implement Warmer before first use.
	Warm bool
}

// ModelInfo describes the loader state for readiness reporting.
type ModelInfo struct {
	Backend      string        `json:"backend"`
	Loaded       bool          `json:"loaded"`
	LoadedAt     time.Time     `json:"loaded_at,omitempty"`
	LoadDuration time.Duration `json:"load_duration_ns,omitempty"`
	Serialized   bool          `json:"serialized"`
}

type loaded struct {
	model    summarize.Model
	at       time.Time
	duration time.Duration
}

// Loader holds the process-wide summarization model. The model is built on the
// first Get and reused for the lifetime of the process. Concurrent first
// callers wait for a single construction and give up when their own context
// ends. A failed construction is not cached: the next Get tries again.
type Loader struct {
	backend string
	factory Factory
	opts    LoaderOptions

	mu      sync.Mutex
	loading chan struct{} // closed when the load in progress finishes; guarded by mu
	current atomic.Pointer[loaded]
}

var _ summarize.ModelProvider = (*Loader)(nil)

// NewLoader creates a Loader. backend names the model in logs and metrics.
func NewLoader(backend string, factory Factory, opts LoaderOptions) *Loader {
	return &Loader{
		backend: backend,
		factory: factory,
		opts:    opts,
	}
}

// Get returns the model, constructing it on first use.
func (l *Loader) Get(ctx context.Context) (summarize.Model, error) {
	for {
		if cur := l.current.Load(); cur != nil {
			return cur.model, nil
		}

		l.mu.Lock()
		if cur := l.current.Load(); cur != nil {
			l.mu.Unlock()
			return cur.model, nil
		}
		if wait := l.loading; wait != nil {
			l.mu.Unlock()
			select {
			case <-wait:
				// Loaded, or failed and up for another attempt.
				continue
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: waiting for %s model: %w", summarize.ErrModelInference, l.backend, ctx.Err())
			}
		}
		done := make(chan struct{})
		l.loading = done
		l.mu.Unlock()

		model, err := l.load(ctx)

		l.mu.Lock()
		l.loading = nil
		l.mu.Unlock()
		close(done)

		return model, err
	}
}

// load constructs the model and publishes it on success.
func (l *Loader) load(ctx context.Context) (summarize.Model, error) {
	logger := slog.Default().With(slog.String("backend", l.backend))
	logger.InfoContext(ctx, "loading summarization model")

	start := time.Now()
	model, err := l.build(ctx)
	duration := time.Since(start)
	metrics.RecordModelLoad(l.backend, duration, err)

	if err != nil {
		logger.ErrorContext(ctx, "failed to load summarization model",
			slog.Duration("duration", duration),
			slog.Any("error", err))
		if errors.Is(err, summarize.ErrModelInference) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: could not load %s model: %v", summarize.ErrModelInference, l.backend, err)
	}

	if l.opts.Serialize {
		model = newSerializedModel(model)
	}
	l.current.Store(&loaded{model: model, at: time.Now(), duration: duration})

	logger.InfoContext(ctx, "summarization model loaded",
		slog.Duration("duration", duration),
		slog.Bool("serialized", l.opts.Serialize))

	return model, nil
}

func (l *Loader) build(ctx context.Context) (summarize.Model, error) {
	model, err := l.factory(ctx)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, errors.New("factory returned no model")
	}
	if w, ok := model.(Warmer); ok && l.opts.Warm {
		if err := w.Warm(ctx); err != nil {
			return nil, err
		}
	}
	return model, nil
}

// Loaded reports whether the model has been constructed. It never blocks.
func (l *Loader) Loaded() bool {
	return l.current.Load() != nil
}

// Info returns the loader state. It never blocks.
func (l *Loader) Info() ModelInfo {
	info := ModelInfo{Backend: l.backend, Serialized: l.opts.Serialize}
	if cur := l.current.Load(); cur != nil {
		info.Loaded = true
		info.LoadedAt = cur.at
		info.LoadDuration = cur.duration
	}
	return info
}

// serializedModel admits one Summarize call at a time. Waiting callers give up
// when their context ends.
type serializedModel struct {
	inner summarize.Model
	sem   chan struct{}
}

func newSerializedModel(inner summarize.Model) *serializedModel {
	return &serializedModel{inner: inner, sem: make(chan struct{}, 1)}
}

func (s *serializedModel) Name() string {
	return s.inner.Name()
}

func (s *serializedModel) Summarize(ctx context.Context, input string, bounds entity.LengthBounds) (string, error) {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %s: waiting for model: %w", summarize.ErrModelInference, s.inner.Name(), ctx.Err())
	}
	defer func() { <-s.sem }()

	return s.inner.Summarize(ctx, input, bounds)
}
