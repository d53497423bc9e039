package summarizer_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"link-summarizer/internal/domain/entity"
	"link-summarizer/internal/infra/summarizer"
	"link-summarizer/internal/usecase/summarize"
)

// slowModel tracks concurrent Summarize calls.
type slowModel struct {
	delay   time.Duration
	active  atomic.Int32
	peak    atomic.Int32
	warmed  atomic.Int32
	warmErr error
}

func (m *slowModel) Name() string { return "slow" }

func (m *slowModel) Summarize(ctx context.Context, input string, _ entity.LengthBounds) (string, error) {
	n := m.active.Add(1)
	defer m.active.Add(-1)
	for {
		peak := m.peak.Load()
		if n <= peak || m.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(m.delay)
	return "summary of " + input, nil
}

func (m *slowModel) Warm(context.Context) error {
	m.warmed.Add(1)
	return m.warmErr
}

func TestLoader_ConstructsOnce(t *testing.T) {
	var builds atomic.Int32
	model := &slowModel{}
	loader := summarizer.NewLoader("slow", func(ctx context.Context) (summarize.Model, error) {
		builds.Add(1)
		time.Sleep(20 * time.Millisecond)
		return model, nil
	}, summarizer.LoaderOptions{})

	assert.False(t, loader.Loaded())

	var wg sync.WaitGroup
	results := make([]summarize.Model, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := loader.Get(context.Background())
			assert.NoError(t, err)
			results[i] = m
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), builds.Load(), "factory must run exactly once")
	for _, m := range results {
		assert.Same(t, model, m)
	}
	assert.True(t, loader.Loaded())

	info := loader.Info()
	assert.Equal(t, "slow", info.Backend)
	assert.True(t, info.Loaded)
	assert.False(t, info.LoadedAt.IsZero())
	assert.GreaterOrEqual(t, info.LoadDuration, 20*time.Millisecond)
}

func TestLoader_FailureIsNotCached(t *testing.T) {
	var builds atomic.Int32
	loader := summarizer.NewLoader("flaky", func(ctx context.Context) (summarize.Model, error) {
		if builds.Add(1) == 1 {
			return nil, errors.New("weights unavailable")
		}
		return &slowModel{}, nil
	}, summarizer.LoaderOptions{})

	_, err := loader.Get(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, summarize.ErrModelInference)
	assert.Contains(t, err.Error(), "weights unavailable")
	assert.False(t, loader.Loaded())

	m, err := loader.Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.True(t, loader.Loaded())
	assert.Equal(t, int32(2), builds.Load())
}

func TestLoader_Warm(t *testing.T) {
	t.Run("warms when enabled", func(t *testing.T) {
		model := &slowModel{}
		loader := summarizer.NewLoader("slow", func(context.Context) (summarize.Model, error) {
			return model, nil
		}, summarizer.LoaderOptions{Warm: true})

		_, err := loader.Get(context.Background())
		require.NoError(t, err)
		_, err = loader.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(1), model.warmed.Load())
	})

	t.Run("skips when disabled", func(t *testing.T) {
		model := &slowModel{}
		loader := summarizer.NewLoader("slow", func(context.Context) (summarize.Model, error) {
			return model, nil
		}, summarizer.LoaderOptions{})

		_, err := loader.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(0), model.warmed.Load())
	})

	t.Run("warm failure fails the load", func(t *testing.T) {
		model := &slowModel{warmErr: errors.New("model is loading")}
		loader := summarizer.NewLoader("slow", func(context.Context) (summarize.Model, error) {
			return model, nil
		}, summarizer.LoaderOptions{Warm: true})

		_, err := loader.Get(context.Background())
		assert.ErrorIs(t, err, summarize.ErrModelInference)
		assert.False(t, loader.Loaded())
	})
}

func TestLoader_WaitHonorsContext(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var builds atomic.Int32
	model := &slowModel{}
	loader := summarizer.NewLoader("slow", func(context.Context) (summarize.Model, error) {
		builds.Add(1)
		close(started)
		<-release
		return model, nil
	}, summarizer.LoaderOptions{})

	first := make(chan error, 1)
	go func() {
		_, err := loader.Get(context.Background())
		first <- err
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	begin := time.Now()
	_, err := loader.Get(ctx)

	assert.ErrorIs(t, err, summarize.ErrModelInference)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(begin), time.Second, "a waiter must not block for the whole load")
	assert.False(t, loader.Loaded())

	close(release)
	require.NoError(t, <-first)

	m, err := loader.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, model, m)
	assert.Equal(t, int32(1), builds.Load())
}

func TestLoader_WaiterRetriesAfterFailedLoad(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 2)
	var builds atomic.Int32
	loader := summarizer.NewLoader("flaky", func(context.Context) (summarize.Model, error) {
		n := builds.Add(1)
		started <- struct{}{}
		if n == 1 {
			<-release
			return nil, errors.New("weights unavailable")
		}
		return &slowModel{}, nil
	}, summarizer.LoaderOptions{})

	first := make(chan error, 1)
	go func() {
		_, err := loader.Get(context.Background())
		first <- err
	}()
	<-started

	second := make(chan error, 1)
	go func() {
		_, err := loader.Get(context.Background())
		second <- err
	}()
	time.Sleep(10 * time.Millisecond)
	close(release)

	assert.ErrorIs(t, <-first, summarize.ErrModelInference)
	assert.NoError(t, <-second, "the waiting caller makes its own attempt")
	assert.True(t, loader.Loaded())
	assert.Equal(t, int32(2), builds.Load())
}

func TestLoader_NilModel(t *testing.T) {
	loader := summarizer.NewLoader("nil", func(context.Context) (summarize.Model, error) {
		return nil, nil
	}, summarizer.LoaderOptions{})

	_, err := loader.Get(context.Background())

	assert.ErrorIs(t, err, summarize.ErrModelInference)
}

func TestLoader_SerializesInference(t *testing.T) {
	model := &slowModel{delay: 10 * time.Millisecond}
	loader := summarizer.NewLoader("slow", func(context.Context) (summarize.Model, error) {
		return model, nil
	}, summarizer.LoaderOptions{Serialize: true})

	m, err := loader.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "slow", m.Name())
	assert.True(t, loader.Info().Serialized)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Summarize(context.Background(), "text", defaultBounds)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), model.peak.Load(), "serialized model must never run concurrently")
}

func TestLoader_SerializedWaitHonorsContext(t *testing.T) {
	model := &slowModel{delay: 200 * time.Millisecond}
	loader := summarizer.NewLoader("slow", func(context.Context) (summarize.Model, error) {
		return model, nil
	}, summarizer.LoaderOptions{Serialize: true})
	m, err := loader.Get(context.Background())
	require.NoError(t, err)

	go func() { _, _ = m.Summarize(context.Background(), "busy", defaultBounds) }()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = m.Summarize(ctx, "waiting", defaultBounds)

	assert.ErrorIs(t, err, summarize.ErrModelInference)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewFactory(t *testing.T) {
	settings := summarizer.DefaultSettings()

	settings.Backend = summarizer.BackendLead
	m, err := summarizer.NewFactory(settings, nil)(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "lead", m.Name())

	settings.Backend = summarizer.BackendOpenAI
	_, err = summarizer.NewFactory(settings, nil)(context.Background())
	assert.Error(t, err, "openai requires an API key")

	settings.Backend = "gpt-2"
	_, err = summarizer.NewFactory(settings, nil)(context.Background())
	assert.Error(t, err)
}
