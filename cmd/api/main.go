package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"link-summarizer/internal/config"
	hhttp "link-summarizer/internal/handler/http"
	"link-summarizer/internal/infra/fetcher"
	"link-summarizer/internal/infra/summarizer"
	"link-summarizer/internal/observability/logging"
	"link-summarizer/internal/observability/tracing"
	"link-summarizer/internal/usecase/summarize"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := initLogger(cfg)

	shutdownTracing, err := tracing.Setup(tracing.Options{
		Enabled:     cfg.Observability.TracingEnabled,
		ServiceName: tracing.TracerName,
		Version:     cfg.Observability.Version,
	})
	if err != nil {
		logger.Error("failed to set up tracing", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components := setupServer(cfg, logger)

	if err := runServer(ctx, cfg, logger, components); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Warn("tracer shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}

// initLogger builds the process logger and installs it as the default.
func initLogger(cfg *config.Config) *slog.Logger {
	logger := logging.New(os.Stdout, cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	slog.SetDefault(logger)
	return logger
}

// ServerComponents holds what the server runs and what shutdown must wait for.
type ServerComponents struct {
	Handler http.Handler
	Loader  *summarizer.Loader
}

// setupServer wires fetcher, model loader, pipeline and routes.
func setupServer(cfg *config.Config, logger *slog.Logger) *ServerComponents {
	articleFetcher := fetcher.NewReadabilityFetcher(cfg.FetcherConfig())

	settings := cfg.SummarizerSettings()
	loader := summarizer.NewLoader(
		settings.Backend,
		summarizer.NewFactory(settings, nil),
		summarizer.LoaderOptions{
			Serialize: cfg.Summarizer.SerializeInference,
			Warm:      cfg.Summarizer.PreloadModel,
		},
	)

	svc := summarize.NewService(articleFetcher, loader, cfg.Summarizer.MaxInputChars)
	limiter := hhttp.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)

	logger.Info("summarizer configured",
		slog.String("backend", settings.Backend),
		slog.Int("max_input_chars", cfg.Summarizer.MaxInputChars),
		slog.Bool("serialize_inference", cfg.Summarizer.SerializeInference),
		slog.Bool("preload_model", cfg.Summarizer.PreloadModel),
		slog.Float64("rate_limit_rps", cfg.Server.RateLimitRPS),
		slog.Int("rate_limit_burst", cfg.Server.RateLimitBurst),
	)

	handler := hhttp.NewRouter(hhttp.RouterConfig{
		Service:  svc,
		Model:    loader,
		Pipeline: svc,
		Limiter:  limiter,
		Logger:   logger,
		Version:  cfg.Observability.Version,

		RequireLoaded:  cfg.Summarizer.PreloadModel,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})

	return &ServerComponents{Handler: handler, Loader: loader}
}

// runServer serves until ctx is cancelled, then drains in-flight requests.
// With PRELOAD_MODEL the model is loaded alongside the listener so /ready
// flips once it is available.
func runServer(ctx context.Context, cfg *config.Config, logger *slog.Logger, components *ServerComponents) error {
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.Server.Addr),
			slog.String("version", cfg.Observability.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Summarizer.PreloadModel {
		g.Go(func() error {
			if _, err := components.Loader.Get(gctx); err != nil {
				// The next request retries the load.
				logger.Error("model preload failed", slog.Any("error", err))
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
