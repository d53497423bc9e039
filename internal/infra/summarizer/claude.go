package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"link-summarizer/internal/domain/entity"
	"link-summarizer/internal/resilience/circuitbreaker"
	"link-summarizer/internal/usecase/summarize"
)

// Claude summarizes with the Anthropic Messages API at temperature 0.
type Claude struct {
	client anthropic.Client
	config ClaudeConfig
	call   call
}

var _ summarize.Model = (*Claude)(nil)

// NewClaude creates the backend. The HTTP client may be nil.
func NewClaude(cfg ClaudeConfig, httpClient *http.Client, recorder MetricsRecorder) *Claude {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Failures surface to the user immediately.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if recorder == nil {
		recorder = NewPrometheusMetrics()
	}

	cbConfig := circuitbreaker.ModelAPIConfig(BackendClaude)
	cbConfig.Ignore = func(err error) bool {
		var apiErr *anthropic.Error
		return errors.As(err, &apiErr) &&
			apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 &&
			apiErr.StatusCode != http.StatusTooManyRequests
	}

	slog.Info("initialized claude summarizer",
		slog.String("model", cfg.Model),
		slog.Bool("custom_base_url", cfg.BaseURL != ""))

	return &Claude{
		client: anthropic.NewClient(opts...),
		config: cfg,
		call: call{
			backend:  BackendClaude,
			timeout:  cfg.Timeout,
			breaker:  circuitbreaker.New(cbConfig),
			recorder: recorder,
		},
	}
}

// Name implements summarize.Model.
func (c *Claude) Name() string {
	return BackendClaude
}

// Summarize implements summarize.Model.
func (c *Claude) Summarize(ctx context.Context, input string, bounds entity.LengthBounds) (string, error) {
	return c.call.run(ctx, input, bounds, func(ctx context.Context) (string, error) {
		message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:       anthropic.Model(c.config.Model),
			MaxTokens:   int64(completionBudget(bounds)),
			Temperature: anthropic.Float(0),
			System: []anthropic.TextBlockParam{
				{Text: summaryPrompt(bounds)},
			},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(input)),
			},
		})
		if err != nil {
			return "", fmt.Errorf("claude api error: %w", err)
		}

		var parts []string
		for _, block := range message.Content {
			if block.Type == "text" && block.Text != "" {
				parts = append(parts, block.Text)
			}
		}
		if len(parts) == 0 {
			return "", fmt.Errorf("claude api returned no text content")
		}
		return strings.Join(parts, "\n"), nil
	})
}
