package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"link-summarizer/internal/domain/entity"
	"link-summarizer/internal/resilience/circuitbreaker"
	"link-summarizer/internal/usecase/summarize"
)

// OpenAI summarizes with an OpenAI (or OpenAI-compatible) chat completion model.
//
// Sampling is pinned with the lowest non-zero temperature and a fixed seed.
// A literal zero would be dropped from the request by the client library.
type OpenAI struct {
	client *openai.Client
	config OpenAIConfig
	call   call
}

var _ summarize.Model = (*OpenAI)(nil)

// NewOpenAI creates the backend. The HTTP client may be nil.
func NewOpenAI(cfg OpenAIConfig, httpClient *http.Client, recorder MetricsRecorder) *OpenAI {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		clientConfig.HTTPClient = httpClient
	}
	if recorder == nil {
		recorder = NewPrometheusMetrics()
	}

	cbConfig := circuitbreaker.ModelAPIConfig(BackendOpenAI)
	cbConfig.Ignore = func(err error) bool {
		code := openAIStatus(err)
		return code >= 400 && code < 500 && code != http.StatusTooManyRequests
	}

	slog.Info("initialized openai summarizer",
		slog.String("model", cfg.Model),
		slog.Bool("custom_base_url", cfg.BaseURL != ""))

	return &OpenAI{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
		call: call{
			backend:  BackendOpenAI,
			timeout:  cfg.Timeout,
			breaker:  circuitbreaker.New(cbConfig),
			recorder: recorder,
		},
	}
}

// Name implements summarize.Model.
func (o *OpenAI) Name() string {
	return BackendOpenAI
}

// Summarize implements summarize.Model.
func (o *OpenAI) Summarize(ctx context.Context, input string, bounds entity.LengthBounds) (string, error) {
	return o.call.run(ctx, input, bounds, func(ctx context.Context) (string, error) {
		seed := o.config.Seed
		resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: o.config.Model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: summaryPrompt(bounds)},
				{Role: openai.ChatMessageRoleUser, Content: input},
			},
			MaxTokens:   completionBudget(bounds),
			Temperature: math.SmallestNonzeroFloat32,
			Seed:        &seed,
		})
		if err != nil {
			return "", fmt.Errorf("openai api error: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("openai api returned no choices")
		}
		return resp.Choices[0].Message.Content, nil
	})
}

// openAIStatus returns the HTTP status carried by a client library error, or 0.
func openAIStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
