package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"link-summarizer/internal/domain/entity"
	"link-summarizer/internal/resilience/circuitbreaker"
	"link-summarizer/internal/usecase/summarize"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 * 1024

// warmupText is the input sent by Warm to load a cold model.
const warmupText = "The city council met on Tuesday. It approved the budget for next year."

// HuggingFace calls a bart-large-cnn summarization pipeline served by the
// Hugging Face Inference API or a compatible self-hosted endpoint.
//
// Requests disable sampling, so identical input and bounds produce identical
// output. Input longer than the model's token window is truncated by the
// endpoint's tokenizer.
type HuggingFace struct {
	client   *http.Client
	config   HuggingFaceConfig
	endpoint string
	call     call
}

var (
	_ summarize.Model = (*HuggingFace)(nil)
	_ Warmer          = (*HuggingFace)(nil)
)

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	MaxLength  int    `json:"max_length"`
	MinLength  int    `json:"min_length"`
	DoSample   bool   `json:"do_sample"`
	Truncation string `json:"truncation"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
	UseCache     bool `json:"use_cache"`
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
}

type hfError struct {
	Error         json.RawMessage `json:"error"`
	EstimatedTime float64         `json:"estimated_time,omitempty"`
}

// HFStatusError is a non-200 answer from the inference endpoint.
type HFStatusError struct {
	Code    int
	Message string
}

func (e *HFStatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("inference endpoint returned HTTP %d", e.Code)
	}
	return fmt.Sprintf("inference endpoint returned HTTP %d: %s", e.Code, e.Message)
}

// NewHuggingFace creates the backend. The client may be nil.
func NewHuggingFace(cfg HuggingFaceConfig, client *http.Client, recorder MetricsRecorder) *HuggingFace {
	if client == nil {
		client = &http.Client{}
	}
	if recorder == nil {
		recorder = NewPrometheusMetrics()
	}

	cbConfig := circuitbreaker.ModelAPIConfig(BackendHuggingFace)
	cbConfig.Ignore = func(err error) bool {
		var se *HFStatusError
		return errors.As(err, &se) && se.Code >= 400 && se.Code < 500 && se.Code != http.StatusTooManyRequests
	}

	h := &HuggingFace{
		client:   client,
		config:   cfg,
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/models/" + strings.TrimLeft(cfg.Model, "/"),
		call: call{
			backend:  BackendHuggingFace,
			timeout:  cfg.Timeout,
			breaker:  circuitbreaker.New(cbConfig),
			recorder: recorder,
		},
	}

	slog.Info("initialized huggingface summarizer",
		slog.String("model", cfg.Model),
		slog.String("endpoint", h.endpoint),
		slog.Bool("wait_for_model", cfg.WaitForModel))

	return h
}

// Name implements summarize.Model.
func (h *HuggingFace) Name() string {
	return BackendHuggingFace
}

// Summarize implements summarize.Model.
func (h *HuggingFace) Summarize(ctx context.Context, input string, bounds entity.LengthBounds) (string, error) {
	return h.call.run(ctx, input, bounds, func(ctx context.Context) (string, error) {
		return h.infer(ctx, input, bounds, h.config.WaitForModel)
	})
}

// Warm sends a short request that waits for the model to load, so the first
// user request does not pay the cold start.
func (h *HuggingFace) Warm(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout())
	defer cancel()

	start := time.Now()
	if _, err := h.infer(ctx, warmupText, entity.LengthBounds{Min: 5, Max: 30}, true); err != nil {
		return fmt.Errorf("%w: huggingface warm-up: %v", summarize.ErrModelInference, err)
	}
	slog.InfoContext(ctx, "huggingface model warm",
		slog.String("model", h.config.Model),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (h *HuggingFace) infer(ctx context.Context, input string, bounds entity.LengthBounds, wait bool) (string, error) {
	payload, err := json.Marshal(hfRequest{
		Inputs: input,
		Parameters: hfParameters{
			MaxLength:  bounds.Max,
			MinLength:  bounds.Min,
			DoSample:   false,
			Truncation: "only_first",
		},
		Options: hfOptions{WaitForModel: wait, UseCache: true},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if h.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.config.Token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &HFStatusError{Code: resp.StatusCode, Message: readHFError(resp.Body)}
	}

	var out []hfSummary
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("inference endpoint returned no summaries")
	}
	return out[0].SummaryText, nil
}

// readHFError extracts the message of an {"error": ...} body, which is either
// a string or a list of strings, falling back to the raw text.
func readHFError(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))

	var e hfError
	if err := json.Unmarshal(raw, &e); err == nil && len(e.Error) > 0 {
		var msg string
		if json.Unmarshal(e.Error, &msg) == nil {
			return msg
		}
		var msgs []string
		if json.Unmarshal(e.Error, &msgs) == nil {
			return strings.Join(msgs, "; ")
		}
	}
	return strings.TrimSpace(string(raw))
}

func (h *HuggingFace) timeout() time.Duration {
	if h.config.Timeout <= 0 {
		return DefaultTimeout
	}
	return h.config.Timeout
}
