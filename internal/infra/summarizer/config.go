package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// Backend names accepted by SUMMARIZER_BACKEND.
const (
	BackendHuggingFace = "huggingface"
	BackendOpenAI      = "openai"
	BackendClaude      = "claude"
	BackendLead        = "lead"
)

// Backends lists every supported backend name.
var Backends = []string{BackendHuggingFace, BackendOpenAI, BackendClaude, BackendLead}

// DefaultTimeout bounds a single summarization call.
const DefaultTimeout = 60 * time.Second

// HuggingFaceConfig configures the bart-large-cnn backend.
type HuggingFaceConfig struct {
	// BaseURL is the inference endpoint root; the model path is appended.
	BaseURL string
	// Model is the checkpoint to call, facebook/bart-large-cnn by default.
	Model string
	// Token is the API token. Optional for self-hosted endpoints.
	Token string
	// WaitForModel asks the endpoint to block until a cold model is loaded
	// instead of answering 503.
	WaitForModel bool
	Timeout      time.Duration
}

// OpenAIConfig configures the OpenAI chat completion backend.
type OpenAIConfig struct {
	APIKey string
	// BaseURL overrides the API root, e.g. for an OpenAI-compatible server.
	BaseURL string
	Model   string
	// Seed is sent with every request for reproducible sampling.
	Seed    int
	Timeout time.Duration
}

// ClaudeConfig configures the Anthropic Messages backend.
type ClaudeConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Settings selects a backend and carries the configuration of every backend.
type Settings struct {
	Backend     string
	HuggingFace HuggingFaceConfig
	OpenAI      OpenAIConfig
	Claude      ClaudeConfig
}

// DefaultSettings returns defaults for every backend, with bart-large-cnn selected.
func DefaultSettings() Settings {
	return Settings{
		Backend: BackendHuggingFace,
		HuggingFace: HuggingFaceConfig{
			BaseURL:      "https://router.huggingface.co/hf-inference",
			Model:        "facebook/bart-large-cnn",
			WaitForModel: true,
			Timeout:      DefaultTimeout,
		},
		OpenAI: OpenAIConfig{
			Model:   "gpt-4o-mini",
			Seed:    42,
			Timeout: DefaultTimeout,
		},
		Claude: ClaudeConfig{
			Model:   "claude-sonnet-4-5-20250929",
			Timeout: DefaultTimeout,
		},
	}
}

// Validate checks the selected backend's configuration only; the others may
// be left incomplete.
func (s Settings) Validate() error {
	switch strings.ToLower(s.Backend) {
	case BackendHuggingFace:
		if s.HuggingFace.BaseURL == "" {
			return fmt.Errorf("huggingface base url is required")
		}
		if s.HuggingFace.Model == "" {
			return fmt.Errorf("huggingface model is required")
		}
		return validateTimeout(s.HuggingFace.Timeout)
	case BackendOpenAI:
		if s.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai backend")
		}
		if s.OpenAI.Model == "" {
			return fmt.Errorf("openai model is required")
		}
		return validateTimeout(s.OpenAI.Timeout)
	case BackendClaude:
		if s.Claude.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the claude backend")
		}
		if s.Claude.Model == "" {
			return fmt.Errorf("claude model is required")
		}
		return validateTimeout(s.Claude.Timeout)
	case BackendLead:
		return nil
	default:
		return fmt.Errorf("unknown summarizer backend %q (supported: %s)", s.Backend, strings.Join(Backends, ", "))
	}
}

func validateTimeout(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", d)
	}
	return nil
}
