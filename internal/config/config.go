// Package config loads the application configuration: built-in defaults,
// overlaid by an optional YAML file, overlaid by environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"link-summarizer/internal/infra/fetcher"
	"link-summarizer/internal/infra/summarizer"
	"link-summarizer/internal/usecase/summarize"
)

// Config is the complete application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Summarizer    SummarizerConfig    `yaml:"summarizer"`
	Fetch         FetchConfig         `yaml:"fetch"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	// RateLimitRPS is the sustained rate of summarize requests per client IP.
	RateLimitRPS   float64 `yaml:"rate_limit_rps" env:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `yaml:"rate_limit_burst" env:"RATE_LIMIT_BURST"`
	// CORSAllowedOrigins lists origins allowed to call the JSON API.
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// SummarizerConfig selects and configures the summarization model.
type SummarizerConfig struct {
	Backend            string        `yaml:"backend" env:"SUMMARIZER_BACKEND"`
	MaxInputChars      int           `yaml:"max_input_chars" env:"MAX_INPUT_CHARS"`
	Timeout            time.Duration `yaml:"timeout" env:"SUMMARIZE_TIMEOUT"`
	SerializeInference bool          `yaml:"serialize_inference" env:"SERIALIZE_INFERENCE"`
	PreloadModel       bool          `yaml:"preload_model" env:"PRELOAD_MODEL"`

	HFAPIToken     string `yaml:"hf_api_token" env:"HF_API_TOKEN"`
	HFBaseURL      string `yaml:"hf_base_url" env:"HF_BASE_URL"`
	HFModel        string `yaml:"hf_model" env:"HF_MODEL"`
	HFWaitForModel bool   `yaml:"hf_wait_for_model" env:"HF_WAIT_FOR_MODEL"`

	OpenAIAPIKey  string `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `yaml:"openai_base_url" env:"OPENAI_BASE_URL"`
	OpenAIModel   string `yaml:"openai_model" env:"OPENAI_MODEL"`

	AnthropicAPIKey  string `yaml:"anthropic_api_key" env:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string `yaml:"anthropic_base_url" env:"ANTHROPIC_BASE_URL"`
	AnthropicModel   string `yaml:"anthropic_model" env:"ANTHROPIC_MODEL"`
}

// FetchConfig configures article downloads.
type FetchConfig struct {
	Timeout        time.Duration `yaml:"timeout" env:"FETCH_TIMEOUT"`
	MaxBodySize    int64         `yaml:"max_body_size" env:"FETCH_MAX_BODY_SIZE"`
	MaxRedirects   int           `yaml:"max_redirects" env:"FETCH_MAX_REDIRECTS"`
	DenyPrivateIPs bool          `yaml:"deny_private_ips" env:"FETCH_DENY_PRIVATE_IPS"`
	UserAgent      string        `yaml:"user_agent" env:"FETCH_USER_AGENT"`
}

// ObservabilityConfig configures logging and tracing.
type ObservabilityConfig struct {
	LogLevel       string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat      string `yaml:"log_format" env:"LOG_FORMAT"`
	TracingEnabled bool   `yaml:"tracing_enabled" env:"TRACING_ENABLED"`
	Version        string `yaml:"version" env:"VERSION"`
}

// Default returns the built-in configuration.
func Default() Config {
	models := summarizer.DefaultSettings()
	fetch := fetcher.DefaultConfig()

	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    1,
			RateLimitBurst:  5,
		},
		Summarizer: SummarizerConfig{
			Backend:        models.Backend,
			MaxInputChars:  summarize.DefaultMaxInputChars,
			Timeout:        summarizer.DefaultTimeout,
			HFBaseURL:      models.HuggingFace.BaseURL,
			HFModel:        models.HuggingFace.Model,
			HFWaitForModel: models.HuggingFace.WaitForModel,
			OpenAIModel:    models.OpenAI.Model,
			AnthropicModel: models.Claude.Model,
		},
		Fetch: FetchConfig{
			Timeout:        fetch.Timeout,
			MaxBodySize:    fetch.MaxBodySize,
			MaxRedirects:   fetch.MaxRedirects,
			DenyPrivateIPs: fetch.DenyPrivateIPs,
			UserAgent:      fetch.UserAgent,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "json",
			Version:   "dev",
		},
	}
}

// Load reads the configuration from the process environment. CONFIG_FILE,
// when set, names a YAML file applied before the environment.
func Load() (*Config, error) {
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom is Load with an explicit environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := Default()

	if path := environ["CONFIG_FILE"]; path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFile overlays a YAML file on cfg. Keys absent from the file keep their values.
func loadFile(path string, cfg *Config) error {
	// #nosec G304 -- path comes from the operator's environment, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration at start-up.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}
	if c.Server.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", c.Server.RateLimitRPS)
	}
	if c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", c.Server.RateLimitBurst)
	}
	if c.Summarizer.MaxInputChars <= 0 {
		return fmt.Errorf("MAX_INPUT_CHARS must be positive, got %d", c.Summarizer.MaxInputChars)
	}
	if err := c.SummarizerSettings().Validate(); err != nil {
		return err
	}
	if err := c.FetcherConfig().Validate(); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	switch strings.ToLower(c.Observability.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Observability.LogFormat)
	}
	return nil
}

// SummarizerSettings converts the summarizer section for the model factory.
func (c *Config) SummarizerSettings() summarizer.Settings {
	s := c.Summarizer
	return summarizer.Settings{
		Backend: strings.ToLower(strings.TrimSpace(s.Backend)),
		HuggingFace: summarizer.HuggingFaceConfig{
			BaseURL:      s.HFBaseURL,
			Model:        s.HFModel,
			Token:        s.HFAPIToken,
			WaitForModel: s.HFWaitForModel,
			Timeout:      s.Timeout,
		},
		OpenAI: summarizer.OpenAIConfig{
			APIKey:  s.OpenAIAPIKey,
			BaseURL: s.OpenAIBaseURL,
			Model:   s.OpenAIModel,
			Seed:    summarizer.DefaultSettings().OpenAI.Seed,
			Timeout: s.Timeout,
		},
		Claude: summarizer.ClaudeConfig{
			APIKey:  s.AnthropicAPIKey,
			BaseURL: s.AnthropicBaseURL,
			Model:   s.AnthropicModel,
			Timeout: s.Timeout,
		},
	}
}

// FetcherConfig converts the fetch section for the article fetcher.
func (c *Config) FetcherConfig() fetcher.Config {
	return fetcher.Config{
		Timeout:        c.Fetch.Timeout,
		MaxBodySize:    c.Fetch.MaxBodySize,
		MaxRedirects:   c.Fetch.MaxRedirects,
		DenyPrivateIPs: c.Fetch.DenyPrivateIPs,
		UserAgent:      c.Fetch.UserAgent,
	}
}
