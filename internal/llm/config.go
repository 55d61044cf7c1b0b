package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds provider selection plus per-provider credentials.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration

	// RequestsPerMinute throttles outgoing calls. Zero disables the limit.
	RequestsPerMinute int
}

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the anthropic provider with small, cheap models
// selected everywhere. Report narratives are short.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout:           30 * time.Second,
		RequestsPerMinute: 20,
	}
}

// discoveryOrder lists the well-known key variables probed by DiscoverConfig.
var discoveryOrder = []struct {
	env      string
	provider string
	set      func(*Config, string)
}{
	{"GEMINI_API_KEY", ProviderGemini, func(c *Config, k string) { c.Gemini.APIKey = k }},
	{"OPENAI_API_KEY", ProviderOpenAI, func(c *Config, k string) { c.OpenAI.APIKey = k }},
	{"ANTHROPIC_API_KEY", ProviderAnthropic, func(c *Config, k string) { c.Anthropic.APIKey = k }},
	{"OPENROUTER_API_KEY", ProviderOpenRouter, func(c *Config, k string) { c.OpenRouter.APIKey = k }},
}

// DiscoverConfig returns a Config for the first provider whose standard
// API key variable is set, or false when none is.
func DiscoverConfig() (Config, bool) {
	for _, d := range discoveryOrder {
		if k := os.Getenv(d.env); k != "" {
			cfg := DefaultConfig()
			cfg.Provider = d.provider
			d.set(&cfg, k)
			return cfg, true
		}
	}
	return Config{}, false
}

// APIKey returns the key configured for the selected provider.
func (c Config) APIKey() string {
	switch c.Provider {
	case ProviderAnthropic:
		return c.Anthropic.APIKey
	case ProviderOpenAI:
		return c.OpenAI.APIKey
	case ProviderGemini:
		return c.Gemini.APIKey
	case ProviderOpenRouter:
		return c.OpenRouter.APIKey
	}
	return ""
}

// Validate checks that the selected provider is known and has a key.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.APIKey() == "" {
			return fmt.Errorf("llm.api_key is required for the %s provider", c.Provider)
		}
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests per minute must be >= 0, got %d", c.RequestsPerMinute)
	}
	return nil
}
