package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"anthropic without key", Config{Provider: ProviderAnthropic}, "llm.api_key is required"},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "sk"}}, ""},
		{"openai without key", Config{Provider: ProviderOpenAI}, "openai provider"},
		{"openai with key", Config{Provider: ProviderOpenAI, OpenAI: OpenAIConfig{APIKey: "sk"}}, ""},
		{"gemini with key", Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "k"}}, ""},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, "openrouter provider"},
		{"mock needs no key", Config{Provider: ProviderMock}, ""},
		{"negative rpm", Config{Provider: ProviderOpenAI, OpenAI: OpenAIConfig{APIKey: "sk"}, RequestsPerMinute: -1}, "requests per minute"},
		{"unknown provider", Config{Provider: "bard"}, "unknown LLM provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func clearDiscoveryEnv(t *testing.T) {
	t.Helper()
	for _, d := range discoveryOrder {
		t.Setenv(d.env, "")
	}
}

func TestDiscoverConfig(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		clearDiscoveryEnv(t)
		_, ok := DiscoverConfig()
		assert.False(t, ok)
	})

	t.Run("priority", func(t *testing.T) {
		clearDiscoveryEnv(t)
		t.Setenv("ANTHROPIC_API_KEY", "ak")
		t.Setenv("OPENAI_API_KEY", "ok")

		cfg, ok := DiscoverConfig()
		require.True(t, ok)
		assert.Equal(t, ProviderOpenAI, cfg.Provider)
		assert.Equal(t, "ok", cfg.APIKey())
		assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("openrouter last", func(t *testing.T) {
		clearDiscoveryEnv(t)
		t.Setenv("OPENROUTER_API_KEY", "or")

		cfg, ok := DiscoverConfig()
		require.True(t, ok)
		assert.Equal(t, ProviderOpenRouter, cfg.Provider)
		assert.Equal(t, "or", cfg.OpenRouter.APIKey)
	})
}
