package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenRouterProvider(t *testing.T) {
	t.Run("model passes through", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "anthropic/claude-3-haiku"})
		require.NoError(t, err)
		assert.Equal(t, "anthropic/claude-3-haiku", p.ModelID())
		assert.Equal(t, ProviderOpenRouter, p.Name())
	})
	t.Run("missing key", func(t *testing.T) {
		_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"})
		assert.Error(t, err)
	})
	t.Run("missing model", func(t *testing.T) {
		_, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or"})
		assert.Error(t, err)
	})
}

func TestOpenRouterProvider_CustomBaseURL(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		openAIReply(`{"summary":"ok"}`, "stop")(w, r)
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "meta-llama/llama-3-8b", BaseURL: server.URL + "/api/v1"})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), UserPrompt("", "x", narrativeTestSchema(), 64))
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/chat/completions", path)
}
