package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", Model: "claude-sonnet", BaseURL: server.URL})
	require.NoError(t, err)
	return p
}

func anthropicReply(text, stop string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"content":     []map[string]any{{"type": "text", "text": text}},
			"model":       "claude-sonnet-4-20250514",
			"stop_reason": stop,
			"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
		})
	}
}

func anthropicError(status int, kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": kind, "message": kind},
		})
	}
}

func TestAnthropicProvider_Structured(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply(`{"summary":"Puntuación normal"}`, "end_turn"))

	resp, err := p.Generate(context.Background(), UserPrompt("Eres neurólogo.", "MMSE 28/30", narrativeTestSchema(), 256))
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"Puntuación normal"}`, string(resp.Content))
	assert.Equal(t, 50, resp.Usage.InputTokens)
	assert.Equal(t, 80, resp.Usage.TotalTokens)
	assert.Equal(t, "end", resp.StopReason)
}

func TestAnthropicProvider_FreeTextIsWrapped(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply("Sin hallazgos.", "end_turn"))

	resp, err := p.Generate(context.Background(), UserPrompt("", "resumen", nil, 64))
	require.NoError(t, err)
	var text string
	require.NoError(t, json.Unmarshal(resp.Content, &text))
	assert.Equal(t, "Sin hallazgos.", text)
}

func TestAnthropicProvider_Errors(t *testing.T) {
	t.Run("rate limit", func(t *testing.T) {
		p := newTestAnthropicProvider(t, anthropicError(http.StatusTooManyRequests, "rate_limit_error"))
		_, err := p.Generate(context.Background(), UserPrompt("", "x", nil, 10))
		var rl *ErrRateLimit
		assert.ErrorAs(t, err, &rl)
	})
	t.Run("server error", func(t *testing.T) {
		p := newTestAnthropicProvider(t, anthropicError(http.StatusInternalServerError, "api_error"))
		_, err := p.Generate(context.Background(), UserPrompt("", "x", nil, 10))
		var unavail *ErrProviderUnavailable
		assert.ErrorAs(t, err, &unavail)
	})
	t.Run("truncated structured output", func(t *testing.T) {
		p := newTestAnthropicProvider(t, anthropicReply(`{"summary":"Punt`, "max_tokens"))
		_, err := p.Generate(context.Background(), UserPrompt("", "x", narrativeTestSchema(), 10))
		var mt *ErrMaxTokensExceeded
		assert.ErrorAs(t, err, &mt)
	})
}

func TestAnthropicProvider_Identity(t *testing.T) {
	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: "claude-haiku"})
	require.NoError(t, err)
	assert.Equal(t, "claude-haiku-4-5-20251001", p.ModelID())
	assert.Equal(t, ProviderAnthropic, p.Name())

	_, err = NewAnthropicProvider(AnthropicConfig{})
	assert.Error(t, err)
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		models map[string]string
		in     string
		want   string
	}{
		{anthropicModels, "claude-sonnet", "claude-sonnet-4-20250514"},
		{anthropicModels, "claude-haiku", "claude-haiku-4-5-20251001"},
		{anthropicModels, "claude-sonnet-4-20250514", "claude-sonnet-4-20250514"},
		{geminiModels, "gemini-flash", "gemini-2.0-flash"},
		{geminiModels, "gemini-pro", "gemini-2.0-pro"},
		{openaiModels, "gpt-4o-mini", "gpt-4o-mini"},
		{openaiModels, "o3-mini", "o3-mini"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveModel(tt.in, tt.models), tt.in)
	}
}
