package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/cogniscreen/internal/store"
)

func TestLoggingProvider_RecordsRequests(t *testing.T) {
	s, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	core, logs := observer.New(zap.InfoLevel)
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"summary":"ok"}`), Usage: Usage{InputTokens: 120, OutputTokens: 40}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithLogging(mock, s.Events(), zap.New(core))

	ctx := WithPurpose(context.Background(), PurposeReportNarrative)
	schema := &Schema{Name: "narrative", Definition: map[string]any{"type": "object"}}
	_, err = p.Generate(ctx, UserPrompt("Eres neurólogo.", "MMSE 25/30", schema, 256))
	require.NoError(t, err)
	_, err = p.Generate(ctx, UserPrompt("", "MoCA", nil, 256))
	require.Error(t, err)

	usage, err := s.Events().LLMUsage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, usage.Requests)
	assert.Equal(t, 120, usage.InputTokens)
	assert.Equal(t, 40, usage.OutputTokens)

	require.Equal(t, 1, logs.FilterMessage("llm request").Len())
	entry := logs.FilterMessage("llm request").All()[0]
	assert.Equal(t, PurposeReportNarrative, entry.ContextMap()["purpose"])
	assert.Equal(t, "mock", entry.ContextMap()["provider"])
	assert.Equal(t, 1, logs.FilterMessage("llm request failed").Len())
}

func TestLoggingProvider_NilSinks(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, nil, nil)
	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())
}

func TestSerializeRequest(t *testing.T) {
	out := serializeRequest(Request{
		System:   "Eres neurólogo.",
		Messages: []Message{{Role: RoleUser, Content: "MMSE 25/30"}},
		Schema:   &Schema{Name: "narrative", Definition: map[string]any{"type": "object"}},
	})
	assert.Contains(t, out, "[system]\nEres neurólogo.")
	assert.Contains(t, out, "[user]\nMMSE 25/30")
	assert.Contains(t, out, `[schema: narrative]`+"\n"+`{"type":"object"}`)
}

func TestLookupCost(t *testing.T) {
	assert.InDelta(t, 0.15+0.6, LookupCost("gpt-4o-mini", 1_000_000, 1_000_000), 1e-9)
	assert.InDelta(t, 0.15, LookupCost("gpt-4o-mini-2024-07-18", 1_000_000, 0), 1e-9)
	assert.Zero(t, LookupCost("mock", 1000, 1000))
	assert.Nil(t, LookupPrice("unknown-model"))
}
