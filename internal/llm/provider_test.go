package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_FIFO(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"summary":"a"}`), Usage: Usage{InputTokens: 10, OutputTokens: 5}},
		MockResponse{Content: json.RawMessage(`{"summary":"b"}`)},
	)

	first, err := mock.Generate(context.Background(), UserPrompt("", "first", nil, 64))
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"a"}`, string(first.Content))
	assert.Equal(t, 15, first.Usage.TotalTokens)
	assert.Equal(t, "end", first.StopReason)

	second, err := mock.Generate(context.Background(), UserPrompt("", "second", nil, 64))
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"b"}`, string(second.Content))

	_, err = mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
	assert.Equal(t, 3, mock.CallCount())
}

func TestMockProvider_RecordsCallsAndErrors(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})
	_, err := mock.Generate(context.Background(), UserPrompt("sys", "hello", nil, 10))

	var rl *ErrRateLimit
	require.ErrorAs(t, err, &rl)
	require.Len(t, mock.Calls, 1)
	assert.Equal(t, "sys", mock.Calls[0].System)
	assert.Equal(t, "hello", mock.Calls[0].Messages[0].Content)
	assert.Equal(t, "mock", mock.ModelID())
	assert.Equal(t, ProviderMock, mock.Name())
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, PurposeUnknown, PurposeFrom(ctx))
	assert.Equal(t, PurposeReportNarrative, PurposeFrom(WithPurpose(ctx, PurposeReportNarrative)))
}

func TestGenerateInto(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"summary":"Deterioro leve","observations":["memoria"]}`)},
		MockResponse{Content: json.RawMessage(`"plain text"`)},
	)

	var out struct {
		Summary      string   `json:"summary"`
		Observations []string `json:"observations"`
	}
	_, err := GenerateInto(context.Background(), mock, Request{}, &out)
	require.NoError(t, err)
	assert.Equal(t, "Deterioro leve", out.Summary)
	assert.Equal(t, []string{"memoria"}, out.Observations)

	_, err = GenerateInto(context.Background(), mock, Request{}, &out)
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestGenerateInto_PropagatesProviderError(t *testing.T) {
	boom := errors.New("boom")
	mock := NewMockProvider(MockResponse{Err: boom})
	var out map[string]any
	_, err := GenerateInto(context.Background(), mock, Request{}, &out)
	assert.ErrorIs(t, err, boom)
}

func TestTextContent(t *testing.T) {
	assert.JSONEq(t, `"línea \"uno\""`, string(textContent(`línea "uno"`)))
}
