package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingProvider waits for the context to end.
type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
func (blockingProvider) ModelID() string { return "blocking" }
func (blockingProvider) Name() string    { return "blocking" }

func TestWithRateLimit_Disabled(t *testing.T) {
	mock := NewMockProvider()
	assert.Same(t, mock, WithRateLimit(mock, 0))
	assert.Same(t, mock, WithTimeout(mock, 0))
}

func TestWithRateLimit_BurstThenWait(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	p := WithRateLimit(mock, 1)
	assert.Equal(t, "mock", p.ModelID())

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)

	// The second token is a minute away; a short deadline cannot wait for it.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = p.Generate(ctx, Request{})

	var rl *ErrRateLimit
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 1, mock.CallCount())
}

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 10*time.Millisecond)
	assert.Equal(t, "blocking", p.Name())

	start := time.Now()
	_, err := p.Generate(context.Background(), Request{})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), time.Second)
}
