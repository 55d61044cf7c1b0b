package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/cogniscreen/internal/store"
)

// NewProvider builds the configured provider and wraps it as
// caller → timeout → rate limit → retry → logging → base.
// events may be nil, in which case requests are only logged through logger.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, logger *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := WithLogging(base, events, logger)
	p = WithRetry(p, cfg.Retry, logger)
	p = WithRateLimit(p, cfg.RequestsPerMinute)
	p = WithTimeout(p, cfg.Timeout)
	return p, nil
}
