package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitProvider spaces out calls to stay under a per-minute quota.
type RateLimitProvider struct {
	inner   Provider
	limiter *rate.Limiter
}

// WithRateLimit wraps p with a token bucket allowing rpm calls per minute.
// A non-positive rpm returns p unchanged.
func WithRateLimit(p Provider, rpm int) Provider {
	if rpm <= 0 {
		return p
	}
	return &RateLimitProvider{
		inner:   p,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
	}
}

func (r *RateLimitProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, &ErrRateLimit{Err: err}
	}
	return r.inner.Generate(ctx, req)
}

func (r *RateLimitProvider) ModelID() string { return r.inner.ModelID() }
func (r *RateLimitProvider) Name() string    { return r.inner.Name() }

// TimeoutProvider bounds every call with a deadline.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p so each Generate call is cancelled after d.
// A non-positive d returns p unchanged.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string { return t.inner.ModelID() }
func (t *TimeoutProvider) Name() string    { return t.inner.Name() }
