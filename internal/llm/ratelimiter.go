package llm

import (
	"context"
	"sync"
	"time"
)

// RateLimitedProvider wraps a Provider with a token bucket measured in
// requests per minute. Waiting honours the caller's context.
type RateLimitedProvider struct {
	provider Provider
	rpm      int
	mu       sync.Mutex
	tokens   int
	lastFill time.Time
}

// NewRateLimitedProvider wraps the given provider with a rate limiter
// that allows at most rpm requests per minute.
func NewRateLimitedProvider(provider Provider, rpm int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		rpm:      rpm,
		tokens:   rpm,
		lastFill: time.Now(),
	}
}

func (r *RateLimitedProvider) Name() string {
	return r.provider.Name()
}

func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.wait(ctx); err != nil {
		return nil, &CompletionError{Kind: ErrTransport, Err: err}
	}
	return r.provider.Complete(ctx, req)
}

func (r *RateLimitedProvider) take() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	refill := int(now.Sub(r.lastFill).Seconds() * float64(r.rpm) / 60.0)
	if refill > 0 {
		r.tokens = min(r.tokens+refill, r.rpm)
		r.lastFill = now
	}

	if r.tokens > 0 {
		r.tokens--
		return true
	}
	return false
}

func (r *RateLimitedProvider) wait(ctx context.Context) error {
	for !r.take() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	return nil
}
