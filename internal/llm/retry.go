package llm

import (
	"context"
	"errors"
	"time"
)

// Retry defaults.
const (
	DefaultMaxAttempts = 3
	DefaultBackoff     = 5 * time.Second
)

// RetryPolicy bounds how read timeouts are retried. MaxAttempts counts the
// first attempt.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy returns 3 attempts with a fixed 5s backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts, Backoff: DefaultBackoff}
}

// RetryingProvider retries read timeouts from the wrapped provider with a
// fixed backoff. Every other failure is returned on the first attempt.
type RetryingProvider struct {
	provider Provider
	policy   RetryPolicy
	sleep    func(context.Context, time.Duration) error
}

// NewRetryingProvider wraps provider with the given policy. A MaxAttempts
// below 1 is treated as 1.
func NewRetryingProvider(provider Provider, policy RetryPolicy) *RetryingProvider {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.Backoff < 0 {
		policy.Backoff = 0
	}
	return &RetryingProvider{provider: provider, policy: policy, sleep: sleepContext}
}

func (r *RetryingProvider) Name() string {
	return r.provider.Name()
}

func (r *RetryingProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	var lastErr error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		resp, err := r.provider.Complete(ctx, req)
		if err == nil {
			resp.Attempts = attempt
			return resp, nil
		}
		lastErr = err

		if !errors.Is(err, ErrTimeout) || attempt == r.policy.MaxAttempts {
			return nil, withAttempts(err, attempt)
		}
		if err := r.sleep(ctx, r.policy.Backoff); err != nil {
			return nil, withAttempts(&CompletionError{Kind: ErrTransport, Err: err}, attempt)
		}
	}
	return nil, withAttempts(lastErr, r.policy.MaxAttempts)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
