package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Options configure a Client. They are resolved once at startup.
type Options struct {
	BaseURL      string
	AccessToken  string
	Model        string
	Temperature  float64
	MaxTokens    int
	ReadTimeout  time.Duration
	Retry        RetryPolicy
	RateLimitRPM int
}

// DefaultReadTimeout applies when Options.ReadTimeout is zero.
const DefaultReadTimeout = 100 * time.Second

// Client sends chat completions and extracts a non-empty answer. It keeps no
// per-call state and is safe for concurrent use.
type Client struct {
	provider    Provider
	model       string
	temperature float64
	maxTokens   int
}

// NewClient builds a client for an OpenAI-compatible endpoint. It returns a
// *ConfigurationError when the base URL or access token is missing.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, &ConfigurationError{Key: "OPENAI_BASE_URL"}
	}
	token := strings.TrimSpace(opts.AccessToken)
	if token == "" {
		return nil, &ConfigurationError{Key: "OPENAI_ACCESS_TOKEN"}
	}

	timeout := opts.ReadTimeout
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}

	return NewClientWithProvider(NewOpenAIProvider(baseURL, token, opts.Model, timeout), opts), nil
}

// NewClientWithProvider builds a client around an existing provider, adding
// retry and, when RateLimitRPM is positive, rate limiting.
func NewClientWithProvider(p Provider, opts Options) *Client {
	policy := opts.Retry
	if policy.MaxAttempts == 0 {
		policy = DefaultRetryPolicy()
	}

	if opts.RateLimitRPM > 0 {
		p = NewRateLimitedProvider(p, opts.RateLimitRPM)
	}
	return &Client{
		provider:    NewRetryingProvider(p, policy),
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}
}

// Complete sends messages and returns the extracted answer text.
func (c *Client) Complete(ctx context.Context, messages []Message, format ResponseFormat) (string, error) {
	answer, err := c.CompleteDetailed(ctx, messages, format)
	if err != nil {
		return "", err
	}
	return answer.Text, nil
}

// CompleteDetailed is Complete with model and token usage.
func (c *Client) CompleteDetailed(ctx context.Context, messages []Message, format ResponseFormat) (*Answer, error) {
	if len(messages) == 0 {
		return nil, ErrNoMessages
	}

	req := CompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Format:      format,
	}

	resp, err := c.provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	text, err := ExtractAnswer(resp.Content, format)
	if err != nil {
		kind := ErrEmptyAnswer
		if errors.Is(err, ErrMalformedAnswer) {
			kind = ErrMalformedAnswer
		}
		return nil, &CompletionError{
			Kind:       kind,
			Attempts:   resp.Attempts,
			StatusCode: resp.StatusCode,
			Body:       resp.Raw,
			Err:        err,
		}
	}

	return &Answer{
		Text:         text,
		Model:        resp.Model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		Attempts:     resp.Attempts,
	}, nil
}
