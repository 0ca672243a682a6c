package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// maxRecordedBody caps how much of a response body is kept for diagnostics.
const maxRecordedBody = 1 << 20

// OpenAIProvider implements Provider against any OpenAI-compatible
// /chat/completions endpoint.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a provider for the given base URL. The timeout
// bounds each HTTP exchange, including reading the response body.
func NewOpenAIProvider(baseURL, token, model string, timeout time.Duration) *OpenAIProvider {
	cfg := openai.DefaultConfig(token)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = &http.Client{
		Timeout:   timeout,
		Transport: &recordingTransport{base: http.DefaultTransport},
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	apiReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: wireTemperature(req.Temperature),
	}

	if req.Format == FormatJSONObject {
		apiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	rec := &bodyRecorder{}
	resp, err := p.client.CreateChatCompletion(withRecorder(ctx, rec), apiReq)
	if err != nil {
		return nil, classify(ctx, err, rec)
	}

	out := &CompletionResponse{
		Raw:          rec.String(),
		StatusCode:   rec.status,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Model:        resp.Model,
	}
	if len(resp.Choices) > 0 {
		out.Content = resp.Choices[0].Message.Content
		out.FinishReason = string(resp.Choices[0].FinishReason)
	}
	return out, nil
}

// wireTemperature maps 0 to the smallest positive float32: go-openai omits a
// zero temperature from the payload, which would leave the server default.
func wireTemperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

// classify turns a go-openai error into a CompletionError.
func classify(ctx context.Context, err error, rec *bodyRecorder) error {
	cerr := &CompletionError{
		Kind:       ErrTransport,
		StatusCode: rec.status,
		Body:       rec.String(),
		Err:        err,
	}

	var (
		apiErr    *openai.APIError
		reqErr    *openai.RequestError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case ctx.Err() != nil:
		// Caller cancellation is never a timeout, even when a deadline expired.
		cerr.Err = ctx.Err()
	case isTimeout(err):
		cerr.Kind = ErrTimeout
	case errors.As(err, &apiErr):
		cerr.Kind = ErrHTTPStatus
		cerr.StatusCode = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		cerr.Kind = ErrHTTPStatus
		cerr.StatusCode = reqErr.HTTPStatusCode
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		// 2xx with a body that is not a completion object.
		cerr.Kind = ErrEmptyAnswer
	}
	return cerr
}

// isTimeout reports whether err is a network timeout, including a timeout
// while reading the response body.
func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

type recorderKey struct{}

func withRecorder(ctx context.Context, rec *bodyRecorder) context.Context {
	return context.WithValue(ctx, recorderKey{}, rec)
}

func recorderFrom(ctx context.Context) *bodyRecorder {
	rec, _ := ctx.Value(recorderKey{}).(*bodyRecorder)
	return rec
}

// bodyRecorder keeps a copy of one response. Each call gets its own.
type bodyRecorder struct {
	status int
	buf    bytes.Buffer
}

func (r *bodyRecorder) Write(p []byte) (int, error) {
	if room := maxRecordedBody - r.buf.Len(); room > 0 {
		if len(p) > room {
			r.buf.Write(p[:room])
		} else {
			r.buf.Write(p)
		}
	}
	return len(p), nil
}

func (r *bodyRecorder) String() string {
	return r.buf.String()
}

// recordingTransport tees response bodies into the recorder carried by the
// request context.
type recordingTransport struct {
	base http.RoundTripper
}

func (t *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if rec := recorderFrom(req.Context()); rec != nil {
		rec.status = resp.StatusCode
		resp.Body = &teeBody{r: io.TeeReader(resp.Body, rec), c: resp.Body}
	}
	return resp, nil
}

type teeBody struct {
	r io.Reader
	c io.Closer
}

func (b *teeBody) Read(p []byte) (int, error) { return b.r.Read(p) }
func (b *teeBody) Close() error               { return b.c.Close() }
