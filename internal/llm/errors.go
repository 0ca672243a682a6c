package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
)

// Failure kinds carried by CompletionError. Test with errors.Is.
var (
	ErrTransport       = errors.New("transport failure")
	ErrTimeout         = errors.New("read timeout")
	ErrHTTPStatus      = errors.New("unexpected http status")
	ErrEmptyAnswer     = errors.New("no answer in response")
	ErrMalformedAnswer = errors.New("malformed answer")
)

// ErrNoMessages is returned when Complete is called without messages.
var ErrNoMessages = errors.New("at least one message is required")

// ConfigurationError reports a required setting that is missing.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Key)
}

// CompletionError is returned for every failed completion. Body holds the
// raw response body when one was received, for display to the user.
type CompletionError struct {
	Kind       error
	Attempts   int
	StatusCode int
	Body       string
	Err        error
}

func (e *CompletionError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.StatusCode != 0 && errors.Is(e.Kind, ErrHTTPStatus) {
		fmt.Fprintf(&b, " %d", e.StatusCode)
	}
	if msg := e.APIMessage(); msg != "" {
		fmt.Fprintf(&b, ": %s", msg)
	} else if e.Err != nil && e.Err != e.Kind {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Attempts > 1 {
		fmt.Fprintf(&b, " (after %d attempts)", e.Attempts)
	}
	return b.String()
}

func (e *CompletionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// APIMessage returns error.message from an OpenAI-style error body, if any.
func (e *CompletionError) APIMessage() string {
	if e.Body == "" {
		return ""
	}
	msg, err := jsonparser.GetString([]byte(e.Body), "error", "message")
	if err != nil {
		return ""
	}
	return msg
}

// withAttempts records the attempt count on a CompletionError.
func withAttempts(err error, attempts int) error {
	var cerr *CompletionError
	if errors.As(err, &cerr) {
		cerr.Attempts = attempts
		return cerr
	}
	return &CompletionError{Kind: ErrTransport, Attempts: attempts, Err: err}
}
