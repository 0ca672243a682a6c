package llm

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// ResponseFormat selects how the assistant reply is constrained and parsed.
type ResponseFormat int

const (
	// FormatText returns the reply verbatim.
	FormatText ResponseFormat = iota
	// FormatJSONObject asks the endpoint for a JSON object and returns its
	// AnswerField.
	FormatJSONObject
)

// AnswerField is the JSON field read in FormatJSONObject mode.
const AnswerField = "code"

func (f ResponseFormat) String() string {
	switch f {
	case FormatJSONObject:
		return "json_object"
	default:
		return "text"
	}
}

// CompletionRequest contains the parameters for an LLM completion request.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	Format      ResponseFormat
}

// CompletionResponse contains the result of an LLM completion request.
type CompletionResponse struct {
	Content      string
	Raw          string // response body as received
	StatusCode   int
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
	Attempts     int
}

// Answer is the extracted, non-empty result of a completion.
type Answer struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
	Attempts     int
}
