package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
)

// ExtractAnswer pulls the answer out of an assistant message.
//
// In FormatText the content is returned verbatim unless it is blank. In
// FormatJSONObject the content must be a JSON object whose AnswerField is a
// non-empty string.
func ExtractAnswer(content string, format ResponseFormat) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyAnswer
	}
	if format != FormatJSONObject {
		return content, nil
	}

	data := bytes.TrimSpace([]byte(content))
	if len(data) == 0 || data[0] != '{' || !json.Valid(data) {
		return "", fmt.Errorf("%w: content is not a JSON object", ErrMalformedAnswer)
	}

	value, dataType, _, err := jsonparser.Get(data, AnswerField)
	if err != nil {
		return "", fmt.Errorf("%w: missing %q field", ErrMalformedAnswer, AnswerField)
	}
	if dataType != jsonparser.String {
		return "", fmt.Errorf("%w: %q is %s, not a string", ErrMalformedAnswer, AnswerField, dataType)
	}

	answer, err := jsonparser.ParseString(value)
	if err != nil {
		return "", fmt.Errorf("%w: decoding %q: %v", ErrMalformedAnswer, AnswerField, err)
	}
	if strings.TrimSpace(answer) == "" {
		return "", fmt.Errorf("%w: %q is empty", ErrEmptyAnswer, AnswerField)
	}
	return answer, nil
}
