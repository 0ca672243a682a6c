package llm

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"testing/quick"
)

func TestExtractAnswerText(t *testing.T) {
	tests := []struct {
		content string
		want    string
		wantErr error
	}{
		{"ls -la", "ls -la", nil},
		{"  keeps surrounding space\n", "  keeps surrounding space\n", nil},
		{"```bash\nls\n```", "```bash\nls\n```", nil},
		{"", "", ErrEmptyAnswer},
		{" \n\t", "", ErrEmptyAnswer},
	}
	for _, tt := range tests {
		got, err := ExtractAnswer(tt.content, FormatText)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ExtractAnswer(%q) error = %v, want %v", tt.content, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ExtractAnswer(%q) = %q, want %q", tt.content, got, tt.want)
		}
	}
}

func TestExtractAnswerJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr error
	}{
		{"plain code", `{"code":"puts 1"}`, "puts 1", nil},
		{"escaped newlines", `{"code":"def a\n  1\nend\n"}`, "def a\n  1\nend\n", nil},
		{"unicode escape", `{"code":"x = \"é\""}`, `x = "é"`, nil},
		{"extra fields", `{"language":"ruby","code":"1"}`, "1", nil},
		{"surrounding whitespace", "\n {\"code\":\"1\"} \n", "1", nil},
		{"not json", "puts 1", "", ErrMalformedAnswer},
		{"fenced json", "```json\n{\"code\":\"1\"}\n```", "", ErrMalformedAnswer},
		{"array", `["code"]`, "", ErrMalformedAnswer},
		{"bare string", `"puts 1"`, "", ErrMalformedAnswer},
		{"truncated", `{"code":"puts`, "", ErrMalformedAnswer},
		{"missing field", `{"result":"puts 1"}`, "", ErrMalformedAnswer},
		{"number field", `{"code":42}`, "", ErrMalformedAnswer},
		{"null field", `{"code":null}`, "", ErrMalformedAnswer},
		{"nested field only", `{"data":{"code":"1"}}`, "", ErrMalformedAnswer},
		{"empty field", `{"code":""}`, "", ErrEmptyAnswer},
		{"blank field", `{"code":"  \n"}`, "", ErrEmptyAnswer},
		{"empty content", "", "", ErrEmptyAnswer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractAnswer(tt.content, FormatJSONObject)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// Any non-blank string round-trips through the JSON answer envelope.
func TestExtractAnswerJSONRoundTripProperty(t *testing.T) {
	prop := func(code string) bool {
		encoded, err := json.Marshal(map[string]string{AnswerField: code})
		if err != nil {
			return false
		}
		got, err := ExtractAnswer(string(encoded), FormatJSONObject)
		if strings.TrimSpace(code) == "" {
			return errors.Is(err, ErrEmptyAnswer)
		}
		// json.Marshal replaces invalid UTF-8 with U+FFFD.
		var want map[string]string
		_ = json.Unmarshal(encoded, &want)
		return err == nil && got == want[AnswerField]
	}
	if err := quick.Check(prop, nil); err != nil {
		t.Error(err)
	}
}

// Text mode never returns an empty answer without an error.
func TestExtractAnswerTextNeverBlankProperty(t *testing.T) {
	prop := func(content string) bool {
		got, err := ExtractAnswer(content, FormatText)
		if err != nil {
			return errors.Is(err, ErrEmptyAnswer) && got == ""
		}
		return got == content && strings.TrimSpace(got) != ""
	}
	if err := quick.Check(prop, nil); err != nil {
		t.Error(err)
	}
}
