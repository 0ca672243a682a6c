package shell

import (
	"sort"
	"strings"
)

// Allowlist decides which generated commands may run without confirmation.
type Allowlist struct {
	names map[string]bool
}

// NewAllowlist builds an allow-list from program names. Blank names are
// ignored.
func NewAllowlist(names []string) *Allowlist {
	a := &Allowlist{names: make(map[string]bool, len(names))}
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			a.names[n] = true
		}
	}
	return a
}

// Names returns the allowed program names in sorted order.
func (a *Allowlist) Names() []string {
	names := make([]string, 0, len(a.names))
	for n := range a.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Allows reports whether command is a pipeline in which every stage runs an
// allowed program. Quoted text is literal, so `ag 'a|b'` is a single stage.
// Redirection, command substitution, background jobs, sequencing, more than
// one line and unterminated quotes are never allowed, nor is in-place
// editing with sed.
func (a *Allowlist) Allows(command string) bool {
	stages, ok := splitPipeline(command)
	if !ok {
		return false
	}
	for _, words := range stages {
		if !a.allowsStage(words) {
			return false
		}
	}
	return true
}

// allowsStage accepts a stage whose program is allowed.
func (a *Allowlist) allowsStage(words []string) bool {
	name := words[0]
	if !a.names[name] {
		return false
	}
	if name == "sed" && sedInPlace(words[1:]) {
		return false
	}
	return true
}

// sedInPlace reports whether sed arguments ask for in-place editing
// (-i, -i.bak, -ni, --in-place).
func sedInPlace(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if strings.HasPrefix(arg, "--in-place") {
			return true
		}
		if strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--") && strings.ContainsRune(arg[1:], 'i') {
			return true
		}
	}
	return false
}

// splitPipeline splits command into pipeline stages of unquoted words,
// following sh quoting rules. ok is false when the command is empty, has an
// empty stage, leaves a quote open, or uses anything beyond a plain pipeline
// outside single quotes.
func splitPipeline(command string) (stages [][]string, ok bool) {
	var (
		words  []string
		word   strings.Builder
		inWord bool
		quote  rune
	)
	endWord := func() {
		if inWord {
			words = append(words, word.String())
			word.Reset()
			inWord = false
		}
	}
	endStage := func() bool {
		endWord()
		if len(words) == 0 {
			return false
		}
		stages = append(stages, words)
		words = nil
		return true
	}

	runes := []rune(command)
	substitution := func(i int) bool {
		return runes[i] == '`' || (runes[i] == '$' && i+1 < len(runes) && runes[i+1] == '(')
	}

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case quote == '\'':
			if c == '\'' {
				quote = 0
			} else {
				word.WriteRune(c)
			}
		case quote == '"':
			switch {
			case c == '"':
				quote = 0
			case substitution(i):
				return nil, false
			case c == '\\' && i+1 < len(runes) && strings.ContainsRune("$`\"\\", runes[i+1]):
				i++
				word.WriteRune(runes[i])
			default:
				word.WriteRune(c)
			}
		case c == '\'' || c == '"':
			quote = c
			inWord = true
		case c == '\\':
			if i+1 == len(runes) || runes[i+1] == '\n' || runes[i+1] == '\r' {
				return nil, false
			}
			i++
			word.WriteRune(runes[i])
			inWord = true
		case c == ' ' || c == '\t':
			endWord()
		case c == '|':
			if !endStage() {
				return nil, false
			}
		case strings.ContainsRune(";&<>\n\r", c), substitution(i):
			return nil, false
		default:
			word.WriteRune(c)
			inWord = true
		}
	}
	if quote != 0 || !endStage() {
		return nil, false
	}
	return stages, true
}
