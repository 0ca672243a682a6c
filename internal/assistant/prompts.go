package assistant

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/gptsh/internal/llm"
	"github.com/ziadkadry99/gptsh/internal/workspace"
)

const shellPromptTemplate = `Generate a bash command to accomplish the user's request.
Return the command only.

System info:
%s

Current directory:
%s

Directory listing:
%s
`

const searchPromptTemplate = `Task: Use ` + "`ag`" + ` (The Silver Searcher) to search through the software repository and answer the user's request.

1. Project Keywords:
   %s

2. Last Commit Messages:
   %s

3. Steps:
   - Determine the framework and programming language used.
   - Conceptualize how to implement the user's request with the identified framework and language.
   - Convert this implementation into a regex pattern.
   - Enhance the regex with synonyms, language keywords, and library names.

4. Command Formation:
   - Construct the ` + "`ag`" + ` command to search, excluding minified files, and add a language-specific flag:
     %s

5. Output: Provide only the complete ag command without any other text.
`

const refactorSystemPrompt = `Return the complete refactored code module only. Strictly preserve existing
comments unless implemented TODOs or changed code fragment business logic,
if not asked otherwise.
`

const refactorJSONSystemPrompt = refactorSystemPrompt + `
Respond with a JSON object of the form {"code": "<the complete refactored code module>"}
and nothing else.
`

// DefaultRefactorInstructions are used when the user gives none.
const DefaultRefactorInstructions = `1. Error Handling: Identify and fix any errors by rewriting the affected
   sections if necessary.
2. Descriptive Naming: Use clear and descriptive variable names.
3. Function Length: Ensure all functions are shorter than 15 lines, and all
   lines are not longer than 80 characters.
4. Inline Variables: If a variable used only once, replace it with its value.
5. Simplify Logic: Reduce the number of assignments, branches, and conditions.
6. Comments: Save existing comments as is. Add a brief comment before each
   non-trivial section.
7. Preserve Logic: Maintain all existing business logic.
8. Complete TODO
`

// ShellContext is the local context sent with a shell request.
type ShellContext struct {
	SystemInfo string
	Dir        string
	Listing    []string
}

// SearchContext is the local context sent with a search request.
type SearchContext struct {
	Keywords       []string
	MaxChars       int
	CommitSubjects []string
	Language       string
	AgFlag         string
}

// ShellMessages builds the conversation for a shell command request.
func ShellMessages(instruction string, sc ShellContext) []llm.Message {
	system := fmt.Sprintf(shellPromptTemplate, sc.SystemInfo, sc.Dir, formatListing(sc.Listing))
	return conversation(system, instruction)
}

// SearchMessages builds the conversation for an ag search request.
func SearchMessages(instruction string, sc SearchContext) []llm.Message {
	keywords := workspace.Truncate(strings.Join(sc.Keywords, " "), sc.MaxChars)

	example := "ag --ignore '*.min.*' search_regex"
	if sc.AgFlag != "" {
		example = fmt.Sprintf("ag --ignore '*.min.*' %s search_regex", sc.AgFlag)
	}

	system := fmt.Sprintf(searchPromptTemplate,
		keywords,
		strings.Join(sc.CommitSubjects, "\n   "),
		example,
	)
	return conversation(system, instruction)
}

// RefactorMessages builds the conversation for a refactoring request. An
// empty instruction selects DefaultRefactorInstructions.
func RefactorMessages(code, instruction string, jsonMode bool) []llm.Message {
	if strings.TrimSpace(instruction) == "" {
		instruction = DefaultRefactorInstructions
	}
	system := refactorSystemPrompt
	if jsonMode {
		system = refactorJSONSystemPrompt
	}
	user := strings.TrimRight(instruction, "\n") + "\n\n```\n" + code + "\n```"
	return conversation(system, user)
}

func conversation(system, user string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: user},
	}
}

// formatListing renders directory entries one per line.
func formatListing(names []string) string {
	return strings.Join(names, "\n")
}
