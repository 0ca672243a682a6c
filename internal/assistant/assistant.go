// Package assistant turns natural-language requests into shell commands, ag
// searches and refactored code.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/ziadkadry99/gptsh/internal/config"
	"github.com/ziadkadry99/gptsh/internal/llm"
	"github.com/ziadkadry99/gptsh/internal/workspace"
)

// Completer is the part of llm.Client the assistant needs.
type Completer interface {
	CompleteDetailed(ctx context.Context, messages []llm.Message, format llm.ResponseFormat) (*llm.Answer, error)
}

// Suggestion is a model reply ready to show, run or apply.
type Suggestion struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
	Attempts     int
}

// Assistant runs the shell, search and refactor use cases.
type Assistant struct {
	clients        map[config.Tool]Completer
	keywords       workspace.ProjectOptions
	maxChars       int
	commitSubjects int
}

// New creates an assistant that sends each tool's requests to the given
// completer.
func New(cfg *config.Config, clients map[config.Tool]Completer) *Assistant {
	return &Assistant{
		clients: clients,
		keywords: workspace.ProjectOptions{
			Include: cfg.Keywords.Include,
			Exclude: cfg.Keywords.Exclude,
		},
		maxChars:       cfg.Keywords.MaxChars,
		commitSubjects: cfg.CommitSubjects,
	}
}

// NewFromConfig builds one llm.Client per tool from cfg. It fails with an
// *llm.ConfigurationError when the endpoint or token is missing.
func NewFromConfig(cfg *config.Config) (*Assistant, error) {
	clients := make(map[config.Tool]Completer, len(config.Tools))
	for _, tool := range config.Tools {
		client, err := llm.NewClient(ClientOptions(cfg, tool))
		if err != nil {
			return nil, err
		}
		clients[tool] = client
	}
	return New(cfg, clients), nil
}

// ClientOptions resolves the llm options for one tool.
func ClientOptions(cfg *config.Config, tool config.Tool) llm.Options {
	return llm.Options{
		BaseURL:     cfg.BaseURL,
		AccessToken: cfg.AccessToken,
		Model:       cfg.ModelFor(tool),
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		ReadTimeout: cfg.TimeoutFor(tool),
		Retry: llm.RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			Backoff:     cfg.Retry.Backoff,
		},
		RateLimitRPM: cfg.RateLimitRPM,
	}
}

// GatherShellContext collects system info and the listing of dir.
func GatherShellContext(dir string) (ShellContext, error) {
	listing, err := workspace.Listing(dir)
	if err != nil {
		return ShellContext{}, err
	}
	return ShellContext{
		SystemInfo: workspace.SystemInfo(),
		Dir:        dir,
		Listing:    listing,
	}, nil
}

// GatherSearchContext collects project keywords, recent commit subjects and
// the dominant language of the project in dir. Without code files the
// directory listing stands in for keywords.
func (a *Assistant) GatherSearchContext(ctx context.Context, dir string) (SearchContext, error) {
	files, err := workspace.ProjectFiles(ctx, dir, a.keywords)
	if err != nil {
		return SearchContext{}, err
	}

	keywords := workspace.Keywords(files)
	if len(keywords) == 0 {
		if keywords, err = workspace.Listing(dir); err != nil {
			return SearchContext{}, err
		}
	}

	lang := workspace.DominantLanguage(files)
	return SearchContext{
		Keywords:       keywords,
		MaxChars:       a.maxChars,
		CommitSubjects: workspace.CommitSubjects(ctx, dir, a.commitSubjects),
		Language:       lang,
		AgFlag:         workspace.AgFlag(lang),
	}, nil
}

// ShellCommand asks for a bash command that does what instruction says.
func (a *Assistant) ShellCommand(ctx context.Context, instruction string, sc ShellContext) (*Suggestion, error) {
	s, err := a.ask(ctx, config.ToolBash, ShellMessages(instruction, sc), llm.FormatText)
	if err != nil {
		return nil, err
	}
	s.Text = strings.TrimSpace(Unfence(s.Text))
	if s.Text == "" {
		return nil, fmt.Errorf("%w: reply contained an empty code block", llm.ErrEmptyAnswer)
	}
	return s, nil
}

// SearchCommand asks for an ag command that finds what instruction
// describes.
func (a *Assistant) SearchCommand(ctx context.Context, instruction string, sc SearchContext) (*Suggestion, error) {
	s, err := a.ask(ctx, config.ToolSearch, SearchMessages(instruction, sc), llm.FormatText)
	if err != nil {
		return nil, err
	}
	s.Text = strings.TrimSpace(Unfence(s.Text))
	if s.Text == "" {
		return nil, fmt.Errorf("%w: reply contained an empty code block", llm.ErrEmptyAnswer)
	}
	return s, nil
}

// Refactor asks for a rewritten version of code. The result always ends
// with a newline.
func (a *Assistant) Refactor(ctx context.Context, code, instruction string, jsonMode bool) (*Suggestion, error) {
	format := llm.FormatText
	if jsonMode {
		format = llm.FormatJSONObject
	}

	s, err := a.ask(ctx, config.ToolRefactor, RefactorMessages(code, instruction, jsonMode), format)
	if err != nil {
		return nil, err
	}
	if !jsonMode {
		s.Text = Unfence(s.Text)
	}
	if strings.TrimSpace(s.Text) == "" {
		return nil, fmt.Errorf("%w: reply contained no code", llm.ErrEmptyAnswer)
	}
	if !strings.HasSuffix(s.Text, "\n") {
		s.Text += "\n"
	}
	return s, nil
}

func (a *Assistant) ask(ctx context.Context, tool config.Tool, messages []llm.Message, format llm.ResponseFormat) (*Suggestion, error) {
	client, ok := a.clients[tool]
	if !ok {
		return nil, fmt.Errorf("no client configured for %s", tool)
	}
	answer, err := client.CompleteDetailed(ctx, messages, format)
	if err != nil {
		return nil, err
	}
	return &Suggestion{
		Text:         answer.Text,
		Model:        answer.Model,
		InputTokens:  answer.InputTokens,
		OutputTokens: answer.OutputTokens,
		Attempts:     answer.Attempts,
	}, nil
}
