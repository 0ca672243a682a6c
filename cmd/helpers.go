package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gptsh/internal/assistant"
	"github.com/ziadkadry99/gptsh/internal/config"
	"github.com/ziadkadry99/gptsh/internal/history"
	"github.com/ziadkadry99/gptsh/internal/llm"
	"github.com/ziadkadry99/gptsh/internal/progress"
	"github.com/ziadkadry99/gptsh/internal/ui"
)

// confirm asks before anything is run or overwritten.
var confirm = ui.Confirm

// newPrinter returns a Printer on the command's output streams.
func newPrinter(cmd *cobra.Command) *ui.Printer {
	return &ui.Printer{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr(), Verbose: verbose}
}

// loadConfig loads and validates the config, applying --model.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile, envFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `gptsh init` to create a config file", err)
	}
	applyModelFlag(cfg, modelFlag)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyModelFlag makes model the model of every tool.
func applyModelFlag(cfg *config.Config, model string) {
	if model == "" {
		return
	}
	cfg.Model = model
	cfg.ToolModels = map[config.Tool]string{}
}

// joinArgs turns the positional arguments into one request, like a quoted
// string would be.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// suggest runs fn while the progress reporter shows that model is working.
func suggest(model string, fn func() (*assistant.Suggestion, error)) (*assistant.Suggestion, error) {
	reporter := progress.NewReporter()
	reporter.Start(fmt.Sprintf("Asking %s...", model))
	s, err := fn()
	reporter.Finish("")
	return s, err
}

// printEstimate shows the prompt size and an upper-bound cost guess.
func printEstimate(p *ui.Printer, model string, messages []llm.Message) {
	tokens := llm.EstimateMessageTokens(messages)
	p.Heading("Dry run: %d messages, ~%d prompt tokens to %s", len(messages), tokens, model)
	if cost := llm.EstimateCost(model, tokens, tokens); cost > 0 {
		p.Info("Estimated cost: up to $%.4f", cost)
	}
	for _, m := range messages {
		p.Debug("[%s]\n%s", m.Role, ui.Indent(m.Content))
	}
}

// printUsage reports token usage of a suggestion in verbose mode.
func printUsage(p *ui.Printer, s *assistant.Suggestion) {
	p.Debug("model=%s input_tokens=%d output_tokens=%d attempts=%d cost=$%.4f",
		s.Model, s.InputTokens, s.OutputTokens, s.Attempts,
		llm.EstimateCost(s.Model, s.InputTokens, s.OutputTokens))
}

// newRun starts a history entry for a suggestion.
func newRun(tool config.Tool, instruction string, s *assistant.Suggestion) history.Run {
	return history.Run{
		Tool:         tool,
		Instruction:  instruction,
		Answer:       s.Text,
		Model:        s.Model,
		InputTokens:  s.InputTokens,
		OutputTokens: s.OutputTokens,
		Attempts:     s.Attempts,
	}
}

// recordRun appends run to the history database. Failures are warnings.
func recordRun(ctx context.Context, cfg *config.Config, p *ui.Printer, run *history.Run) {
	if !cfg.History.Enabled {
		return
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		p.Warn("opening history: %v", err)
		return
	}
	defer store.Close()

	recorded, err := store.Record(context.WithoutCancel(ctx), *run)
	if err != nil {
		p.Warn("recording history: %v", err)
		return
	}
	p.Debug("recorded run %s", recorded.ID)
}
