package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gptsh/internal/llm"
	"github.com/ziadkadry99/gptsh/internal/ui"
)

var (
	cfgFile   string
	envFile   string
	modelFlag string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "gptsh",
	Short: "Ask a language model for shell commands, code searches and refactorings",
	Long: `gptsh sends a plain-language request together with local context (system
info, directory listing, project keywords, recent commits) to an
OpenAI-compatible chat completion endpoint, then prints, runs or applies
the answer.

The endpoint is read from OPENAI_BASE_URL and OPENAI_ACCESS_TOKEN, either
in the environment or in a .env file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Errors are reported to stderr before
// being returned.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		reportError(ui.NewPrinter(verbose), err)
	}
	return err
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	var status *exitStatusError
	if errors.As(err, &status) {
		return status.code
	}
	if err != nil {
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".gptsh.yml", "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file holding OPENAI_BASE_URL and OPENAI_ACCESS_TOKEN")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "model to use for every tool (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// exitStatusError carries the exit status of an executed command.
type exitStatusError struct {
	code int
}

func (e *exitStatusError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.code)
}

// reportError prints err, the raw response body of a failed completion,
// and a hint for missing endpoint settings.
func reportError(p *ui.Printer, err error) {
	var status *exitStatusError
	if errors.As(err, &status) {
		p.Debug("%v", err)
		return
	}

	p.Error("%v", err)

	var cfgErr *llm.ConfigurationError
	if errors.As(err, &cfgErr) {
		p.Info("Please add %s to the %s file or the environment.", cfgErr.Key, envFile)
	}

	var cerr *llm.CompletionError
	if errors.As(err, &cerr) && cerr.Body != "" {
		fmt.Fprintln(p.Err, cerr.Body)
	}
}
