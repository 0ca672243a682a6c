package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gptsh/internal/assistant"
	"github.com/ziadkadry99/gptsh/internal/config"
	"github.com/ziadkadry99/gptsh/internal/shell"
)

var searchDryRun bool

// searchAllowlist lets a plain ag invocation run without asking.
var searchAllowlist = shell.NewAllowlist([]string{"ag"})

// errAgMissing is returned when The Silver Searcher is not on PATH.
var errAgMissing = errors.New("'ag' (The Silver Searcher) is not installed. Please install it to proceed")

var searchCmd = &cobra.Command{
	Use:   "search <request...>",
	Short: "Search through your code with human language",
	Long: `Generates an ag (The Silver Searcher) command for the request, using
project keywords from file names, the last commit subjects and the
dominant language as context, and runs it.`,
	Example: `  gptsh search "where do we validate passwords"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p := newPrinter(cmd)

		if !shell.Installed("ag") {
			return errAgMissing
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := assistant.NewFromConfig(cfg)
		if err != nil {
			return err
		}

		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		sc, err := a.GatherSearchContext(ctx, dir)
		if err != nil {
			return fmt.Errorf("gathering context: %w", err)
		}
		p.Debug("language=%q flag=%q keywords=%d commits=%d", sc.Language, sc.AgFlag, len(sc.Keywords), len(sc.CommitSubjects))

		instruction := joinArgs(args)
		model := cfg.ModelFor(config.ToolSearch)
		if searchDryRun {
			printEstimate(p, model, assistant.SearchMessages(instruction, sc))
		}

		s, err := suggest(model, func() (*assistant.Suggestion, error) {
			return a.SearchCommand(ctx, instruction, sc)
		})
		if err != nil {
			return err
		}

		p.Heading("Generated bash command:")
		p.Command(s.Text)
		printUsage(p, s)

		run := newRun(config.ToolSearch, instruction, s)
		defer recordRun(ctx, cfg, p, &run)

		if searchDryRun {
			return nil
		}

		if !searchAllowlist.Allows(s.Text) {
			ok, err := confirm("Do you want to run this command")
			if err != nil {
				return err
			}
			if !ok {
				p.Info("Command not executed.")
				return nil
			}
		}

		executor := shell.NewExecutor(cfg.Shell)
		executor.Dir = dir
		code, err := executor.Run(ctx, s.Text)
		if err != nil {
			return err
		}
		run.Executed = true
		run.ExitCode = &code

		fmt.Fprintln(p.Out)
		p.Heading("Finished:")
		p.Command(s.Text)

		// ag exits 1 when nothing matched.
		if code > 1 {
			return &exitStatusError{code: code}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().BoolVar(&searchDryRun, "dry-run", false, "show the prompt estimate and the command without running it")
	rootCmd.AddCommand(searchCmd)
}
