package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gptsh/internal/assistant"
	"github.com/ziadkadry99/gptsh/internal/config"
	"github.com/ziadkadry99/gptsh/internal/shell"
)

var (
	bashDryRun bool
	bashYes    bool
)

var bashCmd = &cobra.Command{
	Use:   "bash <request...>",
	Short: "Generate a bash command for a request and run it",
	Long: `Generates a bash command that does what the request says, using the system
info and the current directory listing as context.

Commands made only of allow-listed programs (safe_commands) run straight
away; anything else asks for confirmation first.`,
	Example: `  gptsh bash "show the five largest files here"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p := newPrinter(cmd)

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
		sc, err := assistant.GatherShellContext(dir)
		if err != nil {
			return fmt.Errorf("gathering context: %w", err)
		}

		instruction := joinArgs(args)
		model := cfg.ModelFor(config.ToolBash)
		if bashDryRun {
			printEstimate(p, model, assistant.ShellMessages(instruction, sc))
		}

		s, err := suggest(model, func() (*assistant.Suggestion, error) {
			return a.ShellCommand(ctx, instruction, sc)
		})
		if err != nil {
			return err
		}

		p.Heading("Generated bash command:")
		p.Command(s.Text)
		printUsage(p, s)

		run := newRun(config.ToolBash, instruction, s)
		defer recordRun(ctx, cfg, p, &run)

		if bashDryRun {
			return nil
		}

		allowlist := shell.NewAllowlist(cfg.SafeCommands)
		p.Debug("safe commands: %s", strings.Join(allowlist.Names(), " "))
		if !allowlist.Allows(s.Text) && !bashYes {
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
		if code != 0 {
			return &exitStatusError{code: code}
		}
		return nil
	},
}

func init() {
	bashCmd.Flags().BoolVar(&bashDryRun, "dry-run", false, "show the prompt estimate and the command without running it")
	bashCmd.Flags().BoolVarP(&bashYes, "yes", "y", false, "run the command without asking")
	rootCmd.AddCommand(bashCmd)
}
