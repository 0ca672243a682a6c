package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gptsh/internal/assistant"
	"github.com/ziadkadry99/gptsh/internal/config"
	"github.com/ziadkadry99/gptsh/internal/filestore"
	"github.com/ziadkadry99/gptsh/internal/workspace"
)

var (
	refactorJSON  bool
	refactorPrint bool
	refactorYes   bool
)

var refactorCmd = &cobra.Command{
	Use:   "refactor <file> [instructions...]",
	Short: "Rewrite a source file with the model and show the diff",
	Long: `Sends the file and the refactoring instructions to the model and writes
the returned module back in place. Without instructions a general
clean-up list is used.

Files not tracked by git are backed up to <file>.bak first. The change is
shown with git diff or diff -u afterwards.`,
	Example: `  gptsh refactor app/models/user.rb "extract the validation into a concern"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p := newPrinter(cmd)
		path := args[0]

		code, err := filestore.Read(path)
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("file not found: %s", path)
		}
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := assistant.NewFromConfig(cfg)
		if err != nil {
			return err
		}

		instruction := joinArgs(args[1:])
		jsonMode := refactorJSON || cfg.Refactor.JSONMode
		model := cfg.ModelFor(config.ToolRefactor)

		s, err := suggest(model, func() (*assistant.Suggestion, error) {
			return a.Refactor(ctx, string(code), instruction, jsonMode)
		})
		if err != nil {
			return err
		}
		printUsage(p, s)

		run := newRun(config.ToolRefactor, instruction, s)
		run.Target = path
		defer recordRun(ctx, cfg, p, &run)

		if refactorPrint {
			fmt.Fprint(p.Out, s.Text)
			return nil
		}

		refactored := []byte(s.Text)
		if bytes.Equal(code, refactored) {
			p.Info("No changes made.")
			return nil
		}

		if !cfg.Refactor.AutoApply && !refactorYes {
			ok, err := confirm(fmt.Sprintf("Overwrite %s", path))
			if err != nil {
				return err
			}
			if !ok {
				p.Info("File not changed.")
				return nil
			}
		}

		tracked := workspace.IsGitTracked(ctx, path)
		backup := ""
		if !tracked {
			if backup, err = filestore.Backup(path, code); err != nil {
				return err
			}
			p.Debug("backup written to %s", backup)
		}

		if err := filestore.Write(path, refactored); err != nil {
			return err
		}
		run.Executed = true

		return filestore.ShowDiff(ctx, p.Out, path, backup, tracked)
	},
}

func init() {
	refactorCmd.Flags().BoolVar(&refactorJSON, "json", false, "ask for a JSON object reply instead of a fenced code block")
	refactorCmd.Flags().BoolVar(&refactorPrint, "print", false, "write the result to stdout instead of the file")
	refactorCmd.Flags().BoolVarP(&refactorYes, "yes", "y", false, "overwrite the file without asking")
	rootCmd.AddCommand(refactorCmd)
}
