package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gptsh/internal/config"
	"github.com/ziadkadry99/gptsh/internal/history"
	"github.com/ziadkadry99/gptsh/internal/llm"
	"github.com/ziadkadry99/gptsh/internal/ui"
	"github.com/ziadkadry99/gptsh/internal/workspace"
)

var (
	historyTool  string
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous gptsh runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := newPrinter(cmd)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.History.Enabled {
			p.Warn("history is disabled (history.enabled: false)")
			return nil
		}

		tool := config.Tool(historyTool)
		if historyTool != "" && !validTool(tool) {
			return fmt.Errorf("unknown tool %q: must be one of bash, search, refactor", historyTool)
		}

		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer store.Close()
		p.Debug("history database: %s", store.Path())

		runs, err := store.List(cmd.Context(), history.Filter{Tool: tool, Limit: historyLimit})
		if err != nil {
			return err
		}

		if historyJSON {
			if runs == nil {
				runs = []history.Run{}
			}
			enc := json.NewEncoder(p.Out)
			enc.SetIndent("", "  ")
			return enc.Encode(runs)
		}

		if len(runs) == 0 {
			p.Info("No runs recorded yet.")
			return nil
		}
		return printRuns(p, runs)
	},
}

func validTool(tool config.Tool) bool {
	for _, t := range config.Tools {
		if t == tool {
			return true
		}
	}
	return false
}

// printRuns renders runs as a table, newest first.
func printRuns(p *ui.Printer, runs []history.Run) error {
	w := tabwriter.NewWriter(p.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tTOOL\tMODEL\tSTATUS\tCOST\tANSWER")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t$%.4f\t%s\n",
			r.CreatedAt.Local().Format(time.DateTime),
			r.Tool,
			r.Model,
			runStatus(r),
			llm.EstimateCost(r.Model, r.InputTokens, r.OutputTokens),
			summarize(r),
		)
	}
	return w.Flush()
}

func runStatus(r history.Run) string {
	switch {
	case r.ExitCode != nil:
		return fmt.Sprintf("exit %d", *r.ExitCode)
	case r.Executed:
		return "applied"
	default:
		return "suggested"
	}
}

// summarize returns the first line of the answer, or the target file for
// refactorings.
func summarize(r history.Run) string {
	if r.Target != "" {
		return r.Target
	}
	line, _, _ := strings.Cut(r.Answer, "\n")
	if len(line) > 60 {
		line = workspace.Truncate(line, 57) + "..."
	}
	return line
}

func init() {
	historyCmd.Flags().StringVar(&historyTool, "tool", "", "only show runs of this tool (bash, search, refactor)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print runs as JSON")
	rootCmd.AddCommand(historyCmd)
}
