package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gptsh/internal/assistant"
	"github.com/ziadkadry99/gptsh/internal/history"
	mcpserver "github.com/ziadkadry99/gptsh/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing the shell,
search and refactor suggestions as tools. Tools only return text; nothing
is executed or written by the server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		var recorder mcpserver.Recorder
		if cfg.History.Enabled {
			store, err := history.Open(cfg.History.Path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: history disabled: %v\n", err)
			} else {
				defer store.Close()
				recorder = store
			}
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "gptsh MCP server started on stdio (dir=%s, model=%s)\n", dir, cfg.Model)

		srv := mcpserver.NewServer(a, dir, recorder)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
