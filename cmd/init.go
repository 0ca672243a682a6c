package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ziadkadry99/gptsh/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize gptsh configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the completion endpoint, models and safe commands, and writes the result to the --config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
