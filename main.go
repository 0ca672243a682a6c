package main

import (
	"os"

	"github.com/ziadkadry99/gptsh/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
