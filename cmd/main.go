package main

import (
	"os"
)

func main() {
	rootCmd := buildRootCommand()
	rootCmd.AddCommand(buildSaveCommand())
	rootCmd.AddCommand(buildNextCommand())
	rootCmd.AddCommand(buildScanCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
