package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func buildScanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [directory]",
		Short: "List counter values already occupied in a directory",
		Long: `Scans the directory for files matching the naming configuration and
prints the counter values already in use.

Examples:
  bettersave scan --base report --ext pdf --padding 3 ./out`,
		Args: cobra.ExactArgs(1),
		RunE: runScan,
	}
}

func runScan(_ *cobra.Command, args []string) error {
	cfg, err := namingConfigFromFlags()
	if err != nil {
		return err
	}

	counters, err := newUseCaseService().ExistingCounters(args[0], cfg)
	if err != nil {
		return err
	}

	if len(counters) == 0 {
		fmt.Println("No occupied counters.")
		return nil
	}

	for _, counter := range counters {
		fmt.Println(counter)
	}

	if verbose {
		fmt.Printf("Total occupied: %d\n", len(counters))
	}

	return nil
}
