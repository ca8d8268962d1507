package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func buildNextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "next [directory]",
		Short: "Show the filename the next save would use",
		Long: `Scans the directory and prints the path a save with the same naming
configuration would attempt first, without writing anything.

The answer is a snapshot: a concurrent saver may take the name before
it is used.

Examples:
  bettersave next --base report --ext pdf --padding 3 ./out`,
		Args: cobra.ExactArgs(1),
		RunE: runNext,
	}
}

func runNext(_ *cobra.Command, args []string) error {
	cfg, err := namingConfigFromFlags()
	if err != nil {
		return err
	}

	path, counter, err := newUseCaseService().NextPath(args[0], cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Printf("Counter: %d\n", counter)
	}
	fmt.Println(path)

	return nil
}
