package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"bettersave/pkg/progress"
	"bettersave/pkg/usecase"
)

var (
	overwrite       bool
	makeDirs        bool
	journalPath     string
	continueOnError bool
)

func buildSaveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save [directory] [file...]",
		Short: "Write payloads into a directory under unique names",
		Long: `Saves each input file (or stdin when no files are given) into the
directory under a pattern-derived name with the next free counter.

Existing files are never replaced unless --overwrite is given; concurrent
savers targeting the same directory each receive a distinct counter.

Examples:
  echo "data" | bettersave save --base report --ext pdf --padding 3 ./out
  bettersave save ./out invoice.pdf receipt.pdf
  bettersave save --overwrite --base report --ext pdf ./out < report.pdf
  bettersave save --mkdirs --journal saves.jsonl --base log ./out/2026 < app.log`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSave,
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace the file at the counter start instead of allocating a free counter")
	cmd.Flags().BoolVar(&makeDirs, "mkdirs", false, "Create the destination directory if it does not exist")
	cmd.Flags().StringVar(&journalPath, "journal", "", "Append an audit entry per completed save to this JSONL file")
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "Keep saving remaining inputs when one fails")

	return cmd
}

func runSave(_ *cobra.Command, args []string) error {
	cfg, err := namingConfigFromFlags()
	if err != nil {
		return err
	}

	items, err := buildSaveItems(cfg, args[1:], overwrite)
	if err != nil {
		return err
	}

	printCommandHeader("SAVE", args[0])

	ticker := progress.StartTicker(os.Stderr, "Working", 5*time.Second)

	execution, err := newUseCaseService().RunSaveBatch(usecase.BatchRequest{
		TargetDir:       args[0],
		Items:           items,
		MakeDirs:        makeDirs,
		ContinueOnError: continueOnError,
		JournalPath:     journalPath,
	})
	ticker.Stop()

	result := execution.Result

	if verbose || result.ErrorCount > 0 || result.JournalErrorCount > 0 {
		for _, op := range result.Operations {
			printSaveOperation(op)
		}
		fmt.Println()
	}

	summaryLines := []string{
		fmt.Sprintf("Total items:  %d", result.TotalItems),
		fmt.Sprintf("Saved:        %d", result.SavedCount),
		fmt.Sprintf("Errors:       %d", result.ErrorCount),
	}
	if result.JournalErrorCount > 0 {
		summaryLines = append(summaryLines, fmt.Sprintf("Not journaled: %d", result.JournalErrorCount))
	}
	summaryLines = append(summaryLines, fmt.Sprintf("Duration:     %v", execution.Duration.Round(time.Millisecond)))
	printSummary(summaryLines...)

	return err
}
