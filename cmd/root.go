package main

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool

	pattern        string
	base           string
	extension      string
	counterStart   int
	counterPadding int
	configPath     string
	profileName    string
)

func buildRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bettersave",
		Short: "Save payloads under unique, pattern-derived filenames",
		Long: `bettersave writes payloads into a directory under collision-free names.

Filenames are composed from a pattern with {base} and {counter} tokens.
The counter advances past names already on disk, and concurrent writers
are serialized by the filesystem's exclusive-create primitive, so two
savers never silently clobber each other's data.

Commands:
  save   Write payloads (from files or stdin) into a directory
  next   Show the filename the next save would use, without writing
  scan   List counter values already occupied in a directory

Examples:
  # Save stdin as report_001.pdf, report_002.pdf, ...
  echo "data" | bettersave save --base report --ext pdf --padding 3 ./out

  # Save files, deriving base and extension from each input name
  bettersave save ./out invoice.pdf receipt.pdf

  # Replace the file at the counter start instead of allocating
  bettersave save --overwrite --base report --ext pdf ./out < report.pdf

  # Preview the next free name
  bettersave next --base report --ext pdf --padding 3 ./out

Named profiles can be kept in a YAML file:
  bettersave save --config profiles.yaml --profile reports ./out < report.pdf

When --profile is given it supplies the whole naming configuration and
the individual naming flags are ignored.`,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().StringVar(&pattern, "pattern", "{base}_{counter}", "Filename pattern with {base} and {counter} tokens")
	cmd.PersistentFlags().StringVarP(&base, "base", "b", "", "Base name substituted for {base} (default: derived from the input filename)")
	cmd.PersistentFlags().StringVarP(&extension, "ext", "e", "", "File extension without the dot (default: derived from the input filename)")
	cmd.PersistentFlags().IntVar(&counterStart, "start", 1, "First counter value to try")
	cmd.PersistentFlags().IntVarP(&counterPadding, "padding", "p", 0, "Zero-pad the counter to this many digits")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML profiles file")
	cmd.PersistentFlags().StringVar(&profileName, "profile", "", "Profile name from the --config file")

	return cmd
}
