package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sortlint/internal/version"
)

// errIssuesFound signals a clean run that still found diagnostics; the
// report is already printed, only the exit code carries it further.
var errIssuesFound = errors.New("issues found")

var rootCmd = &cobra.Command{
	Use:           "sortlint",
	Short:         "Consistency checker for [Sortable] markers in model files",
	Long:          "sortlint validates that [Sortable] property markers and class-level\n[SortableDefault] markers agree across class hierarchies, and can apply\nstructural fixes for the violations it finds.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show phase timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "cap reported diagnostics (0 = manifest setting)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "disable the diagnostics disk cache")

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errIssuesFound) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func colorEnabled(mode string) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stdout)
	}
}
