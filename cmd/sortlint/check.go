package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sortlint/internal/diag"
	"sortlint/internal/diagfmt"
	"sortlint/internal/observ"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.model|directory>",
	Short: "Check model files for sortable-marker violations",
	Long:  "Parses every model file in the target, validates [Sortable] and\n[SortableDefault] agreement, and reports the violations. Exits non-zero\nwhen any error diagnostic is found.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "", "output format (pretty|json), overrides the manifest")
	checkCmd.Flags().Bool("show-fixes", false, "list available fixes under each diagnostic")
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]

	setup, err := loadRunSetup(cmd, startDirFor(target))
	if err != nil {
		return err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format == "" {
		format = setup.cfg.Output.Format
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	showFixes, err := cmd.Flags().GetBool("show-fixes")
	if err != nil {
		return err
	}

	timer := observ.NewTimer()

	checkPhase := timer.Begin("check")
	fileSet, results, err := checkTarget(cmd.Context(), target, setup.opts)
	if err != nil {
		return err
	}
	merged := diag.NewBag(setup.opts.MaxDiagnostics)
	for _, r := range results {
		r.Bag.Sort()
		merged.Merge(r.Bag)
	}
	timer.End(checkPhase, fmt.Sprintf("%d files", len(results)))

	renderPhase := timer.Begin("render")
	switch format {
	case "json":
		err = diagfmt.JSON(cmd.OutOrStdout(), merged, fileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			IncludeNotes:     true,
			IncludeFixes:     true,
		})
		if err != nil {
			return err
		}
	default:
		diagfmt.Pretty(cmd.OutOrStdout(), merged, fileSet, diagfmt.PrettyOpts{
			Color:     setup.color,
			PathMode:  diagfmt.PathModeRelative,
			ShowNotes: true,
			ShowFixes: showFixes,
		})
		if !setup.quiet {
			diagfmt.Summary(cmd.OutOrStdout(), merged, setup.color)
		}
	}
	timer.End(renderPhase, "")

	if setup.timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}

	if merged.HasErrors() {
		return errIssuesFound
	}
	return nil
}

// startDirFor picks where manifest discovery begins: the directory itself,
// or a file's parent.
func startDirFor(target string) string {
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return target
	}
	return filepath.Dir(target)
}
