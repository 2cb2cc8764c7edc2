package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sortlint/internal/diag"
	"sortlint/internal/driver"
	"sortlint/internal/fix"
	"sortlint/internal/source"
	"sortlint/internal/syntax"
	"sortlint/internal/ui"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.model|directory>",
	Short: "Apply structural fixes for sortable-marker violations",
	Long:  "Runs the checker, collects the fixes attached to its diagnostics, and\napplies them according to the chosen strategy. Changed files are\nrewritten in canonical form.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every available fix")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply the fix with a specific identifier")
	fixCmd.Flags().Bool("interactive", false, "pick fixes in a terminal UI")
	fixCmd.Flags().Bool("dry-run", false, "report what would change without writing files")
}

func runFix(cmd *cobra.Command, args []string) error {
	target := args[0]

	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	interactive, err := cmd.Flags().GetBool("interactive")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}

	modeFlags := 0
	for _, set := range []bool{applyAll, applyOnce, targetID != "", interactive} {
		if set {
			modeFlags++
		}
	}
	if modeFlags > 1 {
		return fmt.Errorf("--all, --once, --id and --interactive are mutually exclusive")
	}
	if interactive && !isTerminal(os.Stdout) {
		return fmt.Errorf("--interactive requires a terminal")
	}

	setup, err := loadRunSetup(cmd, startDirFor(target))
	if err != nil {
		return err
	}
	// Fixes need the parsed trees, so the diagnostics cache is bypassed.
	setup.opts.Cache = nil

	fileSet, results, err := checkTarget(cmd.Context(), target, setup.opts)
	if err != nil {
		return err
	}

	units := make(map[source.FileID]*syntax.Unit, len(results))
	diagnostics := make([]diag.Diagnostic, 0)
	for _, r := range results {
		if r.Unit != nil {
			units[r.FileID] = r.Unit
		}
		r.Bag.Sort()
		diagnostics = append(diagnostics, r.Bag.Items()...)
	}

	mode := fix.ApplyModeOnce
	switch {
	case targetID != "":
		mode = fix.ApplyModeID
	case applyAll:
		mode = fix.ApplyModeAll
	case interactive:
		diagnostics, err = pickInteractively(fileSet, diagnostics)
		if err != nil {
			return err
		}
		if diagnostics == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
			return nil
		}
		mode = fix.ApplyModeAll
	}

	res, applyErr := fix.Apply(fileSet, units, diagnostics, fix.ApplyOptions{
		Mode:     mode,
		TargetID: targetID,
		DryRun:   dryRun,
	})
	if err := reportApplyResult(cmd, res, applyErr, dryRun); err != nil {
		return err
	}

	if len(res.Applied) > 0 && !setup.quiet {
		remaining := 0
		for _, r := range results {
			u := res.Units[r.FileID]
			if u == nil {
				u = r.Unit
			}
			if u == nil {
				continue
			}
			remaining += driver.CheckUnit(u, setup.opts).Len()
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Re-check: %d issue(s) remaining.\n", remaining)
	}
	return nil
}

// pickInteractively shows the terminal picker and narrows the diagnostics
// to the chosen fixes. A nil return means the user canceled.
func pickInteractively(fs *source.FileSet, diagnostics []diag.Diagnostic) ([]diag.Diagnostic, error) {
	items := make([]ui.FixItem, 0)
	for _, d := range diagnostics {
		for _, f := range d.Fixes {
			items = append(items, ui.FixItem{
				ID:      f.ID,
				Title:   f.Title,
				Code:    d.Code.ID(),
				Message: d.Message,
				Path:    fs.Get(d.Primary.File).FormatPath("auto", fs.BaseDir()),
			})
		}
	}
	if len(items) == 0 {
		return diagnostics, nil
	}

	result, err := ui.RunFixPicker(items)
	if err != nil {
		return nil, err
	}
	if result.Canceled {
		return nil, nil
	}

	chosen := make(map[string]bool, len(result.SelectedIDs))
	for _, id := range result.SelectedIDs {
		chosen[id] = true
	}

	filtered := make([]diag.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		kept := make([]diag.Fix, 0, len(d.Fixes))
		for _, f := range d.Fixes {
			if chosen[f.ID] {
				kept = append(kept, f)
			}
		}
		if len(kept) > 0 {
			d.Fixes = kept
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

func reportApplyResult(cmd *cobra.Command, res *fix.ApplyResult, applyErr error, dryRun bool) error {
	if res == nil {
		return applyErr
	}
	out := cmd.OutOrStdout()

	if len(res.Applied) > 0 {
		verb := "Applied"
		if dryRun {
			verb = "Would apply"
		}
		fmt.Fprintf(out, "%s %d fix(es):\n", verb, len(res.Applied))
		for _, item := range res.Applied {
			fmt.Fprintf(out, "  %s [%s] %s: %s\n", item.Title, item.ID, item.Code.ID(), item.Path)
		}
	}

	if len(res.FileChanges) > 0 && !dryRun {
		fmt.Fprintln(out, "Updated files:")
		for _, change := range res.FileChanges {
			fmt.Fprintf(out, "  %s (%d fixes)\n", change.Path, change.ActionCount)
		}
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			fmt.Fprintln(out, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}
	return nil
}
