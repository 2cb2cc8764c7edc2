package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sortlint/internal/driver"
	"sortlint/internal/project"
	"sortlint/internal/rules"
	"sortlint/internal/source"
)

// runSetup holds everything a command resolved from the manifest and
// the persistent flags.
type runSetup struct {
	cfg     project.Config
	opts    driver.Options
	color   bool
	quiet   bool
	timings bool
}

func loadRunSetup(cmd *cobra.Command, startDir string) (*runSetup, error) {
	cfg, _, err := project.LoadConfigFromDir(startDir)
	if err != nil {
		return nil, err
	}

	flags := cmd.Root().PersistentFlags()
	colorMode, err := flags.GetString("color")
	if err != nil {
		return nil, err
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return nil, err
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, err
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return nil, err
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return nil, err
	}

	if maxDiagnostics <= 0 {
		maxDiagnostics = cfg.Output.MaxDiagnostics
	}

	ruleSet := rules.RuleSetExtended
	if cfg.Rules.Variant == "baseline" {
		ruleSet = rules.RuleSetBaseline
	}

	setup := &runSetup{
		cfg: cfg,
		opts: driver.Options{
			Rules:          ruleSet,
			ExtraTypes:     cfg.Rules.ExtraTypes,
			MaxDiagnostics: maxDiagnostics,
		},
		color:   colorEnabled(colorMode),
		quiet:   quiet,
		timings: timings,
	}

	if !noCache && !cfg.Cache.Disabled {
		cache, err := driver.OpenDiskCache("sortlint")
		if err == nil {
			setup.opts.Cache = cache
		}
	}
	return setup, nil
}

// resolveTarget classifies the positional argument. For a single file the
// base directory anchoring relative paths is its parent.
func resolveTarget(target string) (paths []string, baseDir string, isDir bool, err error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, "", false, fmt.Errorf("stat %s: %w", target, err)
	}
	if info.IsDir() {
		return nil, target, true, nil
	}
	return []string{target}, filepath.Dir(target), false, nil
}

func checkTarget(ctx context.Context, target string, opts driver.Options) (*source.FileSet, []driver.FileResult, error) {
	paths, baseDir, isDir, err := resolveTarget(target)
	if err != nil {
		return nil, nil, err
	}
	if isDir {
		return driver.CheckDir(ctx, baseDir, opts)
	}
	return driver.CheckFiles(ctx, paths, baseDir, opts)
}
