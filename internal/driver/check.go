package driver

import (
	"context"
	"runtime"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"sortlint/internal/diag"
	"sortlint/internal/facts"
	"sortlint/internal/rules"
	"sortlint/internal/source"
	"sortlint/internal/syntax"
)

// Options configures a check run.
type Options struct {
	Rules          rules.RuleSet
	ExtraTypes     []string // appended to the sortable-type whitelist
	MaxDiagnostics int
	Jobs           int        // <= 0 means GOMAXPROCS
	Cache          *DiskCache // nil disables the disk cache
}

// FileResult is the outcome of checking one model file. Unit is nil when
// the file could not be loaded; syntactically broken files still carry the
// partial tree recovery produced.
type FileResult struct {
	Path     string
	FileID   source.FileID
	Unit     *syntax.Unit
	Bag      *diag.Bag
	CacheHit bool
}

// CheckDir checks every *.model file under dir. Files are discovered in
// sorted order and checked in parallel; results come back in discovery
// order regardless of scheduling.
func CheckDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []FileResult, error) {
	files, err := listModelFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	return CheckFiles(ctx, files, dir, opts)
}

// CheckFiles checks the given model files. The slice order is preserved in
// the results; baseDir anchors relative path formatting.
func CheckFiles(ctx context.Context, paths []string, baseDir string, opts Options) (*source.FileSet, []FileResult, error) {
	fileSet := source.NewFileSetWithBase(baseDir)
	if len(paths) == 0 {
		return fileSet, nil, nil
	}

	// Loading mutates the FileSet, so it happens up front on one goroutine.
	// Unreadable files get a virtual placeholder so their diagnostics still
	// resolve to a path.
	fileIDs := make(map[string]source.FileID, len(paths))
	loadErrors := make(map[string]error, len(paths))
	for _, path := range paths {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			fileIDs[path] = fileSet.AddVirtual(path, nil)
			continue
		}
		fileIDs[path] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			bag := diag.NewBag(opts.MaxDiagnostics)

			fileID := fileIDs[path]

			if loadErr, failed := loadErrors[path]; failed {
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + loadErr.Error(),
					Primary:  source.Span{File: fileID},
				})
				results[i] = FileResult{Path: path, FileID: fileID, Bag: bag}
				return nil
			}

			results[i] = checkFile(fileSet, fileID, opts)
			results[i].Path = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// checkFile runs the per-file pipeline: cache probe, parse, fact
// extraction, rule evaluation. Each file is its own evaluation unit; class
// hierarchies never cross file boundaries.
func checkFile(fileSet *source.FileSet, fileID source.FileID, opts Options) FileResult {
	file := fileSet.Get(fileID)

	if bag, ok := opts.Cache.Probe(file, opts); ok {
		return FileResult{FileID: fileID, Bag: bag, CacheHit: true}
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	unit := parseUnit(file, bag, opts)

	// A file that failed to parse is not rule-checked: error recovery yields
	// a partial tree, and rules over missing members would report violations
	// the source does not contain. Such files never populate the cache.
	if bag.HasSyntaxErrors() {
		return FileResult{FileID: fileID, Unit: unit, Bag: bag}
	}

	evaluateUnit(unit, bag, opts)

	opts.Cache.Store(file, opts, bag)

	return FileResult{FileID: fileID, Unit: unit, Bag: bag}
}

// CheckUnit re-evaluates an already parsed tree, bypassing disk and cache.
// The fix pipeline uses it to verify that applied fixes resolved their
// diagnostics.
func CheckUnit(unit *syntax.Unit, opts Options) *diag.Bag {
	bag := diag.NewBag(opts.MaxDiagnostics)
	evaluateUnit(unit, bag, opts)
	return bag
}

func parseUnit(file *source.File, bag *diag.Bag, opts Options) *syntax.Unit {
	maxErrors, err := safecast.Conv[uint](opts.MaxDiagnostics)
	if err != nil {
		maxErrors = 0
	}
	return syntax.ParseFile(file, diag.BagReporter{Bag: bag}, syntax.Options{
		MaxErrors: maxErrors,
	})
}

func evaluateUnit(unit *syntax.Unit, bag *diag.Bag, opts Options) {
	set := facts.Extract([]*syntax.Unit{unit}, diag.BagReporter{Bag: bag})
	whitelist := rules.DefaultWhitelist().Extend(opts.ExtraTypes)
	ev := rules.NewEvaluator(set, opts.Rules, whitelist)

	// Cancellation is handled at the file boundary; one unit always
	// evaluates to completion.
	batches, err := ev.EvaluateAll(context.Background())
	if err != nil {
		return
	}
	rules.Diagnose(set, batches, diag.BagReporter{Bag: bag})
}
