package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"sortlint/internal/diag"
	"sortlint/internal/source"
	"sortlint/internal/syntax"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected and persisted.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// DryRun evolves the declaration trees without touching disk.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID      string
	Title   string
	Code    diag.Code
	Message string
	Path    string
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path        string
	ActionCount int
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
// Units holds the evolved declaration trees for every touched file, so
// callers can re-run the checker over them without reparsing from disk.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
	Units       map[source.FileID]*syntax.Unit
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects fixes from diagnostics, selects a subset according to opts,
// and interprets each fix as a structural edit against the parsed unit of its
// anchor file. A fix whose anchor no longer matches the tree (for example
// because an earlier fix in the same batch rewrote it) is skipped, never an
// error.
func Apply(fs *source.FileSet, units map[source.FileID]*syntax.Unit, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied:     make([]AppliedFix, 0),
		Skipped:     make([]SkippedFix, 0),
		FileChanges: make([]FileChange, 0),
		Units:       make(map[source.FileID]*syntax.Unit, len(units)),
	}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}
	for id, u := range units {
		result.Units[id] = u
	}

	candidates, gatherSkips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, gatherSkips...)

	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	sortCandidates(candidates)

	selected, selectionSkips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, selectionSkips...)

	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	dirty := applyCandidates(fs, result, selected)

	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	if err := writeBack(fs, result, dirty, opts.DryRun); err != nil {
		return result, err
	}
	return result, nil
}

// gatherCandidates flattens diagnostics into candidate fixes. Fixes with an
// empty ID get one synthesized from code, file, anchor, and index; fixes with
// a duplicate ID are skipped so an ID names exactly one candidate. Insertion
// order is recorded for the stable sort that follows.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	cands := make([]candidate, 0)
	skips := make([]SkippedFix, 0)
	seen := make(map[string]bool)

	order := 0
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			if f.Action == diag.ActionNone {
				skips = append(skips, SkippedFix{
					ID:     f.ID,
					Title:  f.Title,
					Reason: "fix has no action",
				})
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), f.Anchor.File, f.Anchor.Start, idx)
			}
			if seen[f.ID] {
				skips = append(skips, SkippedFix{
					ID:     f.ID,
					Title:  f.Title,
					Reason: "duplicate fix id",
				})
				continue
			}
			seen[f.ID] = true
			cands = append(cands, candidate{
				diag:  d,
				fix:   f,
				order: order,
			})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders candidates deterministically: anchor file, anchor
// span, insertion order, code, fix ID, title.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		fi, fj := candidates[i].fix, candidates[j].fix
		if fi.Anchor.File != fj.Anchor.File {
			return fi.Anchor.File < fj.Anchor.File
		}
		if fi.Anchor.Start != fj.Anchor.Start {
			return fi.Anchor.Start < fj.Anchor.Start
		}
		if fi.Anchor.End != fj.Anchor.End {
			return fi.Anchor.End < fj.Anchor.End
		}
		if candidates[i].order != candidates[j].order {
			return candidates[i].order < candidates[j].order
		}
		if candidates[i].diag.Code != candidates[j].diag.Code {
			return candidates[i].diag.Code < candidates[j].diag.Code
		}
		if fi.ID != fj.ID {
			return fi.ID < fj.ID
		}
		return fi.Title < fj.Title
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.fix.ID == opts.TargetID {
				return []candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{
			ID:     opts.TargetID,
			Reason: "fix id not found",
		}}
	case ApplyModeAll:
		return candidates, nil
	case ApplyModeOnce:
		return candidates[:1], nil
	default:
		return nil, nil
	}
}

// applyCandidates walks the selected fixes in order, threading each file's
// unit through the structural actions. Two candidates sharing an anchor span
// conflict: the first wins, the rest are skipped. Returns the set of files
// whose unit changed.
func applyCandidates(fs *source.FileSet, result *ApplyResult, selected []candidate) map[source.FileID]bool {
	dirty := make(map[source.FileID]bool)
	actionCount := make(map[source.FileID]int)
	touched := make(map[source.FileID][]source.Span)
	baseDir := fs.BaseDir()

	for _, cand := range selected {
		anchor := cand.fix.Anchor
		u := result.Units[anchor.File]
		if u == nil {
			result.Skipped = append(result.Skipped, SkippedFix{
				ID:     cand.fix.ID,
				Title:  cand.fix.Title,
				Reason: "anchor file has no parsed unit",
			})
			continue
		}

		if conflicts(touched[anchor.File], anchor) {
			result.Skipped = append(result.Skipped, SkippedFix{
				ID:     cand.fix.ID,
				Title:  cand.fix.Title,
				Reason: "conflicts with a previously applied fix at the same location",
			})
			continue
		}

		edited, reason := applyAction(u, cand.fix)
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{
				ID:     cand.fix.ID,
				Title:  cand.fix.Title,
				Reason: reason,
			})
			continue
		}

		result.Units[anchor.File] = edited
		dirty[anchor.File] = true
		actionCount[anchor.File]++
		touched[anchor.File] = append(touched[anchor.File], anchor)

		result.Applied = append(result.Applied, AppliedFix{
			ID:      cand.fix.ID,
			Title:   cand.fix.Title,
			Code:    cand.diag.Code,
			Message: cand.diag.Message,
			Path:    fs.Get(anchor.File).FormatPath("auto", baseDir),
		})
	}

	for id := range dirty {
		result.FileChanges = append(result.FileChanges, FileChange{
			Path:        fs.Get(id).FormatPath("auto", baseDir),
			ActionCount: actionCount[id],
		})
	}
	sort.SliceStable(result.FileChanges, func(i, j int) bool {
		return result.FileChanges[i].Path < result.FileChanges[j].Path
	})
	return dirty
}

func conflicts(applied []source.Span, anchor source.Span) bool {
	for _, s := range applied {
		if s == anchor {
			return true
		}
	}
	return false
}

// writeBack renders each dirty unit to canonical text and persists it.
// Virtual files evolve in memory only.
func writeBack(fs *source.FileSet, result *ApplyResult, dirty map[source.FileID]bool, dryRun bool) error {
	if dryRun {
		return nil
	}
	ids := make([]source.FileID, 0, len(dirty))
	for id := range dirty {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		file := fs.Get(id)
		if file == nil || file.Flags&source.FileVirtual != 0 {
			continue
		}

		mode := os.FileMode(0o644)
		if info, err := os.Stat(file.Path); err == nil {
			mode = info.Mode()
		}

		text := syntax.Print(result.Units[id])
		if err := os.WriteFile(file.Path, []byte(text), mode); err != nil {
			return fmt.Errorf("write %s: %w", file.Path, err)
		}
	}
	return nil
}
