package rules

import (
	"fmt"
	"strings"

	"sortlint/internal/diag"
	"sortlint/internal/facts"
)

// Fix titles surfaced to the consumer choosing a fix.
const (
	TitleAddDefault    = "Add [SortableDefault]"
	TitleAddSortable   = "Add [Sortable] to property"
	TitleRemoveDefault = "Remove [SortableDefault]"
)

// Message templates are fixed per kind; {0} and {1} are the carried
// arguments.
var templates = map[ViolationKind]string{
	ViolationMissingDefault:    "Class '{0}' has [Sortable] properties but no [SortableDefault] defined.",
	ViolationInvalidDefaultRef: "Property '{0}' must be marked with [Sortable] to be used in [SortableDefault].",
	ViolationUnusedDefault:     "Class '{0}' uses [SortableDefault] but has no [Sortable] properties.",
	ViolationInvalidType:       "Property '{0}' has unsupported type '{1}' for sorting.",
}

var kindCodes = map[ViolationKind]diag.Code{
	ViolationMissingDefault:    diag.SortMissingDefault,
	ViolationInvalidDefaultRef: diag.SortInvalidDefaultRef,
	ViolationUnusedDefault:     diag.SortUnusedDefault,
	ViolationInvalidType:       diag.SortInvalidType,
}

func message(kind ViolationKind, args ...string) string {
	msg := templates[kind]
	for i, arg := range args {
		msg = strings.ReplaceAll(msg, fmt.Sprintf("{%d}", i), arg)
	}
	return msg
}

// Diagnose converts per-class violation batches into diagnostics and hands
// them to the reporter, preserving per-class rule order. Every diagnostic
// is a blocking error; there is no advisory tier.
func Diagnose(set *facts.Set, batches [][]Violation, reporter diag.Reporter) {
	for _, batch := range batches {
		for _, v := range batch {
			reporter.Report(Diagnostic(set, v))
		}
	}
}

// Diagnostic builds the reportable form of one violation: stable code,
// fixed message template, anchor location, and the structural fix for the
// kinds that have one.
func Diagnostic(set *facts.Set, v Violation) diag.Diagnostic {
	cf := set.Get(v.Class)
	code := kindCodes[v.Kind]
	className := set.NameOf(cf.Name)

	switch v.Kind {
	case ViolationMissingDefault:
		d := diag.NewError(code, cf.NameSpan, message(v.Kind, className))
		return d.WithFix(diag.Fix{
			ID:     fixID(code, cf),
			Title:  TitleAddDefault,
			Action: diag.ActionAddDefaultMarker,
			Anchor: cf.NameSpan,
		})

	case ViolationUnusedDefault:
		d := diag.NewError(code, cf.NameSpan, message(v.Kind, className))
		// The remove fix edits the anchored class; a marker inherited from
		// an ancestor lives elsewhere, so there is nothing to strip here.
		if cf.Default == nil {
			return d
		}
		return d.WithFix(diag.Fix{
			ID:     fixID(code, cf),
			Title:  TitleRemoveDefault,
			Action: diag.ActionRemoveDefaultMarker,
			Anchor: cf.NameSpan,
		})

	case ViolationInvalidDefaultRef:
		propName := set.NameOf(v.Property)
		d := diag.NewError(code, cf.NameSpan, message(v.Kind, propName))
		// The fix anchors the property node itself; a reference to a
		// property that exists nowhere has nothing to mark, so no fix.
		if !v.PropSpan.Empty() {
			d = d.WithNote(v.PropSpan, fmt.Sprintf("property '%s' declared here", propName)).
				WithFix(diag.Fix{
					ID:     fixID(code, cf),
					Title:  TitleAddSortable,
					Action: diag.ActionAddSortableMarker,
					Anchor: v.PropSpan,
					Arg:    propName,
				})
		}
		return d

	case ViolationInvalidType:
		propName := set.NameOf(v.Property)
		typeName := set.NameOf(v.TypeName)
		// No fix: picking a replacement type is not a mechanical edit.
		return diag.NewError(code, v.PropSpan, message(v.Kind, propName, typeName))
	}

	return diag.NewError(diag.UnknownCode, cf.NameSpan, "unknown violation")
}

func fixID(code diag.Code, cf *facts.ClassFacts) string {
	return fmt.Sprintf("%s-%d-%d", code.ID(), cf.File, cf.NameSpan.Start)
}
