package diag

import (
	"sortlint/internal/source"
)

// Note attaches secondary context to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// ActionKind names the structural edit a fix performs on the declaration
// tree. Fixes are data-only; internal/fix interprets them.
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	// ActionAddDefaultMarker appends [SortableDefault("<Arg>")] to the
	// class anchored at Fix.Anchor.
	ActionAddDefaultMarker
	// ActionAddSortableMarker appends [Sortable] to the property anchored
	// at Fix.Anchor; Fix.Arg carries the property name for display.
	ActionAddSortableMarker
	// ActionRemoveDefaultMarker strips every default marker from the class
	// anchored at Fix.Anchor.
	ActionRemoveDefaultMarker
)

func (k ActionKind) String() string {
	switch k {
	case ActionAddDefaultMarker:
		return "add-default"
	case ActionAddSortableMarker:
		return "add-sortable"
	case ActionRemoveDefaultMarker:
		return "remove-default"
	}
	return "none"
}

// Fix describes one deterministic structural edit that resolves the owning
// diagnostic. Anchor is the span of the declaration node the edit targets.
type Fix struct {
	ID     string
	Title  string
	Action ActionKind
	Anchor source.Span
	Arg    string
}

// Diagnostic is the central record produced by the frontend and the rule
// evaluator. It is immutable by convention once emitted.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
