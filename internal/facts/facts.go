package facts

import (
	"sortlint/internal/source"
)

// ClassID identifies a class inside a Set arena.
type ClassID uint32

const (
	// NoClassID marks the absence of a class reference (e.g. no base link).
	NoClassID ClassID = 0
)

// IsValid reports whether the ID refers to an allocated class.
func (id ClassID) IsValid() bool { return id != NoClassID }

// PropertyFacts is the read-only snapshot of one declared member.
type PropertyFacts struct {
	Name     source.StringID
	TypeName source.StringID // canonical type identifier
	Sortable bool
	Span     source.Span
	NameSpan source.Span
}

// DefaultMarker is the snapshot of one [SortableDefault] attribute together
// with the class that declared it. Owner may differ from the class under
// evaluation when the marker is inherited.
type DefaultMarker struct {
	Property source.StringID
	Owner    ClassID
	Span     source.Span
}

// ClassFacts is the read-only snapshot of one class declaration: identity,
// base link, own members in declaration order, and the own default marker
// if one was declared. Built once per evaluation pass, never mutated.
type ClassFacts struct {
	ID       ClassID
	Name     source.StringID
	File     source.FileID
	Span     source.Span
	NameSpan source.Span
	Parent   ClassID
	Props    []PropertyFacts
	Default  *DefaultMarker // own marker only; resolution walks the chain
}
