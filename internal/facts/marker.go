package facts

import (
	"sortlint/internal/syntax"
)

// MarkerKind is the closed classification of the model language's sort
// markers. Attribute names are matched once, during extraction; every later
// phase switches on MarkerKind instead of comparing strings.
type MarkerKind uint8

const (
	MarkerNone MarkerKind = iota
	// MarkerSortable tags a property as eligible to be a sort key.
	MarkerSortable
	// MarkerSortableDefault tags a class with the name of its default sort
	// key. Carries one string argument.
	MarkerSortableDefault
)

func (k MarkerKind) String() string {
	switch k {
	case MarkerSortable:
		return "Sortable"
	case MarkerSortableDefault:
		return "SortableDefault"
	}
	return "none"
}

// classifyMarker maps an attribute name to its marker kind. Unrecognized
// attributes are MarkerNone and carry no sort semantics.
func classifyMarker(a syntax.Attr) MarkerKind {
	switch a.Name {
	case syntax.AttrSortable:
		return MarkerSortable
	case syntax.AttrSortableDefault:
		return MarkerSortableDefault
	}
	return MarkerNone
}
