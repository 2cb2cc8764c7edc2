package syntax

// Well-known attribute names of the model language. Attribute identity is
// decided here once; later phases work with classified markers, never with
// raw name matching of their own.
const (
	// AttrSortable marks a property as eligible to be a sort key.
	AttrSortable = "Sortable"
	// AttrSortableDefault names the property used as the default sort key.
	// It carries exactly one string argument.
	AttrSortableDefault = "SortableDefault"
)
