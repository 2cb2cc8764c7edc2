package fix

import (
	"fmt"

	"sortlint/internal/diag"
	"sortlint/internal/syntax"
)

// applyAction performs one structural edit on the declaration tree. The
// returned unit shares every untouched node with the input; the input is
// never written through. A non-empty skip reason means the edit was a
// no-op: the anchor shape the action expects is absent. Actions never fail
// any other way.
func applyAction(u *syntax.Unit, f diag.Fix) (*syntax.Unit, string) {
	switch f.Action {
	case diag.ActionAddDefaultMarker:
		return addDefaultMarker(u, f)
	case diag.ActionAddSortableMarker:
		return addSortableMarker(u, f)
	case diag.ActionRemoveDefaultMarker:
		return removeDefaultMarker(u, f)
	default:
		return u, fmt.Sprintf("unknown fix action %d", f.Action)
	}
}

// addDefaultMarker synthesizes [SortableDefault("<name>")] on the anchored
// class, naming its first own property that carries [Sortable]. Inherited
// members never qualify; a class with no own sortable property stays as is.
func addDefaultMarker(u *syntax.Unit, f diag.Fix) (*syntax.Unit, string) {
	idx, cls := u.ClassAt(f.Anchor)
	if cls == nil {
		return u, "anchor class not found"
	}

	var name string
	for _, p := range cls.Props {
		if p.HasAttr(syntax.AttrSortable) {
			name = p.Name
			break
		}
	}
	if name == "" {
		return u, "class has no own [Sortable] property"
	}

	edited := cls.AddAttr(syntax.Attr{
		Name:   syntax.AttrSortableDefault,
		Arg:    name,
		HasArg: true,
	})
	return u.WithClass(idx, edited), ""
}

// addSortableMarker appends [Sortable] to the anchored property.
func addSortableMarker(u *syntax.Unit, f diag.Fix) (*syntax.Unit, string) {
	ci, pi, cls, prop := u.PropAt(f.Anchor)
	if prop == nil {
		return u, "anchor property not found"
	}
	if prop.HasAttr(syntax.AttrSortable) {
		return u, "property already carries [Sortable]"
	}

	edited := cls.WithProp(pi, prop.AddAttr(syntax.Attr{Name: syntax.AttrSortable}))
	return u.WithClass(ci, edited), ""
}

// removeDefaultMarker strips every [SortableDefault] attribute from the
// anchored class, leaving other attributes intact.
func removeDefaultMarker(u *syntax.Unit, f diag.Fix) (*syntax.Unit, string) {
	idx, cls := u.ClassAt(f.Anchor)
	if cls == nil {
		return u, "anchor class not found"
	}

	edited := cls.RemoveAttrs(syntax.AttrSortableDefault)
	if edited == cls {
		return u, "class carries no [SortableDefault]"
	}
	return u.WithClass(idx, edited), ""
}
