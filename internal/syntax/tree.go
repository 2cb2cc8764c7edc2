package syntax

import (
	"sortlint/internal/source"
)

// The declaration tree is immutable by convention: producers build it once,
// and every "edit" in internal/fix goes through the With* helpers below,
// which copy only the nodes along the changed path and share the rest.

// Unit is one parsed model file.
type Unit struct {
	File    source.FileID
	Classes []*Class
}

// Class is a class declaration with its markers and members.
type Class struct {
	Span     source.Span // attrs through closing brace
	NameSpan source.Span
	Name     string
	Base     string // "" when the class has no base link
	Attrs    []Attr
	Props    []*Property
}

// Property is a single member declaration: type, name, markers.
type Property struct {
	Span     source.Span
	NameSpan source.Span
	Type     string
	Name     string
	Attrs    []Attr
}

// Attr is one bracketed attribute, e.g. [Sortable] or [SortableDefault("Id")].
// Synthesized attributes (from fixes) carry a zero Span.
type Attr struct {
	Span   source.Span
	Name   string
	Arg    string
	HasArg bool
}

// ClassAt returns the index and node of the class whose name span matches
// the anchor, or (-1, nil). Matching by name span keeps anchors stable when
// other parts of the declaration move.
func (u *Unit) ClassAt(anchor source.Span) (int, *Class) {
	for i, c := range u.Classes {
		if c.NameSpan == anchor {
			return i, c
		}
	}
	return -1, nil
}

// ClassNamed returns the first class with the given name, or (-1, nil).
func (u *Unit) ClassNamed(name string) (int, *Class) {
	for i, c := range u.Classes {
		if c.Name == name {
			return i, c
		}
	}
	return -1, nil
}

// PropAt returns the class index, property index and nodes of the property
// whose name span matches the anchor, or (-1, -1, nil, nil).
func (u *Unit) PropAt(anchor source.Span) (int, int, *Class, *Property) {
	for ci, c := range u.Classes {
		for pi, p := range c.Props {
			if p.NameSpan == anchor {
				return ci, pi, c, p
			}
		}
	}
	return -1, -1, nil, nil
}

// PropNamed returns the first own property with the given name, or (-1, nil).
func (c *Class) PropNamed(name string) (int, *Property) {
	for i, p := range c.Props {
		if p.Name == name {
			return i, p
		}
	}
	return -1, nil
}

// HasAttr reports whether the node carries an attribute with the name.
func (c *Class) HasAttr(name string) bool {
	for _, a := range c.Attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

func (p *Property) HasAttr(name string) bool {
	for _, a := range p.Attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// WithClass returns a new Unit with the class at idx replaced. All other
// classes are shared by pointer with the receiver.
func (u *Unit) WithClass(idx int, c *Class) *Unit {
	if idx < 0 || idx >= len(u.Classes) {
		return u
	}
	classes := make([]*Class, len(u.Classes))
	copy(classes, u.Classes)
	classes[idx] = c
	return &Unit{File: u.File, Classes: classes}
}

// WithAttrs returns a copy of the class carrying the given attribute list.
// Properties are shared by pointer with the receiver.
func (c *Class) WithAttrs(attrs []Attr) *Class {
	clone := *c
	clone.Attrs = attrs
	return &clone
}

// WithProp returns a copy of the class with the property at idx replaced.
func (c *Class) WithProp(idx int, p *Property) *Class {
	if idx < 0 || idx >= len(c.Props) {
		return c
	}
	clone := *c
	clone.Props = make([]*Property, len(c.Props))
	copy(clone.Props, c.Props)
	clone.Props[idx] = p
	return &clone
}

// WithAttrs returns a copy of the property carrying the given attribute list.
func (p *Property) WithAttrs(attrs []Attr) *Property {
	clone := *p
	clone.Attrs = attrs
	return &clone
}

// appendAttr builds a new attribute slice; the receiver's slice is never
// written through.
func appendAttr(attrs []Attr, extra Attr) []Attr {
	out := make([]Attr, 0, len(attrs)+1)
	out = append(out, attrs...)
	return append(out, extra)
}

// AddAttr returns a copy of the class with one more attribute.
func (c *Class) AddAttr(a Attr) *Class {
	return c.WithAttrs(appendAttr(c.Attrs, a))
}

// AddAttr returns a copy of the property with one more attribute.
func (p *Property) AddAttr(a Attr) *Property {
	return p.WithAttrs(appendAttr(p.Attrs, a))
}

// RemoveAttrs returns a copy of the class without any attribute named name,
// or the receiver itself when nothing matches.
func (c *Class) RemoveAttrs(name string) *Class {
	kept := make([]Attr, 0, len(c.Attrs))
	for _, a := range c.Attrs {
		if a.Name != name {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(c.Attrs) {
		return c
	}
	return c.WithAttrs(kept)
}
