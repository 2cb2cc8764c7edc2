package facts

import (
	"fmt"

	"fortio.org/safecast"

	"sortlint/internal/diag"
	"sortlint/internal/syntax"
)

// Extract builds one immutable fact Set from the parsed units of an
// evaluation batch. Classes are registered first so base links can point
// forward; a base name with no declaration anywhere in the batch simply
// ends the chain. Duplicate class names are reported and the later
// declaration keeps facts of its own (first one wins the name lookup).
func Extract(units []*syntax.Unit, reporter diag.Reporter) *Set {
	total := 0
	for _, u := range units {
		total += len(u.Classes)
	}
	capacity, err := safecast.Conv[uint32](total)
	if err != nil {
		panic(fmt.Errorf("facts: unit batch overflow: %w", err))
	}
	set := NewSet(capacity)

	// Pass 1: identities and members.
	ids := make([]ClassID, 0, total)
	for _, u := range units {
		for _, cls := range u.Classes {
			nameID := set.names.Intern(cls.Name)
			if prev, taken := set.byName[nameID]; taken {
				diag.ReportError(reporter, diag.SynDuplicateClass, cls.NameSpan,
					fmt.Sprintf("class '%s' is declared more than once", cls.Name)).
					WithNote(set.Get(prev).NameSpan, "first declared here").
					Emit()
			}
			id := set.New(ClassFacts{
				Name:     nameID,
				File:     u.File,
				Span:     cls.Span,
				NameSpan: cls.NameSpan,
				Props:    extractProps(set, cls),
			})
			ids = append(ids, id)
			if dm := extractDefault(set, cls, id, reporter); dm != nil {
				set.Get(id).Default = dm
			}
		}
	}

	// Pass 2: base links by name.
	i := 0
	for _, u := range units {
		for _, cls := range u.Classes {
			id := ids[i]
			i++
			if cls.Base == "" {
				continue
			}
			baseID, ok := set.Lookup(set.names.Intern(cls.Base))
			if !ok || baseID == id {
				continue
			}
			set.Get(id).Parent = baseID
		}
	}
	return set
}

// extractProps snapshots the own members of one class in declaration order.
// Inherited members are reached through the chain, never copied down.
func extractProps(set *Set, cls *syntax.Class) []PropertyFacts {
	if len(cls.Props) == 0 {
		return nil
	}
	props := make([]PropertyFacts, 0, len(cls.Props))
	for _, p := range cls.Props {
		sortable := false
		for _, a := range p.Attrs {
			if classifyMarker(a) == MarkerSortable {
				sortable = true
				break
			}
		}
		props = append(props, PropertyFacts{
			Name:     set.names.Intern(p.Name),
			TypeName: set.names.Intern(p.Type),
			Sortable: sortable,
			Span:     p.Span,
			NameSpan: p.NameSpan,
		})
	}
	return props
}

// extractDefault classifies the class's own default marker, if any. When a
// class carries several, the first well-formed one in declaration order is
// the snapshot; the remove-default fix still strips them all. A marker
// missing its argument is reported and dropped: an empty property name can
// never resolve, so keeping it would only produce an empty-name diagnostic
// downstream.
func extractDefault(set *Set, cls *syntax.Class, owner ClassID, reporter diag.Reporter) *DefaultMarker {
	for _, a := range cls.Attrs {
		if classifyMarker(a) != MarkerSortableDefault {
			continue
		}
		if !a.HasArg || a.Arg == "" {
			diag.ReportError(reporter, diag.SynExpectAttrArgument, a.Span,
				fmt.Sprintf("[%s] requires a property name argument", a.Name)).Emit()
			continue
		}
		return &DefaultMarker{
			Property: set.names.Intern(a.Arg),
			Owner:    owner,
			Span:     a.Span,
		}
	}
	return nil
}
