package rules

// Whitelist is a set of canonical type identifiers considered valid for
// sortable properties. The process-wide default is initialized once and
// never mutated; Extend derives a copy.
type Whitelist struct {
	types map[string]struct{}
}

var defaultSortableTypes = [...]string{
	"string",
	"int16", "int32", "int64",
	"uint16", "uint32", "uint64",
	"float32", "float64",
	"decimal",
	"date", "dateoffset",
}

// DefaultWhitelist returns the built-in sortable type set.
func DefaultWhitelist() Whitelist {
	w := Whitelist{types: make(map[string]struct{}, len(defaultSortableTypes))}
	for _, t := range defaultSortableTypes {
		w.types[t] = struct{}{}
	}
	return w
}

// Extend returns a new whitelist with the extra identifiers added. The
// receiver is left untouched.
func (w Whitelist) Extend(extra []string) Whitelist {
	out := Whitelist{types: make(map[string]struct{}, len(w.types)+len(extra))}
	for t := range w.types {
		out.types[t] = struct{}{}
	}
	for _, t := range extra {
		if t != "" {
			out.types[t] = struct{}{}
		}
	}
	return out
}

// Allows reports whether the canonical type identifier may be sorted on.
func (w Whitelist) Allows(typeName string) bool {
	_, ok := w.types[typeName]
	return ok
}

// Len reports the number of allowed identifiers.
func (w Whitelist) Len() int { return len(w.types) }
