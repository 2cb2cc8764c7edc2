package source

// StringID is a handle to an interned string. The zero value means "absent".
type StringID uint32

const NoStringID StringID = 0

// IsValid reports whether the ID refers to a real interned string.
func (id StringID) IsValid() bool { return id != NoStringID }

// Interner deduplicates identifier strings so facts and tree nodes can
// compare names by ID.
type Interner struct {
	byID  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""}, // NoStringID -> empty string
		index: map[string]StringID{"": 0},
	}
}

// Intern returns the ID for s, allocating one if the string is new.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}

	// Own copy so we never alias the caller's backing buffer.
	cpy := string([]byte(s))
	id := StringID(len(i.byID)) //nolint:gosec // interner size bounded by input
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// Lookup returns the string for id, or ("", false) for an unknown ID.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup is Lookup that panics on an unknown ID.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("source: invalid string ID")
	}
	return s
}

// Len reports the number of interned strings, sentinel included.
func (i *Interner) Len() int {
	return len(i.byID)
}
