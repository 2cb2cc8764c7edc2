package facts

import (
	"fmt"

	"fortio.org/safecast"

	"sortlint/internal/source"
)

// Set stores every class of one evaluation unit in a compact slice arena.
// Base links are parent-index references into the same arena, so a chain
// walk never follows live pointers.
type Set struct {
	classes []ClassFacts
	byName  map[source.StringID]ClassID
	names   *source.Interner
}

// NewSet creates an arena with an optional capacity hint.
func NewSet(capacity uint32) *Set {
	if capacity == 0 {
		capacity = 16
	}
	return &Set{
		classes: make([]ClassFacts, 1, capacity+1), // index 0 reserved for NoClassID
		byName:  make(map[source.StringID]ClassID, capacity),
		names:   source.NewInterner(),
	}
}

// New allocates a class and returns its ID. The caller fills members and
// markers before the set is handed to the evaluator.
func (s *Set) New(cf ClassFacts) ClassID {
	value, err := safecast.Conv[uint32](len(s.classes))
	if err != nil {
		panic(fmt.Errorf("facts arena overflow: %w", err))
	}
	id := ClassID(value)
	cf.ID = id
	s.classes = append(s.classes, cf)
	if _, taken := s.byName[cf.Name]; !taken {
		s.byName[cf.Name] = id
	}
	return id
}

// Get returns the class for the ID, or nil for an invalid ID.
func (s *Set) Get(id ClassID) *ClassFacts {
	if !id.IsValid() || int(id) >= len(s.classes) {
		return nil
	}
	return &s.classes[id]
}

// Lookup returns the first class registered under the name.
func (s *Set) Lookup(name source.StringID) (ClassID, bool) {
	id, ok := s.byName[name]
	return id, ok
}

// Len reports the number of classes excluding the sentinel.
func (s *Set) Len() int { return len(s.classes) - 1 }

// All returns the allocated classes in declaration order.
func (s *Set) All() []ClassFacts {
	if len(s.classes) <= 1 {
		return nil
	}
	return s.classes[1:]
}

// Names exposes the interner the set's identifiers live in.
func (s *Set) Names() *source.Interner { return s.names }

// NameOf resolves an interned identifier to its string.
func (s *Set) NameOf(id source.StringID) string {
	return s.names.MustLookup(id)
}

// Chain returns a bounded iterator over the base chain of id, self first.
// The bound is the arena size, so a malformed (cyclic) parent link from the
// host terminates instead of spinning.
func (s *Set) Chain(id ClassID) ChainIter {
	return ChainIter{set: s, next: id, left: s.Len()}
}

// ChainIter walks self -> ... -> root.
type ChainIter struct {
	set  *Set
	next ClassID
	left int
}

// Next returns the next class in the chain, or (nil, false) when done.
func (it *ChainIter) Next() (*ClassFacts, bool) {
	if it.left <= 0 || !it.next.IsValid() {
		return nil, false
	}
	cf := it.set.Get(it.next)
	if cf == nil {
		return nil, false
	}
	it.left--
	it.next = cf.Parent
	return cf, true
}
