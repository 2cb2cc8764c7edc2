package rules

import (
	"sortlint/internal/facts"
	"sortlint/internal/source"
)

// ViolationKind classifies one detected marker inconsistency. The constant
// order is the fixed per-class emission order.
type ViolationKind uint8

const (
	// ViolationUnusedDefault: a default marker resolves but the class has no
	// sortable properties anywhere in its chain.
	ViolationUnusedDefault ViolationKind = iota
	// ViolationMissingDefault: sortable properties exist but no default
	// marker resolves anywhere in the chain.
	ViolationMissingDefault
	// ViolationInvalidDefaultRef: the resolved default marker names a
	// property that does not exist or is not marked sortable.
	ViolationInvalidDefaultRef
	// ViolationInvalidType: a sortable property's canonical type is outside
	// the whitelist. Extended rule set only.
	ViolationInvalidType
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationUnusedDefault:
		return "unused-default"
	case ViolationMissingDefault:
		return "missing-default"
	case ViolationInvalidDefaultRef:
		return "invalid-default-ref"
	case ViolationInvalidType:
		return "invalid-type"
	}
	return "unknown"
}

// Violation is one rule finding for one class. Identifiers stay interned;
// the emitter resolves them against the fact set when building messages.
type Violation struct {
	Kind  ViolationKind
	Class facts.ClassID

	// Property carries the referenced name for invalid-default-ref and the
	// offending property name for invalid-type.
	Property source.StringID
	// PropSpan points at the property declaration when one resolved.
	PropSpan source.Span
	// TypeName is set for invalid-type only.
	TypeName source.StringID
}
