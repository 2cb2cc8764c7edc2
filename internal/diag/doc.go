// Package diag defines the diagnostic model shared by the syntax frontend
// and the sort-rule evaluator.
//
// Diagnostic is the central record: severity, a Code with a stable public
// identifier (SYNnnn / SORTnnn), a message built from a fixed per-code
// template, a primary span, optional notes and optional fix suggestions.
//
// Fixes are data-only. A Fix names one structural action (ActionKind), the
// anchor span of the declaration node it targets, and an optional string
// argument. Interpretation and application live in internal/fix; this
// package never touches the declaration tree.
//
// Producers emit through a Reporter so storage stays decoupled: BagReporter
// aggregates into a Bag (bounded, sortable, dedupable), DedupReporter
// filters repeats. Rendering lives in internal/diagfmt.
package diag
