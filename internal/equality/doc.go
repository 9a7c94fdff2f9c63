// Package equality implements the comparators and structural snapshotting
// that the reactive node core uses to decide whether a newly computed value
// is "different enough" to emit.
//
// Three modes are supported, matching the node equality classification in
// the reactive package: Reference (identity/==), Shallow (top-level
// keys/elements only), and Deep (recursive, cycle-tolerant structural
// comparison). Snapshot produces an independent structural clone so that a
// caller's later in-place mutation of a value cannot retroactively change
// what a node believes it last emitted.
package equality
