// Package depset normalizes the heterogeneous dependency description a
// computed node is constructed with — a single reactive leaf, an ordered
// slice of leaves, or a keyed map of leaves — into one uniform internal
// shape, and enumerates the reactive leaves within it so the node core can
// subscribe to each one exactly once.
//
// A "leaf" is one of: a reactive node or other observable-like Subscriber,
// a future-like value, a thunk (func() any), or a static value. Only
// Subscriber leaves get a live subscription; futures, thunks and static
// values are classified as such and resolved inline by the node core on
// each compute pass.
package depset
