// Package combinators provides FRP-style adapters over reactive.Node: map,
// filter, combine, merge, switchLatest, from, a minimal store, and bridges
// to Go's iter.Seq for async-iterable-shaped interop. Every combinator
// returns a plain *reactive.Node so it can be wired into a graph.Graph or
// subscribed to directly.
package combinators
