package combinators

import "github.com/dagify-go/dagify/reactive"

// Store is a named handle on a stateful node, grouping the read/write/
// subscribe surface an application-level value container needs without
// exposing the rest of *reactive.Node's API.
type Store struct {
	*reactive.Node
}

// CreateStore constructs a stateful node seeded with initial and wraps it
// as a Store.
func CreateStore(initial any, opts ...reactive.Option) *Store {
	return &Store{Node: reactive.NewNode(initial, opts...)}
}

// Get returns the store's current value.
func (s *Store) Get() any { return s.Node.Value() }

// Set assigns a new value, subject to the underlying node's equality
// suppression.
func (s *Store) Set(v any) error { return s.Node.Set(v) }

// Update applies fn to the current value and stores the result.
func (s *Store) Update(fn func(any) any) error {
	return s.Node.Set(fn(s.Node.Value()))
}
