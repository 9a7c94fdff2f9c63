package reactive

import (
	"fmt"

	"github.com/dagify-go/dagify/internal/depset"
)

// nodeSubscriberAdapter lets a *Node satisfy depset.Subscriber without
// reactive.Observer and depset.Observer being the same named type.
type nodeSubscriberAdapter struct{ n *Node }

func (a nodeSubscriberAdapter) Subscribe(obs depset.Observer) func() {
	cancel, err := a.n.Subscribe(Observer{Next: obs.Next, Error: obs.Error, Complete: obs.Complete})
	if err != nil {
		if obs.Error != nil {
			obs.Error(err)
		}
		return func() {}
	}
	return cancel
}

// wrapNodes walks a raw dependency description and replaces every *Node
// with an adapter depset.Normalize can recognize as a Subscriber, leaving
// every other leaf (observable-like, future-like, thunk, static value)
// untouched for depset's own classification.
func wrapNodes(desc any) any {
	switch v := desc.(type) {
	case *Node:
		return nodeSubscriberAdapter{v}
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = wrapNodes(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = wrapNodes(e)
		}
		return out
	default:
		return v
	}
}

// SetDependencies replaces the node's entire dependency description,
// atomically tearing down stale subscriptions and establishing new ones,
// then triggers a compute. Only valid for computed nodes.
func (n *Node) SetDependencies(desc any) error {
	n.mu.Lock()
	if n.kind != KindComputed {
		n.mu.Unlock()
		return fmt.Errorf("%w: SetDependencies on a stateful node", ErrInvalidDependency)
	}
	if err := rejectSinkLeaves(desc); err != nil {
		n.mu.Unlock()
		return err
	}

	set, err := depset.Normalize(wrapNodes(desc))
	if err != nil {
		n.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrInvalidDependency, err)
	}

	for _, cancel := range n.depCancel {
		cancel()
	}
	n.depCancel = make(map[string]func())
	n.depValues = make(map[string]*depSlot)
	n.deps = set
	n.depOrder = append([]string(nil), set.Order...)
	n.mu.Unlock()

	n.subscribeLeaves(set)
	scheduleUpdate(n)
	return nil
}

// rejectSinkLeaves rejects a dependency description that names a sink
// node directly (adding a sink as a dependency is always invalid,
// regardless of where in the description it appears).
func rejectSinkLeaves(desc any) error {
	switch v := desc.(type) {
	case *Node:
		if v.IsSink() {
			return fmt.Errorf("%w: cannot depend on a sink node", ErrInvalidDependency)
		}
	case []any:
		for _, e := range v {
			if err := rejectSinkLeaves(e); err != nil {
				return err
			}
		}
	case map[string]any:
		for _, e := range v {
			if err := rejectSinkLeaves(e); err != nil {
				return err
			}
		}
	}
	return nil
}

func (n *Node) subscribeLeaves(set *depset.Set) {
	for _, kl := range set.ReactiveLeaves() {
		key := kl.Key
		n.mu.Lock()
		n.depValues[key] = &depSlot{}
		n.mu.Unlock()

		cancel := kl.Leaf.Node.Subscribe(depset.Observer{
			Next: func(v any) {
				n.mu.Lock()
				slot := n.depValues[key]
				if slot == nil {
					slot = &depSlot{}
					n.depValues[key] = slot
				}
				slot.hasValue = true
				slot.value = v
				slot.err = nil
				driven := n.executionDriven
				queued := n.queue != nil
				n.mu.Unlock()
				if !driven {
					if queued {
						// Each dependency emission is its own queued work item.
						_ = n.Compute()
					} else {
						scheduleUpdate(n)
					}
				}
			},
			Error: func(err error) {
				n.mu.Lock()
				slot := n.depValues[key]
				if slot == nil {
					slot = &depSlot{}
					n.depValues[key] = slot
				}
				slot.err = err
				n.errs.push(err)
				n.mu.Unlock()
				scheduleUpdate(n)
			},
			Complete: func() {
				n.mu.Lock()
				_, computed := n.depValues[key]
				n.mu.Unlock()
				if computed {
					n.Complete()
				}
			},
		})

		n.mu.Lock()
		n.depCancel[key] = cancel
		n.mu.Unlock()
	}
}

// AddDependency appends v (positional mode) to an ordered dependency
// description, or fails if the node's dependencies are currently keyed.
func (n *Node) AddDependency(v any) error {
	n.mu.Lock()
	if n.kind != KindComputed {
		n.mu.Unlock()
		return fmt.Errorf("%w: AddDependency on a stateful node", ErrInvalidDependency)
	}
	if n.deps != nil && n.deps.Keyed {
		n.mu.Unlock()
		return fmt.Errorf("%w: cannot positionally add to a keyed dependency set", ErrInvalidDependency)
	}
	current := n.currentRawOrdered()
	n.mu.Unlock()

	return n.SetDependencies(append(current, v))
}

// RemoveDependency removes the leaf at positional index i from an ordered
// dependency description.
func (n *Node) RemoveDependency(i int) error {
	n.mu.Lock()
	if n.kind != KindComputed {
		n.mu.Unlock()
		return fmt.Errorf("%w: RemoveDependency on a stateful node", ErrInvalidDependency)
	}
	if n.deps != nil && n.deps.Keyed {
		n.mu.Unlock()
		return fmt.Errorf("%w: cannot positionally remove from a keyed dependency set", ErrInvalidDependency)
	}
	current := n.currentRawOrdered()
	n.mu.Unlock()

	if i < 0 || i >= len(current) {
		return fmt.Errorf("%w: index %d out of range", ErrInvalidDependency, i)
	}
	next := append(append([]any(nil), current[:i]...), current[i+1:]...)
	return n.SetDependencies(next)
}

// UpdateDependencies merges updates into a keyed dependency description
// (adding or replacing named leaves) and re-subscribes.
func (n *Node) UpdateDependencies(updates map[string]any) error {
	n.mu.Lock()
	if n.kind != KindComputed {
		n.mu.Unlock()
		return fmt.Errorf("%w: UpdateDependencies on a stateful node", ErrInvalidDependency)
	}
	merged := n.currentRawKeyed()
	n.mu.Unlock()

	for k, v := range updates {
		merged[k] = v
	}
	return n.SetDependencies(merged)
}

// currentRawOrdered reconstructs the node's ordered dependency description
// from its cached raw leaves — approximate (static/thunk/future leaves
// regain their original values; node leaves regain their nodeSubscriberAdapter
// wrapper, which SetDependencies accepts identically to a raw *Node since
// wrapNodes already treats it as a terminal leaf). Caller holds n.mu.
func (n *Node) currentRawOrdered() []any {
	if n.deps == nil {
		return nil
	}
	out := make([]any, 0, len(n.deps.Order))
	for _, key := range n.deps.Order {
		out = append(out, n.rawLeafLocked(key))
	}
	return out
}

func (n *Node) currentRawKeyed() map[string]any {
	out := map[string]any{}
	if n.deps == nil {
		return out
	}
	for _, key := range n.deps.Order {
		out[key] = n.rawLeafLocked(key)
	}
	return out
}

// OrderedDependencyRefs returns the key of each ordered dependency leaf
// that is itself a node, in positional order; a non-node leaf (future,
// thunk, static value) occupies its index with the zero Key so that
// positional indices still line up with RemoveDependency.
func (n *Node) OrderedDependencyRefs() []Key {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.deps == nil {
		return nil
	}
	out := make([]Key, 0, len(n.deps.Order))
	for _, key := range n.deps.Order {
		leaf := n.deps.Leaves[key]
		if leaf.Kind == depset.KindNode {
			if adapter, ok := leaf.Node.(nodeSubscriberAdapter); ok {
				out = append(out, adapter.n.Key())
				continue
			}
		}
		out = append(out, Key{})
	}
	return out
}

func (n *Node) rawLeafLocked(key string) any {
	leaf := n.deps.Leaves[key]
	switch leaf.Kind {
	case depset.KindNode:
		return leaf.Node
	case depset.KindFuture:
		return leaf.Future
	case depset.KindThunk:
		return leaf.Thunk
	default:
		return leaf.Static
	}
}
