package reactive

import (
	"fmt"

	"github.com/dagify-go/dagify/internal/depset"
)

// Compute runs the node's ComputeFunc. It is a no-op on stateful nodes
// and on completed nodes. Queued nodes (constructed with WithQueue)
// enqueue the recomputation instead of racing it against any in-flight
// one.
func (n *Node) Compute() error {
	n.mu.Lock()
	if n.kind != KindComputed || n.completed {
		n.mu.Unlock()
		return nil
	}
	fn := n.computeFn
	queue := n.queue
	n.mu.Unlock()

	if queue != nil {
		return queue.enqueue()
	}
	return n.runCompute(fn)
}

// resolveDeps resolves the node's dependency leaves into a Deps. ok is
// false (with a nil error) when any leaf is currently NoEmit or has no
// value yet — the caller should skip this compute pass silently. A
// non-nil error means a reactive leaf has an outstanding dependency error;
// the caller should abort and expose it rather than compute with partial
// input.
func (n *Node) resolveDeps() (Deps, bool, error) {
	n.mu.Lock()
	set := n.deps
	n.mu.Unlock()
	if set == nil {
		return Deps{}, true, nil
	}

	values := make(map[string]any, len(set.Order))
	for _, key := range set.Order {
		leaf := set.Leaves[key]
		var v any

		switch leaf.Kind {
		case depset.KindNode:
			n.mu.Lock()
			slot := n.depValues[key]
			n.mu.Unlock()
			if slot == nil || !slot.hasValue {
				return Deps{}, false, nil
			}
			if slot.err != nil {
				return Deps{}, false, slot.err
			}
			if IsNoEmit(slot.value) {
				return Deps{}, false, nil
			}
			v = slot.value
		case depset.KindFuture:
			result, err := leaf.Future.Await()
			if err != nil {
				return Deps{}, false, err
			}
			if IsNoEmit(result) {
				return Deps{}, false, nil
			}
			v = result
		case depset.KindThunk:
			result := leaf.Thunk()
			if IsNoEmit(result) {
				return Deps{}, false, nil
			}
			v = result
		default:
			v = leaf.Static
		}

		values[key] = v
	}

	return Deps{keyed: set.Keyed, order: append([]string(nil), set.Order...), values: values}, true, nil
}

// runCompute resolves dependencies, invokes fn, and routes the result
// per spec §4.1: a depset.Subscriber result is treated as a push source,
// a depset.Future result as a promise, and anything else as a plain
// value handed to setValue (which applies equality suppression).
func (n *Node) runCompute(fn ComputeFunc) error {
	if fn == nil {
		return nil
	}

	n.mu.Lock()
	prev := n.state
	n.state = StatePending
	n.mu.Unlock()
	debugStateTransition(n, prev, StatePending)

	deps, ok, depErr := n.resolveDeps()
	if depErr != nil {
		n.errs.push(depErr)
		n.notifyError(depErr)
		return depErr
	}
	if !ok {
		n.mu.Lock()
		n.state = StateIdle
		n.mu.Unlock()
		debugStateTransition(n, StatePending, StateIdle)
		return nil
	}

	n.mu.Lock()
	n.state = StateRunning
	n.mu.Unlock()
	debugStateTransition(n, StatePending, StateRunning)

	result, err := fn(deps)
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrUserCompute, err)
		n.errs.push(wrapped)
		if n.fatal(err) {
			n.notifyError(wrapped)
			panic(wrapped)
		}
		n.notifyError(wrapped)
		return wrapped
	}

	switch typed := result.(type) {
	case depset.Subscriber:
		n.computeAsyncPush(typed)
	case depset.Future:
		n.computeAsyncFuture(typed)
	default:
		if IsNoEmit(result) {
			n.mu.Lock()
			n.state = StateIdle
			n.mu.Unlock()
			return nil
		}
		n.setValue(result, false)
	}
	return nil
}

// computeAsyncPush subscribes to a push-source compute result, feeding
// each emission through setValue. Starting a new async push cancels any
// prior in-flight one for this node — at most one in-flight async compute
// per non-queued node.
func (n *Node) computeAsyncPush(src depset.Subscriber) {
	n.mu.Lock()
	if n.asyncCancel != nil {
		n.asyncCancel()
	}
	n.asyncGen++
	gen := n.asyncGen
	n.mu.Unlock()

	cancel := src.Subscribe(depset.Observer{
		Next: func(v any) {
			n.mu.Lock()
			current := n.asyncGen
			n.mu.Unlock()
			if current != gen {
				return
			}
			n.setValue(v, false)
		},
		Error: func(err error) {
			n.mu.Lock()
			current := n.asyncGen
			n.mu.Unlock()
			if current != gen {
				return
			}
			n.errs.push(err)
			n.notifyError(err)
		},
		Complete: func() {},
	})

	n.mu.Lock()
	n.asyncCancel = cancel
	n.mu.Unlock()
}

// computeAsyncFuture awaits a promise-like compute result on a fresh
// goroutine so the blocking Await never stalls a shared scheduler
// dispatch goroutine, then feeds the result through setValue — discarded
// if a newer async compute has since superseded this one.
func (n *Node) computeAsyncFuture(fut depset.Future) {
	n.mu.Lock()
	n.asyncGen++
	gen := n.asyncGen
	n.asyncCancel = nil
	n.mu.Unlock()

	go func() {
		v, err := fut.Await()

		n.mu.Lock()
		current := n.asyncGen
		n.mu.Unlock()
		if current != gen {
			return
		}

		if err != nil {
			n.errs.push(err)
			n.notifyError(err)
			return
		}
		if IsNoEmit(v) {
			return
		}
		n.setValue(v, false)
	}()
}
