package reactive

import (
	"fmt"

	"github.com/dagify-go/dagify/internal/equality"
)

// decodeIfBuffer decodes v through the node's configured encoding if v is
// a byte buffer and an encoding descriptor is set; otherwise v passes
// through unchanged.
func (n *Node) decodeIfBuffer(v any) (any, error) {
	n.mu.Lock()
	tag, registry := n.encodingTag, n.encodingRegistry
	n.mu.Unlock()

	b, isBuffer := v.([]byte)
	if !isBuffer || tag == "" {
		return v, nil
	}

	adapter, err := registry.Resolve(tag)
	if err != nil {
		return nil, err
	}
	return adapter.Decode(b)
}

// validateType checks v against the node's configured type tag, if any.
func (n *Node) validateType(v any) error {
	n.mu.Lock()
	tag, registry := n.typeTag, n.typeRegistry
	n.mu.Unlock()

	if tag == "" {
		return nil
	}
	if err := registry.Validate(tag, v); err != nil {
		return fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	return nil
}

// setValue is the node's emission algorithm (spec §4.1 "_setValue"): it
// stores newValue, takes an equality-mode snapshot, and — if forceEmit or
// the comparator reports a difference from the last snapshot — notifies
// subscribers through the notify scheduler.
func (n *Node) setValue(newValue any, forceEmit bool) {
	if IsNoEmit(newValue) {
		return
	}

	n.mu.Lock()
	if n.completed {
		n.mu.Unlock()
		return
	}

	mode := n.equality
	prevSnapshot := n.lastSnapshot
	same := !forceEmit && n.hasEmittedLocked() && equality.Equal(mode, prevSnapshot, newValue)

	n.value = newValue
	n.lastSnapshot = equality.Snapshot(newValue)
	wasErrored := n.state == StateErrored
	n.state = StateIdle
	n.mu.Unlock()

	// Inside an open Batch window, defer the notify decision so that
	// several setValue calls on the same node this window collapse into
	// at most one emission comparing start-of-window against the final
	// value, instead of one emission per call.
	if registerBatchedEmission(n, prevSnapshot, forceEmit) {
		return
	}

	if same && !wasErrored {
		countSuppression(n)
		return
	}
	countEmission(n)
	n.notify(newValue)
}

// hasEmittedLocked reports whether the node has ever stored a non-NoEmit
// value, i.e. whether lastSnapshot is meaningful to compare against.
// Caller holds n.mu.
func (n *Node) hasEmittedLocked() bool {
	return !IsNoEmit(n.lastSnapshot)
}
