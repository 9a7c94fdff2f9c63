package reactive

import (
	"fmt"

	"github.com/dagify-go/dagify/internal/depset"
)

// Subscribe registers obs to receive this node's emissions. It fails with
// ErrSinkSubscribe on a sink node. If the node has already completed, obs
// is immediately completed and a no-op canceller is returned. Otherwise
// the subscriber is registered and, unless skip > 0 or the current value
// is NoEmit, immediately delivered the current value.
func (n *Node) Subscribe(obs Observer) (cancel func(), err error) {
	n.mu.Lock()
	if n.sink {
		n.mu.Unlock()
		return nil, ErrSinkSubscribe
	}
	if n.completed {
		n.mu.Unlock()
		if obs.Complete != nil {
			obs.Complete()
		}
		return func() {}, nil
	}

	s := &subscriber{obs: obs}
	n.subscribers = append(n.subscribers, s)

	deliver := false
	var value any
	if n.skip > 0 {
		n.skip--
	} else if !IsNoEmit(n.value) {
		deliver = true
		value = n.value
	}
	sched := n.notifySched
	n.mu.Unlock()

	if deliver && obs.Next != nil {
		s.delivered = true
		sched.Schedule(func() { obs.Next(value) })
	}

	return func() { n.removeSubscriber(s) }, nil
}

func (n *Node) removeSubscriber(s *subscriber) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, existing := range n.subscribers {
		if existing == s {
			n.subscribers = append(n.subscribers[:i:i], n.subscribers[i+1:]...)
			return
		}
	}
}

// notify delivers value to every open subscriber via the notify
// scheduler.
func (n *Node) notify(value any) {
	n.mu.Lock()
	subs := make([]*subscriber, 0, len(n.subscribers))
	for _, s := range n.subscribers {
		if !s.closed {
			subs = append(subs, s)
		}
	}
	sched := n.notifySched
	n.mu.Unlock()

	for _, s := range subs {
		s := s
		if s.obs.Next == nil {
			continue
		}
		sched.Schedule(func() { s.obs.Next(value) })
	}
}

// notifyError terminates every open, not-yet-error-notified subscriber
// with err and runs any registered finalize callback.
func (n *Node) notifyError(err error) {
	n.mu.Lock()
	n.state = StateErrored
	subs := make([]*subscriber, 0, len(n.subscribers))
	for _, s := range n.subscribers {
		if !s.closed && !s.errorNotified {
			s.closed = true
			s.errorNotified = true
			subs = append(subs, s)
		}
	}
	sched := n.notifySched
	finalize := n.finalize
	n.mu.Unlock()

	for _, s := range subs {
		s := s
		if s.obs.Error != nil {
			sched.Schedule(func() { s.obs.Error(err) })
		}
	}
	if finalize != nil {
		finalize()
	}
}

// Set assigns a new value on a stateful node. Calling Set on a computed
// node fails with ErrComputedSet. If v is a byte buffer and an encoding
// is configured, it is decoded before storage. If v satisfies
// depset.Subscriber (an observable-like source), the node unsubscribes
// from any prior source and subscribes to v instead, thereafter behaving
// like a stateful node pumped by that source.
func (n *Node) Set(v any) error {
	n.mu.Lock()
	if n.kind != KindStateful {
		n.mu.Unlock()
		return ErrComputedSet
	}
	n.mu.Unlock()

	if sub, ok := v.(depset.Subscriber); ok {
		n.pumpFrom(sub)
		return nil
	}

	if IsNoEmit(v) {
		return nil
	}

	decoded, err := n.decodeIfBuffer(v)
	if err != nil {
		n.notifyError(fmt.Errorf("%w: %v", ErrEncodingFailure, err))
		return err
	}

	if err := n.validateType(decoded); err != nil {
		n.notifyError(err)
		return err
	}

	n.setValue(decoded, false)
	return nil
}

// pumpFrom subscribes the stateful node to an external observable-like
// source, canceling any prior such subscription first.
func (n *Node) pumpFrom(sub depset.Subscriber) {
	n.mu.Lock()
	if n.asyncCancel != nil {
		n.asyncCancel()
	}
	n.mu.Unlock()

	cancel := sub.Subscribe(depset.Observer{
		Next: func(v any) {
			if IsNoEmit(v) {
				return
			}
			decoded, err := n.decodeIfBuffer(v)
			if err != nil {
				n.notifyError(fmt.Errorf("%w: %v", ErrEncodingFailure, err))
				return
			}
			if err := n.validateType(decoded); err != nil {
				n.notifyError(err)
				return
			}
			n.setValue(decoded, false)
		},
		Error: func(err error) { n.notifyError(err) },
		Complete: func() {
			n.mu.Lock()
			computed := n.kind == KindComputed
			n.mu.Unlock()
			if !computed {
				n.Complete()
			}
		},
	})

	n.mu.Lock()
	n.asyncCancel = cancel
	n.mu.Unlock()
}

// Next is an alias for Set on a stateful node, and triggers Compute on a
// computed node.
func (n *Node) Next(v any) error {
	n.mu.Lock()
	kind := n.kind
	n.mu.Unlock()

	if kind == KindComputed {
		return n.Compute()
	}
	return n.Set(v)
}

// Update applies an update to a stateful node (force re-emission with no
// argument, or a func(any) any transform applied to the current value, or
// a plain value behaving like Set), or triggers Compute on a computed
// node.
func (n *Node) Update(v ...any) error {
	n.mu.Lock()
	kind := n.kind
	current := n.value
	n.mu.Unlock()

	if kind == KindComputed {
		return n.Compute()
	}

	if len(v) == 0 {
		n.setValue(current, true)
		return nil
	}

	if fn, ok := v[0].(func(any) any); ok {
		return n.Set(fn(current))
	}
	return n.Set(v[0])
}
