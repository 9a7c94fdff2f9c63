package reactive

import "github.com/dagify-go/dagify/providers/dispatcher"

// NewEventNode constructs a stateful node pumped by the dispatcher: every
// payload emitted under (context, event) becomes the node's new value. A
// nil dispatcher uses dispatcher.Default.
func NewEventNode(d *dispatcher.Dispatcher, context, event string, opts ...Option) *Node {
	if d == nil {
		d = dispatcher.Default
	}
	n := NewNode(NoEmit, opts...)

	unsubscribe := d.On(context, event, func(payload any) {
		n.setValue(payload, false)
	})

	n.mu.Lock()
	n.triggerCancel = func() { unsubscribe() }
	n.mu.Unlock()
	return n
}
