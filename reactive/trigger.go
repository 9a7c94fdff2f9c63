package reactive

import (
	"sync"

	"github.com/dagify-go/dagify/providers/dispatcher"
)

// NewTrigger wraps one or more event sources into a monotonically
// incrementing counter node: every upstream emission increments and
// force-emits the counter, regardless of the upstream payload's value or
// equality to the counter's own prior value (which, being monotonic,
// never repeats anyway).
func NewTrigger(sources []*Node, opts ...Option) *Node {
	n := NewNode(int64(0), opts...)

	var mu sync.Mutex
	var counter int64
	var cancels []func()

	for _, src := range sources {
		cancel, _ := src.Subscribe(Observer{
			Next: func(any) {
				mu.Lock()
				counter++
				c := counter
				mu.Unlock()
				n.setValue(c, true)
			},
			Error:    func(err error) { n.notifyError(err) },
			Complete: func() {},
		})
		cancels = append(cancels, cancel)
	}

	n.mu.Lock()
	n.triggerCancel = func() {
		for _, c := range cancels {
			if c != nil {
				c()
			}
		}
	}
	n.mu.Unlock()
	return n
}

// NewTriggerFromEvent wraps a single dispatcher event as a trigger
// source. A nil dispatcher uses dispatcher.Default.
func NewTriggerFromEvent(d *dispatcher.Dispatcher, context, event string, opts ...Option) *Node {
	if d == nil {
		d = dispatcher.Default
	}
	n := NewNode(int64(0), opts...)

	var mu sync.Mutex
	var counter int64
	unsubscribe := d.On(context, event, func(any) {
		mu.Lock()
		counter++
		c := counter
		mu.Unlock()
		n.setValue(c, true)
	})

	n.mu.Lock()
	n.triggerCancel = func() { unsubscribe() }
	n.mu.Unlock()
	return n
}
