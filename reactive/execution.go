package reactive

// NewExecutionNode behaves like a computed node except recomputation is
// driven by trigger's emissions rather than by dependency emissions:
// dependency changes update the node's cached values but do not, by
// themselves, cause propagation until trigger fires.
func NewExecutionNode(fn ComputeFunc, deps any, trigger *Node, opts ...Option) (*Node, error) {
	opts = append(append([]Option{}, opts...), withExecutionDriven())
	n, err := NewComputed(fn, deps, opts...)
	if err != nil {
		return nil, err
	}

	cancel, err := trigger.Subscribe(Observer{
		Next:     func(any) { n.Compute() },
		Error:    func(err error) { n.notifyError(err) },
		Complete: func() {},
	})
	if err != nil {
		return nil, err
	}

	n.mu.Lock()
	n.triggerCancel = cancel
	n.mu.Unlock()
	return n, nil
}
