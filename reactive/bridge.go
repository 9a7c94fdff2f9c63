package reactive

// Bridge forwards Set calls to an input node while exposing an output
// node's value as its own: Subscribe/Value/Complete all operate on the
// mirrored output, and output's error channel is silenced from the
// bridge's own subscribers.
type Bridge struct {
	*Node
	input  *Node
	output *Node
	cancel func()
}

// NewBridgeNode constructs a Bridge over input and output. It
// immediately mirrors output's current value.
func NewBridgeNode(input, output *Node, opts ...Option) *Bridge {
	mirror := NewNode(output.Value(), opts...)
	b := &Bridge{Node: mirror, input: input, output: output}

	cancel, _ := output.Subscribe(Observer{
		Next:     func(v any) { mirror.setValue(v, false) },
		Error:    func(error) {}, // silenced: the bridge's subscribers never see output's errors
		Complete: func() {},
	})
	b.cancel = cancel
	return b
}

// Set forwards v to the input node, synchronously recomputes the output
// node, and unconditionally mirrors output's resulting value. The
// recompute runs inline (not through scheduleUpdate) so that the value
// read back is always the post-Set one, never a stale value racing the
// scheduler's async flush.
func (b *Bridge) Set(v any) error {
	if err := b.input.Set(v); err != nil {
		return err
	}
	_ = b.output.Compute()
	b.Node.setValue(b.output.Value(), true)
	return nil
}

// Complete tears down the output subscription before completing the
// mirror node.
func (b *Bridge) Complete() {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	b.Node.Complete()
}
