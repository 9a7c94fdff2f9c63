package reactive

// NewSinkNode constructs a terminal stateful node: it can be Set and can
// itself Set from an upstream observable-like source, but Subscribe
// always fails with ErrSinkSubscribe, so nothing can take it as a
// dependency.
func NewSinkNode(initial any, opts ...Option) *Node {
	return NewNode(initial, append(append([]Option{}, opts...), WithSink())...)
}
