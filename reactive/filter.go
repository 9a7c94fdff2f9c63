package reactive

// NewFilterNode constructs a computed node that mirrors source's value
// when predicate accepts it, and emits NoEmit (suppressing propagation)
// otherwise.
func NewFilterNode(source *Node, predicate func(any) bool, opts ...Option) (*Node, error) {
	fn := func(deps Deps) (any, error) {
		v := deps.Get(0)
		if predicate(v) {
			return v, nil
		}
		return NoEmit, nil
	}
	return NewComputed(fn, source, opts...)
}
