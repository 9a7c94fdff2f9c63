package reactive

import "sort"

// NewComposite aggregates a fixed collection of children into a single
// node whose value is the structured snapshot of their values: an
// ordered slice if children is a single node, []any, or map[string]any
// built from a keyed description. Emission is suppressed while any child
// is NoEmit, matching the underlying computed node's NoEmit-leaf rule.
func NewComposite(children any, opts ...Option) (*Node, error) {
	fn := func(deps Deps) (any, error) {
		if deps.Keyed() {
			return deps.Map(), nil
		}
		return deps.List(), nil
	}
	return NewComputed(fn, children, opts...)
}

// AddNodes appends each of extra as a new positional dependency.
func (n *Node) AddNodes(extra ...*Node) error {
	for _, e := range extra {
		if err := n.AddDependency(e); err != nil {
			return err
		}
	}
	return nil
}

// RemoveNodes removes the children at the given positional indices.
func (n *Node) RemoveNodes(indices ...int) error {
	sorted := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, i := range sorted {
		if err := n.RemoveDependency(i); err != nil {
			return err
		}
	}
	return nil
}
