package combinators

import "github.com/dagify-go/dagify/reactive"

// Map returns a computed node whose value is proj applied to src's latest
// value.
func Map(src *reactive.Node, proj func(any) any, opts ...reactive.Option) (*reactive.Node, error) {
	return reactive.NewComputed(func(deps reactive.Deps) (any, error) {
		return proj(deps.Get(0)), nil
	}, src, opts...)
}

// Filter returns a computed node that mirrors src's value whenever pred
// holds, and suppresses emission (reactive.NoEmit) otherwise.
func Filter(src *reactive.Node, pred func(any) bool, opts ...reactive.Option) (*reactive.Node, error) {
	return reactive.NewFilterNode(src, pred, opts...)
}
