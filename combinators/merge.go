package combinators

import "github.com/dagify-go/dagify/reactive"

// Merge returns a stateful node that interleaves every emission from srcs,
// in whatever order they arrive. The returned node's initial value is
// reactive.NoEmit until the first source emits.
func Merge(srcs []*reactive.Node, opts ...reactive.Option) *reactive.Node {
	out := reactive.NewNode(reactive.NoEmit, opts...)

	cancels := make([]func(), 0, len(srcs))
	for _, src := range srcs {
		cancel, err := src.Subscribe(reactive.Observer{
			Next: func(v any) { _ = out.Set(v) },
		})
		if err == nil {
			cancels = append(cancels, cancel)
		}
	}

	out.SetFinalize(func() {
		for _, c := range cancels {
			c()
		}
	})
	return out
}
