package combinators

import (
	"github.com/dagify-go/dagify/internal/depset"
	"github.com/dagify-go/dagify/reactive"
)

// From accepts a *reactive.Node, an observable-like (depset.Subscriber), a
// promise-like (depset.Future), or a plain value, and returns a stateful
// node whose value mirrors the source.
func From(input any, opts ...reactive.Option) *reactive.Node {
	if n, ok := input.(*reactive.Node); ok {
		out := reactive.NewNode(n.Value(), opts...)
		cancel, err := n.Subscribe(reactive.Observer{
			Next:  func(v any) { _ = out.Set(v) },
			Error: func(error) {},
		})
		if err == nil {
			out.SetFinalize(cancel)
		}
		return out
	}

	if fut, ok := input.(depset.Future); ok {
		out := reactive.NewNode(reactive.NoEmit, opts...)
		go func() {
			v, err := fut.Await()
			if err != nil {
				return
			}
			_ = out.Set(v)
		}()
		return out
	}

	if sub, ok := input.(depset.Subscriber); ok {
		out := reactive.NewNode(reactive.NoEmit, opts...)
		_ = out.Set(sub)
		return out
	}

	return reactive.NewNode(input, opts...)
}
