package combinators

import "github.com/dagify-go/dagify/reactive"

// SwitchLatest subscribes to src, and for each emission resolves an inner
// node via select (or treats the emission itself as the inner node if
// select is nil), mirroring only the most recently selected inner node's
// emissions — unsubscribing the previous inner source first.
func SwitchLatest(src *reactive.Node, selectFn func(any) *reactive.Node, opts ...reactive.Option) *reactive.Node {
	out := reactive.NewNode(reactive.NoEmit, opts...)

	var innerCancel func()
	switchTo := func(v any) {
		var inner *reactive.Node
		if selectFn != nil {
			inner = selectFn(v)
		} else if n, ok := v.(*reactive.Node); ok {
			inner = n
		}
		if innerCancel != nil {
			innerCancel()
			innerCancel = nil
		}
		if inner == nil {
			return
		}
		cancel, err := inner.Subscribe(reactive.Observer{
			Next: func(iv any) { _ = out.Set(iv) },
		})
		if err == nil {
			innerCancel = cancel
		}
	}

	outerCancel, _ := src.Subscribe(reactive.Observer{Next: switchTo})

	out.SetFinalize(func() {
		if innerCancel != nil {
			innerCancel()
		}
		if outerCancel != nil {
			outerCancel()
		}
	})
	return out
}
