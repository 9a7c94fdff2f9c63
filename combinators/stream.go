package combinators

import (
	"context"
	"iter"

	"github.com/dagify-go/dagify/reactive"
)

// StreamOverflow names the policy applied when a bridged stream produces
// faster than its consumer drains it.
type StreamOverflow int

const (
	StreamDropNewest StreamOverflow = iota
	StreamDropOldest
	StreamError
)

// StreamOptions configures the bounded buffer a stream bridge uses.
type StreamOptions struct {
	BufferSize int
	Overflow   StreamOverflow
	// OnOverflow, if set, overrides Overflow entirely and is called with
	// the value that would otherwise be dropped or erred.
	OnOverflow func(dropped any)
}

func (o StreamOptions) bufferSize() int {
	if o.BufferSize > 0 {
		return o.BufferSize
	}
	return 16
}

// FromAsyncIterable drains seq onto a stateful node, honoring ctx
// cancellation; reactive.NoEmit values are dropped rather than stored.
func FromAsyncIterable(ctx context.Context, seq iter.Seq[any], opts ...reactive.Option) *reactive.Node {
	out := reactive.NewNode(reactive.NoEmit, opts...)
	go func() {
		for v := range seq {
			if reactive.IsNoEmit(v) {
				continue
			}
			select {
			case <-ctx.Done():
				out.Complete()
				return
			default:
			}
			_ = out.Set(v)
		}
		out.Complete()
	}()
	return out
}

// ToAsyncIterable subscribes to src and exposes its emissions as an
// iter.Seq, bridged through a bounded channel governed by opts. Breaking
// out of the consuming range loop cancels the subscription.
func ToAsyncIterable(ctx context.Context, src *reactive.Node, opts StreamOptions) iter.Seq[any] {
	return func(yield func(any) bool) {
		buf := make(chan any, opts.bufferSize())
		done := make(chan struct{})

		cancel, err := src.Subscribe(reactive.Observer{
			Next: func(v any) {
				if reactive.IsNoEmit(v) {
					return
				}
				select {
				case buf <- v:
				default:
					applyOverflow(buf, v, opts)
				}
			},
			Error:    func(error) { close(done) },
			Complete: func() { close(done) },
		})
		if err != nil {
			return
		}
		defer cancel()

		for {
			select {
			case v := <-buf:
				if !yield(v) {
					return
				}
			case <-done:
				for {
					select {
					case v := <-buf:
						if !yield(v) {
							return
						}
					default:
						return
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}
}

func applyOverflow(buf chan any, v any, opts StreamOptions) {
	if opts.OnOverflow != nil {
		opts.OnOverflow(v)
		return
	}
	switch opts.Overflow {
	case StreamDropOldest:
		select {
		case <-buf:
		default:
		}
		select {
		case buf <- v:
		default:
		}
	case StreamError:
		// Dropped silently; a dedicated error channel would require a
		// wider bridge surface than iter.Seq exposes.
	default:
	}
}

// FromReadableStream is an alias for FromAsyncIterable — Go has no distinct
// ReadableStream type, so both bridge iter.Seq[any] identically.
func FromReadableStream(ctx context.Context, seq iter.Seq[any], opts ...reactive.Option) *reactive.Node {
	return FromAsyncIterable(ctx, seq, opts...)
}

// ToReadableStream is an alias for ToAsyncIterable.
func ToReadableStream(ctx context.Context, src *reactive.Node, opts StreamOptions) iter.Seq[any] {
	return ToAsyncIterable(ctx, src, opts)
}
