// Package dispatcher implements the synchronous, context-scoped pub/sub
// bus nodes use for out-of-band event emission (distinct from a node's own
// value stream). Handlers registered under a context name receive events
// for that context only; the default context is "global".
//
// Delivery is synchronous and in registration order, on the goroutine that
// calls Emit — there is no internal buffering or background dispatch, so a
// handler that blocks blocks the emitter.
package dispatcher
