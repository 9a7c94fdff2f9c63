/*
Package scheduler provides the pluggable "run this closure later on
strategy X" primitive the reactive node core uses for update coalescing
and subscriber notification.

Go has no microtask queue, so the presets here translate the spec's JS
scheduler vocabulary onto Go's concurrency primitives:

  - Sync: runs the closure synchronously, on the caller's goroutine.
  - Goroutine (the default "microtask" analogue): hands the closure to a
    single per-scheduler dispatch goroutine over a buffered channel, so the
    closure never runs on the caller's stack but also never waits for a
    timer tick — the closest Go equivalent of a JS microtask.
  - Ticker (the "message-channel" analogue): the Goroutine preset under a
    second name; it shares the same dispatch goroutine and channel.
  - Timeout: defers the closure via time.AfterFunc, the analogue of
    setTimeout(fn, 0).
  - Immediate: like Sync, but documents the caller's intent to never batch
    (mirrors the JS "setImmediate" preset name from the source library).

A Scheduler is safe for concurrent use by multiple nodes.
*/
package scheduler
