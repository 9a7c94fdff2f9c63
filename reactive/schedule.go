package reactive

import (
	"context"
	"sync"

	"github.com/dagify-go/dagify/internal/equality"
	"github.com/dagify-go/dagify/providers/observability"
	"github.com/dagify-go/dagify/providers/scheduler"
)

// Scheduler is the process-wide update scheduler used to coalesce
// recomputation into a single tick — a goroutine-based dispatcher by
// default, the Go analogue of a microtask queue. Replacing it mid-run is
// permitted but racy, matching the "process-wide singleton, replace in
// place" contract the rest of the provider registries follow.
var Scheduler scheduler.Scheduler = scheduler.Goroutine

type scheduleState struct {
	mu         sync.Mutex
	pending    []*Node
	pendingSet map[*Node]bool
	flushing   bool
	batchDepth int

	notifyOrder   []*Node
	notifyPending map[*Node]*batchedEmission
}

// batchedEmission remembers, for a node whose setValue ran inside an open
// Batch window, the snapshot its value held before the first write this
// window — so the window's many writes collapse into at most one notify
// comparing start-of-window against end-of-window.
type batchedEmission struct {
	preSnapshot any
	force       bool
}

var sched = &scheduleState{pendingSet: map[*Node]bool{}}

// registerBatchedEmission records that n's value changed while a Batch
// window is open, deferring the notify decision to drainBatchedNotifications.
// It returns false (nothing registered) when no Batch window is open, in
// which case the caller should notify immediately as usual.
func registerBatchedEmission(n *Node, preSnapshot any, forceEmit bool) bool {
	sched.mu.Lock()
	defer sched.mu.Unlock()

	if sched.batchDepth == 0 {
		return false
	}

	if sched.notifyPending == nil {
		sched.notifyPending = map[*Node]*batchedEmission{}
	}
	be, ok := sched.notifyPending[n]
	if !ok {
		be = &batchedEmission{preSnapshot: preSnapshot}
		sched.notifyPending[n] = be
		sched.notifyOrder = append(sched.notifyOrder, n)
	}
	be.force = be.force || forceEmit
	return true
}

// drainBatchedNotifications notifies every node whose emission was deferred
// by registerBatchedEmission, in the order they were first touched, each
// exactly once, comparing its pre-batch snapshot against its current value.
func drainBatchedNotifications() {
	sched.mu.Lock()
	order := sched.notifyOrder
	pending := sched.notifyPending
	sched.notifyOrder = nil
	sched.notifyPending = nil
	sched.mu.Unlock()

	for _, n := range order {
		be := pending[n]

		n.mu.Lock()
		mode := n.equality
		current := n.value
		wasErrored := n.state == StateErrored
		n.mu.Unlock()

		hadPrior := !IsNoEmit(be.preSnapshot)
		same := !be.force && !wasErrored && hadPrior && equality.Equal(mode, be.preSnapshot, current)
		if same {
			countSuppression(n)
			continue
		}
		countEmission(n)
		n.notify(current)
	}
}

// scheduleUpdate enqueues n for recomputation, coalescing repeated
// schedules within one tick or batch window into a single entry. A node
// constructed with WithDisableBatching runs its compute immediately
// instead.
func scheduleUpdate(n *Node) {
	n.mu.Lock()
	disableBatching := n.disableBatching
	n.mu.Unlock()

	if disableBatching {
		n.Compute()
		return
	}

	sched.mu.Lock()
	if sched.pendingSet[n] {
		sched.mu.Unlock()
		return
	}
	sched.pendingSet[n] = true
	sched.pending = append(sched.pending, n)
	n.mu.Lock()
	n.state = StatePending
	n.mu.Unlock()

	needsFlush := sched.batchDepth == 0 && !sched.flushing
	if needsFlush {
		sched.flushing = true
	}
	sched.mu.Unlock()

	if needsFlush {
		Scheduler.Schedule(flush)
	}
}

// flush drains the pending set iteratively — not recursively — so that
// nodes scheduled by this very flush (a dependent enqueued while its
// upstream's setValue is notifying) are drained in the same pass instead
// of triggering reentrant compute calls.
func flush() {
	for {
		sched.mu.Lock()
		if len(sched.pending) == 0 {
			sched.flushing = false
			sched.mu.Unlock()
			return
		}
		batch := sched.pending
		sched.pending = nil
		sched.pendingSet = map[*Node]bool{}
		sched.mu.Unlock()

		runFlushBatch(batch)
	}
}

// runFlushBatch computes every node in batch, wrapped in an observability
// span when an Observer is installed — one span per flush cycle, sized by
// how many nodes it drained, the Go analogue of the teacher's per-request
// span around a unit of work.
func runFlushBatch(batch []*Node) {
	if Observer == nil {
		for _, n := range batch {
			safeCompute(n)
		}
		return
	}

	ctx, span := Observer.StartSpan(context.Background(), observability.SpanSchedulerFlush,
		observability.Int(observability.AttrBatchSize, len(batch)))
	defer span.End()
	Observer.Counter(metricFlushSize).Add(ctx, int64(len(batch)))

	for _, n := range batch {
		safeCompute(n)
	}
}

// safeCompute runs n.Compute(), recovering a fatal compute panic (a
// FatalPredicate match, rethrown by runCompute as the ErrUserCompute-wrapped
// error) so
// one fatal node cannot take down the shared flush goroutine. runCompute
// already marks the node Errored and notifies its subscribers before it
// panics; this recover only contains the panic's blast radius to the one
// node's compute call instead of letting it propagate to the scheduler.
func safeCompute(n *Node) {
	defer func() {
		if r := recover(); r != nil {
			countFatalPanic(n, r)
		}
	}()
	n.Compute()
}

// flushSync is flush's synchronous counterpart, used by Batch to drain
// whatever accumulated during the batch window without waiting on the
// update scheduler.
func flushSync() {
	for {
		sched.mu.Lock()
		if len(sched.pending) == 0 {
			sched.mu.Unlock()
			return
		}
		batch := sched.pending
		sched.pending = nil
		sched.pendingSet = map[*Node]bool{}
		sched.mu.Unlock()

		for _, n := range batch {
			safeCompute(n)
		}
	}
}

// Batch opens a window during which scheduleUpdate calls accumulate into
// the pending set instead of triggering a tick, then flushes once
// synchronously when the outermost Batch call returns. Nested Batch calls
// share one window; only the outermost flushes. The returned channel is
// closed once the flush (or, for a nested call, the accumulation) is
// done, letting a caller `<-Batch(fn)` to await propagation.
//
// If fn panics, the pending set accumulated so far is still flushed
// before the panic is re-raised.
func Batch(fn func()) <-chan struct{} {
	done := make(chan struct{})

	sched.mu.Lock()
	sched.batchDepth++
	sched.mu.Unlock()

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		fn()
	}()

	sched.mu.Lock()
	sched.batchDepth--
	outermost := sched.batchDepth == 0
	sched.mu.Unlock()

	if outermost {
		// Reopen the window while draining: a deferred notify can itself
		// trigger scheduleUpdate on a dependent, which must accumulate
		// rather than dispatch its own async flush mid-drain.
		sched.mu.Lock()
		sched.batchDepth++
		sched.mu.Unlock()

		drainBatchedNotifications()

		sched.mu.Lock()
		sched.batchDepth--
		sched.mu.Unlock()

		flushSync()
	}
	close(done)

	if recovered != nil {
		panic(recovered)
	}
	return done
}
