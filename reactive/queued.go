package reactive

import (
	"fmt"
	"sync"

	"github.com/dagify-go/dagify/internal/depset"
)

// queueState is the queued-node mix-in (spec §4.2): it guarantees async
// recomputations are consumed in the order their triggering dependency
// emission was enqueued, rather than racing however their individual
// promises/push-sources happen to settle.
type queueState struct {
	mu      sync.Mutex
	n       *Node
	cfg     *queueConfig
	items   []Deps
	running bool
}

func newQueueState(n *Node, cfg *queueConfig) *queueState {
	return &queueState{n: n, cfg: cfg}
}

// enqueue snapshots the node's current dependency values and pushes a
// work item onto the queue, applying the overflow policy if the queue is
// full, then ensures the serial executor is running.
func (q *queueState) enqueue() error {
	deps, ok, depErr := q.n.resolveDeps()
	if depErr != nil {
		q.n.errs.push(depErr)
		q.n.notifyError(depErr)
		return depErr
	}
	if !ok {
		return nil
	}

	q.mu.Lock()
	if q.cfg.maxLength > 0 && len(q.items) >= q.cfg.maxLength {
		strategy := q.cfg.overflow
		if q.cfg.onOverflow != nil {
			strategy = q.cfg.onOverflow(len(q.items))
		}
		switch strategy {
		case OverflowDropNewest:
			q.mu.Unlock()
			return nil
		case OverflowDropOldest:
			q.items = q.items[1:]
		case OverflowError:
			q.mu.Unlock()
			countQueueOverflow(q.n)
			q.n.errs.push(ErrQueueOverflow)
			q.n.notifyError(ErrQueueOverflow)
			return ErrQueueOverflow
		case OverflowEnqueue:
			// fall through to admit past maxLength
		}
	}
	q.items = append(q.items, deps)
	shouldStart := !q.running
	if shouldStart {
		q.running = true
	}
	q.mu.Unlock()

	if shouldStart {
		go q.runLoop()
	}
	return nil
}

func (q *queueState) runLoop() {
	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		item := q.items[0]
		q.items = q.items[1:]
		q.mu.Unlock()

		q.runOne(item)
	}
}

func (q *queueState) runOne(deps Deps) {
	n := q.n

	n.mu.Lock()
	fn := n.computeFn
	n.mu.Unlock()
	if fn == nil {
		return
	}

	result, err := fn(deps)
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrUserCompute, err)
		n.errs.push(wrapped)
		if n.fatal(err) {
			n.notifyError(wrapped)
			panic(wrapped)
		}
		n.notifyError(wrapped)
		return
	}

	switch typed := result.(type) {
	case depset.Subscriber:
		q.drainPushSource(typed)
	case depset.Future:
		v, ferr := typed.Await()
		if ferr != nil {
			n.errs.push(ferr)
			n.notifyError(ferr)
			return
		}
		if !IsNoEmit(v) {
			n.setValue(v, false)
		}
	default:
		if !IsNoEmit(result) {
			n.setValue(result, false)
		}
	}
}

// drainPushSource consumes a push-source compute result. In stream mode
// (streamMaxBuffer > 0), every non-NoEmit emission is buffered and
// drained through setValue in order, governed by streamOverflow,
// until the source completes. Otherwise only the first non-NoEmit
// emission is taken before unsubscribing, per spec §4.2.
func (q *queueState) drainPushSource(src depset.Subscriber) {
	n := q.n

	if q.cfg.streamMaxBuffer <= 0 {
		result := make(chan any, 1)
		failure := make(chan error, 1)

		var cancel func()
		cancel = src.Subscribe(depset.Observer{
			Next: func(v any) {
				if IsNoEmit(v) {
					return
				}
				select {
				case result <- v:
				default:
				}
			},
			Error: func(err error) {
				select {
				case failure <- err:
				default:
				}
			},
			Complete: func() {},
		})

		select {
		case v := <-result:
			cancel()
			n.setValue(v, false)
		case err := <-failure:
			cancel()
			n.errs.push(err)
			n.notifyError(err)
		}
		return
	}

	buf := make(chan any, q.cfg.streamMaxBuffer)
	done := make(chan struct{})
	failure := make(chan error, 1)

	cancel := src.Subscribe(depset.Observer{
		Next: func(v any) {
			if IsNoEmit(v) {
				return
			}
			select {
			case buf <- v:
			default:
				q.applyStreamOverflow(buf, v)
			}
		},
		Error: func(err error) {
			select {
			case failure <- err:
			default:
			}
			close(done)
		},
		Complete: func() { close(done) },
	})
	defer cancel()

	for {
		select {
		case v := <-buf:
			n.setValue(v, false)
		case <-done:
			for {
				select {
				case v := <-buf:
					n.setValue(v, false)
					continue
				default:
				}
				break
			}
			select {
			case err := <-failure:
				n.errs.push(err)
				n.notifyError(err)
			default:
			}
			return
		}
	}
}

func (q *queueState) applyStreamOverflow(buf chan any, v any) {
	switch q.cfg.streamOverflow {
	case OverflowDropOldest:
		select {
		case <-buf:
		default:
		}
		select {
		case buf <- v:
		default:
		}
	case OverflowError:
		countQueueOverflow(q.n)
		q.n.errs.push(ErrStreamOverflow)
		q.n.notifyError(ErrStreamOverflow)
	default: // OverflowDropNewest and OverflowEnqueue both drop when genuinely full
	}
}
