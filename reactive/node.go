package reactive

import (
	"fmt"
	"sync"
	"time"

	"github.com/dagify-go/dagify/internal/depset"
	"github.com/dagify-go/dagify/internal/equality"
	"github.com/dagify-go/dagify/providers/encoding"
	"github.com/dagify-go/dagify/providers/scheduler"
	"github.com/dagify-go/dagify/providers/typeregistry"
)

// NodeKind distinguishes stateful from computed nodes.
type NodeKind int

const (
	KindStateful NodeKind = iota
	KindComputed
)

// State is a node's lifecycle state.
type State int

const (
	StateIdle State = iota
	StatePending
	StateRunning
	StateCompleted
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

type noEmitType struct{}

func (noEmitType) String() string { return "NO_EMIT" }

// NoEmit is the distinguished sentinel meaning "no value; suppress
// propagation." A node whose value is NoEmit never notifies subscribers
// and never contributes a resolved value to a dependent's compute.
var NoEmit any = noEmitType{}

// IsNoEmit reports whether v is the NoEmit sentinel.
func IsNoEmit(v any) bool {
	_, ok := v.(noEmitType)
	return ok
}

type depSlot struct {
	hasValue bool
	value    any
	err      error
}

// Node is a vertex in a dagify graph: a stateful value holder or a
// computed value derived from other nodes.
type Node struct {
	mu sync.Mutex

	key  Key
	kind NodeKind
	sink bool

	computeFn ComputeFunc
	deps      *depset.Set
	depOrder  []string
	depCancel map[string]func()
	depValues map[string]*depSlot

	value        any
	lastSnapshot any
	equality     equality.Mode

	encodingTag      string
	encodingRegistry *encoding.Registry

	typeTag      string
	typeRegistry *typeregistry.Registry

	subscribers []*subscriber

	completed       bool
	skip            int
	disableBatching bool

	state  State
	errs   *errStream
	fatal  FatalPredicate

	updateSched scheduler.Scheduler
	notifySched scheduler.Scheduler

	asyncGen    uint64
	asyncCancel func()

	executionDriven bool
	triggerCancel   func()

	queue *queueState

	activationThreshold int
	decayInterval       time.Duration
	activityLevel       int
	decayTimer          *time.Timer

	finalize func()
}

type subscriber struct {
	obs           Observer
	closed        bool
	errorNotified bool
	delivered     bool
}

// Observer is the triple of callbacks Subscribe registers. Any nil
// callback is treated as a no-op.
type Observer struct {
	Next     func(v any)
	Error    func(err error)
	Complete func()
}

// NewNode constructs a stateful node holding initial as its starting
// value.
func NewNode(initial any, opts ...Option) *Node {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	n := newNodeFromConfig(cfg, KindStateful)
	n.value = initial
	n.lastSnapshot = equality.Snapshot(initial)
	return n
}

// NewComputed constructs a computed node driven by fn over the dependency
// description deps (a single leaf, a []any, or a map[string]any — see
// internal/depset.Normalize). The initial compute is scheduled through the
// node's update scheduler and is not run before NewComputed returns, except
// under WithDisableBatching, where it runs inline.
func NewComputed(fn ComputeFunc, deps any, opts ...Option) (*Node, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	n := newNodeFromConfig(cfg, KindComputed)
	n.computeFn = fn
	n.value = NoEmit
	n.lastSnapshot = NoEmit

	if cfg.queue != nil {
		n.queue = newQueueState(n, cfg.queue)
	}

	if err := n.SetDependencies(deps); err != nil {
		return nil, err
	}
	return n, nil
}

func newNodeFromConfig(cfg *nodeConfig, kind NodeKind) *Node {
	return &Node{
		key:              cfg.key,
		kind:             kind,
		sink:             cfg.sink,
		equality:         cfg.equality,
		encodingTag:      cfg.encodingTag,
		encodingRegistry: encodingRegistryOrDefault(cfg.encodingRegistry),
		typeTag:          cfg.typeTag,
		typeRegistry:     typeRegistryOrDefault(cfg.typeRegistry),
		skip:             cfg.skip,
		disableBatching:  cfg.disableBatching,
		updateSched:      cfg.updateSched,
		notifySched:      cfg.notifySched,
		fatal:            cfg.fatal,
		errs:             newErrStream(),
		depCancel:        make(map[string]func()),
		depValues:        make(map[string]*depSlot),
		activationThreshold: cfg.activationThreshold,
		decayInterval:       cfg.decayInterval,
		executionDriven:  cfg.executionDriven,
		state:            StateIdle,
	}
}

func encodingRegistryOrDefault(r *encoding.Registry) *encoding.Registry {
	if r != nil {
		return r
	}
	return encoding.Default
}

func typeRegistryOrDefault(r *typeregistry.Registry) *typeregistry.Registry {
	if r != nil {
		return r
	}
	return typeregistry.Default
}

// Key returns the node's identity.
func (n *Node) Key() Key { return n.key }

// Kind reports whether the node is stateful or computed.
func (n *Node) Kind() NodeKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.kind
}

// IsSink reports whether the node is terminal.
func (n *Node) IsSink() bool { return n.sink }

// DependenciesKeyed reports whether this computed node's current
// dependency description is keyed (map) rather than ordered (slice).
func (n *Node) DependenciesKeyed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.deps != nil && n.deps.Keyed
}

// IsDagifyNode is a marker method satisfied by every *Node, used by the
// graph package to distinguish a node reference from a raw key or string.
func (n *Node) IsDagifyNode() bool { return true }

// State returns the node's current lifecycle state.
func (n *Node) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Value returns the node's current stored value, which may be NoEmit.
func (n *Node) Value() any {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.value
}

// LastDependencyError returns the most recent error recorded in this
// node's dependency-error replay stream, or nil.
func (n *Node) LastDependencyError() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.errs.last()
}

// EncodeForSink returns the encoded byte form of the node's current
// value. It fails with ErrNoEncoding if no encoding descriptor was
// configured.
func (n *Node) EncodeForSink() ([]byte, error) {
	n.mu.Lock()
	tag, registry, value := n.encodingTag, n.encodingRegistry, n.value
	n.mu.Unlock()

	if tag == "" {
		return nil, ErrNoEncoding
	}
	adapter, err := registry.Resolve(tag)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}
	b, err := adapter.Encode(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}
	return b, nil
}

// SetFinalize registers fn to run once, after this node terminates via
// either an error notification or Complete.
func (n *Node) SetFinalize(fn func()) {
	var once sync.Once
	n.mu.Lock()
	n.finalize = func() { once.Do(fn) }
	n.mu.Unlock()
}

// Visit increments the node's activity counter (only meaningful when
// constructed with WithActivityThreshold); once the counter reaches the
// configured threshold, it schedules a compute and resets to zero.
func (n *Node) Visit() {
	n.mu.Lock()
	if n.activationThreshold <= 0 {
		n.mu.Unlock()
		return
	}
	n.activityLevel++
	reached := n.activityLevel >= n.activationThreshold
	if reached {
		n.activityLevel = 0
	}
	if n.decayInterval > 0 {
		if n.decayTimer != nil {
			n.decayTimer.Stop()
		}
		n.decayTimer = time.AfterFunc(n.decayInterval, func() {
			n.mu.Lock()
			n.activityLevel = 0
			n.mu.Unlock()
		})
	}
	n.mu.Unlock()

	if reached {
		scheduleUpdate(n)
	}
}

// Complete terminates all subscriber streams, detaches dependency
// subscriptions, cancels any in-flight async compute and decay timer, and
// is idempotent.
func (n *Node) Complete() {
	n.mu.Lock()
	if n.completed {
		n.mu.Unlock()
		return
	}
	n.completed = true
	n.state = StateCompleted

	subs := make([]*subscriber, len(n.subscribers))
	copy(subs, n.subscribers)
	n.subscribers = nil

	for _, cancel := range n.depCancel {
		cancel()
	}
	n.depCancel = map[string]func(){}

	if n.asyncCancel != nil {
		n.asyncCancel()
		n.asyncCancel = nil
	}
	if n.decayTimer != nil {
		n.decayTimer.Stop()
	}
	if n.triggerCancel != nil {
		n.triggerCancel()
		n.triggerCancel = nil
	}
	finalize := n.finalize
	n.mu.Unlock()

	for _, s := range subs {
		if s.closed {
			continue
		}
		s.closed = true
		if s.obs.Complete != nil {
			s.obs.Complete()
		}
	}
	if finalize != nil {
		finalize()
	}
}
