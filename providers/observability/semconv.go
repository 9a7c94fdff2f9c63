package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- Node Attributes ---

const (
	// AttrNodeKey is the node's 32-byte encoded identity.
	AttrNodeKey = "dagify.node.key"

	// AttrNodeKind is "stateful" or "computed".
	AttrNodeKind = "dagify.node.kind"

	// AttrNodeState is the node's lifecycle state at the time of the event.
	AttrNodeState = "dagify.node.state"
)

// --- Scheduler Attributes ---

const (
	// AttrBatchSize is the number of nodes drained in one flush cycle.
	AttrBatchSize = "dagify.scheduler.batch_size"
)

// --- Graph Attributes ---

const (
	// AttrGraphNodeCount is the number of nodes visited by a graph-wide
	// operation such as Update.
	AttrGraphNodeCount = "dagify.graph.node_count"
)

// --- Queue Attributes ---

const (
	// AttrQueuePending is the number of items waiting in a queued node's
	// work queue at the time of the event.
	AttrQueuePending = "dagify.queue.pending"
)

// --- General Attributes ---

const (
	// AttrError is the error message.
	AttrError = "error"

	// AttrErrorType is the error type/class.
	AttrErrorType = "error.type"

	// AttrDuration is the operation duration.
	AttrDuration = "duration"

	// AttrStatus is the operation status.
	AttrStatus = "status"
)

// --- Span Names ---

const (
	// SpanSchedulerFlush is the span name for one scheduler flush cycle.
	SpanSchedulerFlush = "dagify.scheduler.flush"

	// SpanGraphUpdate is the span name for a graph-wide Update pass.
	SpanGraphUpdate = "dagify.graph.update"
)

// --- Event Names ---

const (
	// EventNodeStateTransition marks a node moving between lifecycle
	// states (Idle, Pending, Running, Errored).
	EventNodeStateTransition = "dagify.node.state_transition"

	// EventQueueOverflow marks a queued node rejecting or dropping work
	// under its overflow policy.
	EventQueueOverflow = "dagify.queue.overflow"

	// EventNodeFatalPanicRecovered marks a fatal compute panic (a
	// *reactive.ProgrammerError, or whatever the node's FatalPredicate
	// matched) that the flush boundary recovered, containing it to the
	// one node instead of crashing the shared scheduler goroutine.
	EventNodeFatalPanicRecovered = "dagify.node.fatal_panic_recovered"
)
