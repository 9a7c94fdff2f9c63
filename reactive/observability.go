package reactive

import (
	"context"
	"fmt"

	"github.com/dagify-go/dagify/providers/observability"
)

// Observer is the process-wide observability.Provider the scheduler and
// node core report through. nil (the default) means zero overhead: every
// call site below guards on it before touching the interface, exactly as
// the teacher's Client.observer field does.
var Observer observability.Provider

// SetObserver installs p as the process-wide observer. Pass nil to go back
// to zero-overhead mode.
func SetObserver(p observability.Provider) { Observer = p }

const (
	metricEmissions      = "dagify.node.emissions"
	metricSuppressions   = "dagify.node.suppressions"
	metricQueueOverflows = "dagify.queue.overflows"
	metricFlushSize      = "dagify.scheduler.flush_size"
	metricFatalPanics    = "dagify.node.fatal_panics_recovered"
)

func debugStateTransition(n *Node, from, to State) {
	if Observer == nil {
		return
	}
	Observer.Debug(context.Background(), observability.EventNodeStateTransition,
		observability.String(observability.AttrNodeKey, n.key.String()),
		observability.String("from", from.String()),
		observability.String(observability.AttrNodeState, to.String()),
	)
}

func countEmission(n *Node) {
	if Observer == nil {
		return
	}
	Observer.Counter(metricEmissions).Add(context.Background(), 1,
		observability.String(observability.AttrNodeKey, n.key.String()))
}

func countSuppression(n *Node) {
	if Observer == nil {
		return
	}
	Observer.Counter(metricSuppressions).Add(context.Background(), 1,
		observability.String(observability.AttrNodeKey, n.key.String()))
}

func countQueueOverflow(n *Node) {
	if Observer == nil {
		return
	}
	Observer.Counter(metricQueueOverflows).Add(context.Background(), 1,
		observability.String(observability.AttrNodeKey, n.key.String()))
	Observer.Debug(context.Background(), observability.EventQueueOverflow,
		observability.String(observability.AttrNodeKey, n.key.String()))
}

// countFatalPanic records a fatal compute panic the flush boundary
// recovered, containing it to the one node instead of crashing the
// shared scheduler goroutine.
func countFatalPanic(n *Node, recovered any) {
	if Observer == nil {
		return
	}
	Observer.Counter(metricFatalPanics).Add(context.Background(), 1,
		observability.String(observability.AttrNodeKey, n.key.String()))
	Observer.Debug(context.Background(), observability.EventNodeFatalPanicRecovered,
		observability.String(observability.AttrNodeKey, n.key.String()),
		observability.String(observability.AttrError, fmt.Sprint(recovered)),
	)
}
