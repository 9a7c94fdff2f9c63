/*
Package reactive implements the reactive node core: the stateful and
computed vertices of a dagify graph, their dependency subscriptions,
update scheduling, equality-based emission suppression, and the
specialized node variants built on top of the core (sink, bridge,
execution, command, filter, composite, event, trigger, queued).

A Node is either stateful (constructed with NewNode, directly writable via
Set) or computed (constructed with NewComputed, driven by a ComputeFunc
over a dependency description). Dependencies are normalized by
internal/depset into an ordered or keyed set of reactive leaves; a
computed node subscribes to each leaf and recomputes whenever one fires.

Compute functions receive a single Deps value rather than the
JS-reflection-inferred "spread vs list" argument shape spec authors in a
dynamically-typed host language would use — Go has no equivalent arity
reflection, and a ComputeFunc already knows whether it was built against
an ordered or keyed dependency description, so it calls Deps.List or
Deps.Map directly. This is a deliberate simplification recorded in this
repository's design notes, not a dropped feature: ordered vs. keyed access
is fully preserved.

Scheduling, batching, and subscriber notification use a
providers/scheduler.Scheduler — goroutine-based by default, the Go
analogue of the host environment's microtask queue.
*/
package reactive
