package graph

import (
	"context"
	"fmt"

	"github.com/dagify-go/dagify/providers/observability"
	"github.com/dagify-go/dagify/reactive"
)

// topologicalSort computes a Kahn's-algorithm ordering of every node key in
// the graph, along with its level decomposition (nodes grouped by the
// longest-path distance from any source). Caller holds g.mu.
func (g *Graph) topologicalSort() ([]reactive.Key, [][]reactive.Key, error) {
	inDegree := make(map[reactive.Key]int, len(g.nodes))
	for key := range g.nodes {
		inDegree[key] = len(g.preds[key])
	}

	var frontier []reactive.Key
	for key, deg := range inDegree {
		if deg == 0 {
			frontier = append(frontier, key)
		}
	}

	var order []reactive.Key
	var levels [][]reactive.Key
	remaining := inDegree

	for len(frontier) > 0 {
		levels = append(levels, frontier)
		order = append(order, frontier...)

		var next []reactive.Key
		for _, key := range frontier {
			for succ := range g.edges[key] {
				remaining[succ]--
				if remaining[succ] == 0 {
					next = append(next, succ)
				}
			}
		}
		frontier = next
	}

	if len(order) != len(g.nodes) {
		return nil, nil, fmt.Errorf("%w: graph is not acyclic", reactive.ErrCycleDetected)
	}
	return order, levels, nil
}

// TopologicalOrder returns every node key in an order respecting every
// edge's direction.
func (g *Graph) TopologicalOrder() ([]reactive.Key, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	order, _, err := g.topologicalSort()
	return order, err
}

// Update recomputes every computed node in the graph once, in topological
// order. Each compute reads the dependency values already delivered to that
// node; an emission whose notification is still queued on a non-synchronous
// notify scheduler is not seen by this pass.
func (g *Graph) Update() error {
	g.mu.Lock()
	order, _, err := g.topologicalSort()
	if err != nil {
		g.mu.Unlock()
		return err
	}
	nodes := make([]*reactive.Node, 0, len(order))
	for _, key := range order {
		if n, ok := g.nodes[key]; ok && n.Kind() == reactive.KindComputed {
			nodes = append(nodes, n)
		}
	}
	g.mu.Unlock()

	ctx := context.Background()
	var span observability.Span
	if reactive.Observer != nil {
		ctx, span = reactive.Observer.StartSpan(ctx, observability.SpanGraphUpdate,
			observability.Int(observability.AttrGraphNodeCount, len(nodes)))
		defer span.End()
	}
	_ = ctx

	for _, n := range nodes {
		if err := n.Compute(); err != nil {
			if span != nil {
				span.RecordError(err)
				span.SetStatus(observability.StatusError, "graph update failed")
			}
			return err
		}
	}
	return nil
}

// UpdateAsync runs Update on a new goroutine and returns a channel that
// receives Update's result (nil on success) and is then closed.
func (g *Graph) UpdateAsync() <-chan error {
	out := make(chan error, 1)
	go func() {
		out <- g.Update()
		close(out)
	}()
	return out
}
