package graph

import (
	"errors"
	"testing"

	"github.com/dagify-go/dagify/reactive"
)

func TestAddNode_DuplicateKeyRejected(t *testing.T) {
	g := New()
	n := reactive.NewNode(1)

	if err := g.AddNode(n, "a"); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddNode(n, "a"); !errors.Is(err, reactive.ErrDuplicateNode) {
		t.Fatalf("second AddNode error = %v, want ErrDuplicateNode", err)
	}
}

func TestConnect_UnknownReferenceRejected(t *testing.T) {
	g := New()
	n := reactive.NewNode(1)
	if err := g.AddNode(n, "a"); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.Connect("a", "missing"); !errors.Is(err, reactive.ErrInvalidReference) {
		t.Fatalf("Connect to unknown ref error = %v, want ErrInvalidReference", err)
	}
}

// TestConnect_RejectsCycle exercises spec scenario 3: connecting a
// computed node back to its own (transitive) dependency is rejected and
// leaves the graph's edge set unchanged.
func TestConnect_RejectsCycle(t *testing.T) {
	a := reactive.NewNode(1)
	b, err := reactive.NewComputed(func(deps reactive.Deps) (any, error) {
		return deps.Get(0), nil
	}, []any{a})
	if err != nil {
		t.Fatalf("NewComputed: %v", err)
	}

	g := New()
	if err := g.AddNode(a, "a"); err != nil {
		t.Fatalf("AddNode a: %v", err)
	}
	if err := g.AddNode(b, "b"); err != nil {
		t.Fatalf("AddNode b: %v", err)
	}
	if err := g.Connect("a", "b"); err != nil {
		t.Fatalf("Connect a->b: %v", err)
	}

	err = g.Connect("b", "a")
	if !errors.Is(err, reactive.ErrCycleDetected) {
		t.Fatalf("Connect b->a error = %v, want ErrCycleDetected", err)
	}
	if g.HasEdge("b", "a") {
		t.Fatal("rejected edge should not have been added")
	}
	if !g.HasEdge("a", "b") {
		t.Fatal("the original edge should be unaffected by the rejected one")
	}
}

func TestConnect_SelfLoopRejected(t *testing.T) {
	g := New()
	a := reactive.NewNode(1)
	if err := g.AddNode(a, "a"); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.Connect("a", "a"); !errors.Is(err, reactive.ErrCycleDetected) {
		t.Fatalf("self-loop Connect error = %v, want ErrCycleDetected", err)
	}
}

func TestTopologicalOrder_RespectsEdges(t *testing.T) {
	g := New()
	a := reactive.NewNode(1)
	b := reactive.NewNode(2)
	c := reactive.NewNode(3)
	for alias, n := range map[string]*reactive.Node{"a": a, "b": b, "c": c} {
		if err := g.AddNode(n, alias); err != nil {
			t.Fatalf("AddNode %s: %v", alias, err)
		}
	}
	if err := g.Connect("a", "b"); err != nil {
		t.Fatalf("Connect a->b: %v", err)
	}
	if err := g.Connect("b", "c"); err != nil {
		t.Fatalf("Connect b->c: %v", err)
	}

	order, err := g.TopologicalOrder()
	if err != nil {
		t.Fatalf("TopologicalOrder: %v", err)
	}
	pos := map[reactive.Key]int{}
	for i, k := range order {
		pos[k] = i
	}
	if pos[a.Key()] >= pos[b.Key()] || pos[b.Key()] >= pos[c.Key()] {
		t.Fatalf("order does not respect a->b->c: %v", order)
	}
}

func TestQuerySurface_PredecessorsSuccessorsDegrees(t *testing.T) {
	g := New()
	a := reactive.NewNode(1)
	b := reactive.NewNode(2)
	c := reactive.NewNode(3)
	for alias, n := range map[string]*reactive.Node{"a": a, "b": b, "c": c} {
		if err := g.AddNode(n, alias); err != nil {
			t.Fatalf("AddNode %s: %v", alias, err)
		}
	}
	if err := g.Connect("a", "b"); err != nil {
		t.Fatalf("Connect a->b: %v", err)
	}
	if err := g.Connect("b", "c"); err != nil {
		t.Fatalf("Connect b->c: %v", err)
	}

	preds, err := g.GetImmediatePredecessors("b")
	if err != nil || len(preds) != 1 || preds[0].Key() != a.Key() {
		t.Fatalf("GetImmediatePredecessors(b) = %v, %v, want [a]", preds, err)
	}
	succs, err := g.GetImmediateSuccessors("b")
	if err != nil || len(succs) != 1 || succs[0].Key() != c.Key() {
		t.Fatalf("GetImmediateSuccessors(b) = %v, %v, want [c]", succs, err)
	}

	if in, _ := g.GetInDegree("a"); in != 0 {
		t.Fatalf("GetInDegree(a) = %d, want 0", in)
	}
	if out, _ := g.GetOutDegree("c"); out != 0 {
		t.Fatalf("GetOutDegree(c) = %d, want 0", out)
	}

	sources := g.GetSources()
	if len(sources) != 1 || sources[0].Key() != a.Key() {
		t.Fatalf("GetSources() = %v, want [a]", sources)
	}
	sinks := g.GetSinks()
	if len(sinks) != 1 || sinks[0].Key() != c.Key() {
		t.Fatalf("GetSinks() = %v, want [c]", sinks)
	}

	path, ok := g.FindPath("a", "c")
	if !ok || len(path) != 3 {
		t.Fatalf("FindPath(a, c) = %v, %v, want a 3-node path", path, ok)
	}
}

func TestDisconnect_RemovesEdgeAndDependencyMirror(t *testing.T) {
	a := reactive.NewNode(1)
	b, err := reactive.NewComputed(func(deps reactive.Deps) (any, error) {
		return deps.Get(0), nil
	}, []any{a})
	if err != nil {
		t.Fatalf("NewComputed: %v", err)
	}

	g := New()
	if err := g.AddNode(a, "a"); err != nil {
		t.Fatalf("AddNode a: %v", err)
	}
	if err := g.AddNode(b, "b"); err != nil {
		t.Fatalf("AddNode b: %v", err)
	}
	if err := g.Connect("a", "b"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if !g.HasEdge("a", "b") {
		t.Fatal("edge should exist after Connect")
	}

	if err := g.Disconnect("a", "b"); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if g.HasEdge("a", "b") {
		t.Fatal("edge should be gone after Disconnect")
	}
}

func TestRemoveNode_ClearsAdjacency(t *testing.T) {
	g := New()
	a := reactive.NewNode(1)
	b := reactive.NewNode(2)
	if err := g.AddNode(a, "a"); err != nil {
		t.Fatalf("AddNode a: %v", err)
	}
	if err := g.AddNode(b, "b"); err != nil {
		t.Fatalf("AddNode b: %v", err)
	}
	if err := g.Connect("a", "b"); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := g.RemoveNode("a"); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if g.HasNode("a") {
		t.Fatal("node should be gone after RemoveNode")
	}
	if preds, _ := g.GetImmediatePredecessors("b"); len(preds) != 0 {
		t.Fatalf("b's predecessors after removing a = %v, want none", preds)
	}
}
