package graph

import (
	"errors"
	"testing"

	"github.com/dagify-go/dagify/providers/scheduler"
	"github.com/dagify-go/dagify/reactive"
)

func buildChain(t *testing.T) (*Graph, *reactive.Node, *reactive.Node, *reactive.Node) {
	t.Helper()
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
	return g, a, b, c
}

func TestGetTransitivePredecessorsAndSuccessors(t *testing.T) {
	g, a, b, c := buildChain(t)

	preds, err := g.GetTransitivePredecessors("c")
	if err != nil || len(preds) != 2 {
		t.Fatalf("GetTransitivePredecessors(c) = %v, %v, want [a b]", preds, err)
	}
	succs, err := g.GetTransitiveSuccessors("a")
	if err != nil || len(succs) != 2 {
		t.Fatalf("GetTransitiveSuccessors(a) = %v, %v, want [b c]", succs, err)
	}
	_ = a
	_ = b
	_ = c
}

func TestGetConnectedComponent_FollowsEdgesInBothDirections(t *testing.T) {
	g, a, _, c := buildChain(t)

	comp, err := g.GetConnectedComponent("a")
	if err != nil {
		t.Fatalf("GetConnectedComponent: %v", err)
	}
	if len(comp) != 3 {
		t.Fatalf("GetConnectedComponent(a) = %v, want all 3 nodes", comp)
	}

	isolated := reactive.NewNode(4)
	if err := g.AddNode(isolated, "d"); err != nil {
		t.Fatalf("AddNode d: %v", err)
	}
	comp, err = g.GetConnectedComponent("d")
	if err != nil || len(comp) != 1 {
		t.Fatalf("GetConnectedComponent(d) = %v, %v, want only itself", comp, err)
	}
	_ = a
	_ = c
}

func TestUpsertNode_ReplacesExistingAlias(t *testing.T) {
	g := New()
	a := reactive.NewNode(1)
	if err := g.AddNode(a, "a"); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	replacement := reactive.NewNode(99)
	if err := g.UpsertNode(replacement, "a"); err != nil {
		t.Fatalf("UpsertNode: %v", err)
	}

	got, err := g.GetNode("a")
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if got.Key() != replacement.Key() {
		t.Fatalf("GetNode(a) after UpsertNode = %v, want the replacement node", got)
	}
}

func TestFindNode_ReturnsFirstMatchingPredicate(t *testing.T) {
	g := New()
	a := reactive.NewNode(1)
	b := reactive.NewNode(2)
	if err := g.AddNode(a, "a"); err != nil {
		t.Fatalf("AddNode a: %v", err)
	}
	if err := g.AddNode(b, "b"); err != nil {
		t.Fatalf("AddNode b: %v", err)
	}

	found, ok := g.FindNode(func(n *reactive.Node) bool { return n.Value() == 2 })
	if !ok || found.Key() != b.Key() {
		t.Fatalf("FindNode = %v, %v, want b", found, ok)
	}

	_, ok = g.FindNode(func(n *reactive.Node) bool { return n.Value() == 999 })
	if ok {
		t.Fatal("FindNode should report no match for an absent value")
	}
}

func TestGetNodesAndGetEdges_ReflectGraphContents(t *testing.T) {
	g, _, _, _ := buildChain(t)

	if got := len(g.GetNodes()); got != 3 {
		t.Fatalf("GetNodes() length = %d, want 3", got)
	}
	if got := len(g.GetEdges()); got != 2 {
		t.Fatalf("GetEdges() length = %d, want 2", got)
	}
}

func TestGraph_String_NonEmptyForPopulatedGraph(t *testing.T) {
	g, _, _, _ := buildChain(t)
	s := g.String()
	if s == "" {
		t.Fatal("String() should not be empty for a populated graph")
	}
}

func TestUpdate_RecomputesDownstreamComputedNodes(t *testing.T) {
	// Sync notification, so b has received a's new value before Update runs.
	a := reactive.NewNode(1, reactive.WithNotifyScheduler(scheduler.Sync))
	b, err := reactive.NewComputed(func(deps reactive.Deps) (any, error) {
		return deps.Get(0).(int) + 1, nil
	}, []any{a}, reactive.WithDisableBatching())
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

	if err := a.Set(10); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := b.Value(); got != 11 {
		t.Fatalf("b.Value() after Update = %v, want 11", got)
	}
}

func TestUpdateAsync_DeliversResultOnChannel(t *testing.T) {
	g, _, _, _ := buildChain(t)

	ch := g.UpdateAsync()
	if err := <-ch; err != nil {
		t.Fatalf("UpdateAsync: %v", err)
	}
}

func TestResolve_UnknownAliasReturnsInvalidReference(t *testing.T) {
	g := New()
	if _, err := g.GetNode("missing"); !errors.Is(err, reactive.ErrInvalidReference) {
		t.Fatalf("GetNode(missing) error = %v, want ErrInvalidReference", err)
	}
}
