package graph

import (
	"fmt"
	"sync"

	"github.com/dagify-go/dagify/reactive"
)

// Graph is an explicit, mutable container of reactive nodes keyed by
// their 32-byte identity, plus the directed adjacency relation between
// them. The adjacency relation is kept acyclic at all times: Connect
// rejects any edge that would close a cycle.
type Graph struct {
	mu sync.Mutex

	nodes map[reactive.Key]*reactive.Node
	alias map[string]*reactive.Node

	// edges[src] is the set of src's direct successors.
	edges map[reactive.Key]map[reactive.Key]bool
	// preds[tgt] is the set of tgt's direct predecessors.
	preds map[reactive.Key]map[reactive.Key]bool

	// depMode is cleared by RemoveNode but never populated; Connect takes
	// the positional/keyed choice from the target's own
	// DependenciesKeyed instead.
	depMode map[reactive.Key]bool // true = keyed
}

// New constructs an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:   make(map[reactive.Key]*reactive.Node),
		alias:   make(map[string]*reactive.Node),
		edges:   make(map[reactive.Key]map[reactive.Key]bool),
		preds:   make(map[reactive.Key]map[reactive.Key]bool),
		depMode: make(map[reactive.Key]bool),
	}
}

// AddNode inserts n under its own key. It fails with ErrDuplicateNode if
// a node with that key is already present. If alias is non-empty, n also
// becomes resolvable by that string.
func (g *Graph) AddNode(n *reactive.Node, alias ...string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addNodeLocked(n, alias...)
}

func (g *Graph) addNodeLocked(n *reactive.Node, alias ...string) error {
	if n == nil {
		return reactive.ErrInvalidReference
	}
	if _, exists := g.nodes[n.Key()]; exists {
		return fmt.Errorf("%w: key %s", reactive.ErrDuplicateNode, n.Key())
	}
	g.nodes[n.Key()] = n
	g.edges[n.Key()] = make(map[reactive.Key]bool)
	g.preds[n.Key()] = make(map[reactive.Key]bool)
	for _, a := range alias {
		g.alias[a] = n
	}
	return nil
}

// AddNodes inserts every node in ns, stopping at the first failure (any
// nodes before it remain added).
func (g *Graph) AddNodes(ns []*reactive.Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, n := range ns {
		if err := g.addNodeLocked(n); err != nil {
			return err
		}
	}
	return nil
}

// UpsertNode inserts n, replacing any existing node under the same key
// (its edges are discarded along with it).
func (g *Graph) UpsertNode(n *reactive.Node, alias ...string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n == nil {
		return reactive.ErrInvalidReference
	}
	key := n.Key()
	for tgt := range g.edges[key] {
		delete(g.preds[tgt], key)
	}
	for src := range g.preds[key] {
		delete(g.edges[src], key)
	}
	delete(g.nodes, key)
	delete(g.edges, key)
	delete(g.preds, key)
	return g.addNodeLocked(n, alias...)
}

// HasNode reports whether ref resolves to a node in g.
func (g *Graph) HasNode(ref Ref) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, err := g.resolve(ref)
	return err == nil
}

// GetNode resolves ref to its node.
func (g *Graph) GetNode(ref Ref) (*reactive.Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resolve(ref)
}

// GetNodes returns every node currently in the graph, order unspecified.
func (g *Graph) GetNodes() []*reactive.Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*reactive.Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// FindNode returns the first node for which pred returns true, in
// unspecified order.
func (g *Graph) FindNode(pred func(*reactive.Node) bool) (*reactive.Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, n := range g.nodes {
		if pred(n) {
			return n, true
		}
	}
	return nil, false
}

// RemoveNode removes ref and every edge touching it, detaching the
// corresponding dependency wiring on both sides.
func (g *Graph) RemoveNode(ref Ref) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, err := g.resolve(ref)
	if err != nil {
		return err
	}
	key := n.Key()

	for tgt := range g.edges[key] {
		g.disconnectLocked(key, tgt)
	}
	for src := range g.preds[key] {
		g.disconnectLocked(src, key)
	}

	delete(g.nodes, key)
	delete(g.edges, key)
	delete(g.preds, key)
	delete(g.depMode, key)
	for a, an := range g.alias {
		if an.Key() == key {
			delete(g.alias, a)
		}
	}
	return nil
}

// String renders the graph as one "src -> tgt" line per edge.
func (g *Graph) String() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := ""
	for src, targets := range g.edges {
		for tgt := range targets {
			out += fmt.Sprintf("%s -> %s\n", src, tgt)
		}
	}
	return out
}
