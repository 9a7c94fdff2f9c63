package graph

import (
	"fmt"

	"github.com/dagify-go/dagify/reactive"
)

// Connect adds an edge srcRef -> tgtRef. Each argument may be a single
// Ref or a []any of Refs, connecting every src to every tgt. Unknown
// references fail with ErrInvalidReference; an edge that would create a
// cycle fails with ErrCycleDetected and is not added. If tgt is a
// computed node, Connect also mirrors src into tgt's dependency
// description (positionally if tgt's dependencies are ordered, or keyed
// under src's encoded key if they are keyed).
func (g *Graph) Connect(srcRef, tgtRef Ref) error {
	g.mu.Lock()
	srcs, err := g.resolveMany(srcRef)
	if err != nil {
		g.mu.Unlock()
		return err
	}
	tgts, err := g.resolveMany(tgtRef)
	if err != nil {
		g.mu.Unlock()
		return err
	}

	for _, src := range srcs {
		for _, tgt := range tgts {
			if g.createsCycle(src.Key(), tgt.Key()) {
				g.mu.Unlock()
				return fmt.Errorf("%w: %s -> %s", reactive.ErrCycleDetected, src.Key(), tgt.Key())
			}
		}
	}

	type pair struct{ src, tgt *reactive.Node }
	var toMirror []pair
	for _, src := range srcs {
		for _, tgt := range tgts {
			g.edges[src.Key()][tgt.Key()] = true
			g.preds[tgt.Key()][src.Key()] = true
			toMirror = append(toMirror, pair{src, tgt})
		}
	}
	g.mu.Unlock()

	for _, p := range toMirror {
		if p.tgt.Kind() != reactive.KindComputed {
			continue
		}
		if p.tgt.DependenciesKeyed() {
			if err := p.tgt.UpdateDependencies(map[string]any{p.src.Key().String(): p.src}); err != nil {
				return err
			}
			continue
		}
		if err := p.tgt.AddDependency(p.src); err != nil {
			return err
		}
	}
	return nil
}

// Disconnect removes the edge srcRef -> tgtRef (and every pairing, if
// either argument is a []any), and for a computed target removes src
// from its dependency description.
func (g *Graph) Disconnect(srcRef, tgtRef Ref) error {
	g.mu.Lock()
	srcs, err := g.resolveMany(srcRef)
	if err != nil {
		g.mu.Unlock()
		return err
	}
	tgts, err := g.resolveMany(tgtRef)
	if err != nil {
		g.mu.Unlock()
		return err
	}
	for _, src := range srcs {
		for _, tgt := range tgts {
			g.disconnectLocked(src.Key(), tgt.Key())
		}
	}
	g.mu.Unlock()
	return nil
}

// disconnectLocked removes one edge and its dependency mirror. Caller
// holds g.mu.
func (g *Graph) disconnectLocked(src, tgt reactive.Key) {
	delete(g.edges[src], tgt)
	delete(g.preds[tgt], src)

	srcNode, srcOK := g.nodes[src]
	tgtNode, tgtOK := g.nodes[tgt]
	if !srcOK || !tgtOK || tgtNode.Kind() != reactive.KindComputed {
		return
	}
	if tgtNode.DependenciesKeyed() {
		_ = tgtNode.UpdateDependencies(map[string]any{srcNode.Key().String(): reactive.NoEmit})
		return
	}
	for i, dep := range tgtNode.OrderedDependencyRefs() {
		if dep == src {
			_ = tgtNode.RemoveDependency(i)
			return
		}
	}
}

// HasEdge reports whether a direct edge srcRef -> tgtRef exists.
func (g *Graph) HasEdge(srcRef, tgtRef Ref) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	src, err := g.resolve(srcRef)
	if err != nil {
		return false
	}
	tgt, err := g.resolve(tgtRef)
	if err != nil {
		return false
	}
	return g.edges[src.Key()][tgt.Key()]
}

// GetEdges returns every edge currently in the graph as (src, tgt) key
// pairs.
func (g *Graph) GetEdges() [][2]reactive.Key {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out [][2]reactive.Key
	for src, targets := range g.edges {
		for tgt := range targets {
			out = append(out, [2]reactive.Key{src, tgt})
		}
	}
	return out
}
