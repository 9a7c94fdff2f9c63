package graph

import "github.com/dagify-go/dagify/reactive"

// GetImmediatePredecessors returns ref's direct predecessors.
func (g *Graph) GetImmediatePredecessors(ref Ref) ([]*reactive.Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, err := g.resolve(ref)
	if err != nil {
		return nil, err
	}
	return g.keysToNodesLocked(g.preds[n.Key()]), nil
}

// GetImmediateSuccessors returns ref's direct successors.
func (g *Graph) GetImmediateSuccessors(ref Ref) ([]*reactive.Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, err := g.resolve(ref)
	if err != nil {
		return nil, err
	}
	return g.keysToNodesLocked(g.edges[n.Key()]), nil
}

// GetTransitivePredecessors returns every node reachable by walking
// predecessor edges from ref, excluding ref itself.
func (g *Graph) GetTransitivePredecessors(ref Ref) ([]*reactive.Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, err := g.resolve(ref)
	if err != nil {
		return nil, err
	}
	return g.keysToNodesLocked(g.reachableLocked(n.Key(), g.preds)), nil
}

// GetTransitiveSuccessors returns every node reachable by walking
// successor edges from ref, excluding ref itself.
func (g *Graph) GetTransitiveSuccessors(ref Ref) ([]*reactive.Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, err := g.resolve(ref)
	if err != nil {
		return nil, err
	}
	return g.keysToNodesLocked(g.reachableLocked(n.Key(), g.edges)), nil
}

func (g *Graph) reachableLocked(start reactive.Key, adj map[reactive.Key]map[reactive.Key]bool) map[reactive.Key]bool {
	visited := map[reactive.Key]bool{}
	var dfs func(reactive.Key)
	dfs = func(cur reactive.Key) {
		for next := range adj[cur] {
			if !visited[next] {
				visited[next] = true
				dfs(next)
			}
		}
	}
	dfs(start)
	return visited
}

// GetSources returns every node with no incoming edges.
func (g *Graph) GetSources() []*reactive.Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []*reactive.Node
	for key, n := range g.nodes {
		if len(g.preds[key]) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// GetSinks returns every node with no outgoing edges.
func (g *Graph) GetSinks() []*reactive.Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []*reactive.Node
	for key, n := range g.nodes {
		if len(g.edges[key]) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// GetInDegree returns ref's number of incoming edges.
func (g *Graph) GetInDegree(ref Ref) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, err := g.resolve(ref)
	if err != nil {
		return 0, err
	}
	return len(g.preds[n.Key()]), nil
}

// GetOutDegree returns ref's number of outgoing edges.
func (g *Graph) GetOutDegree(ref Ref) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, err := g.resolve(ref)
	if err != nil {
		return 0, err
	}
	return len(g.edges[n.Key()]), nil
}

// FindPath returns a directed path from aRef to bRef (inclusive), found
// via DFS, or false if none exists.
func (g *Graph) FindPath(aRef, bRef Ref) ([]*reactive.Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a, err := g.resolve(aRef)
	if err != nil {
		return nil, false
	}
	b, err := g.resolve(bRef)
	if err != nil {
		return nil, false
	}

	visited := map[reactive.Key]bool{}
	var path []reactive.Key
	var dfs func(cur reactive.Key) bool
	dfs = func(cur reactive.Key) bool {
		path = append(path, cur)
		if cur == b.Key() {
			return true
		}
		visited[cur] = true
		for next := range g.edges[cur] {
			if !visited[next] {
				if dfs(next) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		return false
	}

	if !dfs(a.Key()) {
		return nil, false
	}
	return g.keysToNodesOrderedLocked(path), true
}

// GetConnectedComponent returns every node reachable from ref treating
// edges as undirected.
func (g *Graph) GetConnectedComponent(ref Ref) ([]*reactive.Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, err := g.resolve(ref)
	if err != nil {
		return nil, err
	}

	visited := map[reactive.Key]bool{n.Key(): true}
	queue := []reactive.Key{n.Key()}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for next := range g.edges[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
		for prev := range g.preds[cur] {
			if !visited[prev] {
				visited[prev] = true
				queue = append(queue, prev)
			}
		}
	}
	return g.keysToNodesLocked(visited), nil
}

func (g *Graph) keysToNodesLocked(keys map[reactive.Key]bool) []*reactive.Node {
	out := make([]*reactive.Node, 0, len(keys))
	for k := range keys {
		if n, ok := g.nodes[k]; ok {
			out = append(out, n)
		}
	}
	return out
}

func (g *Graph) keysToNodesOrderedLocked(keys []reactive.Key) []*reactive.Node {
	out := make([]*reactive.Node, 0, len(keys))
	for _, k := range keys {
		if n, ok := g.nodes[k]; ok {
			out = append(out, n)
		}
	}
	return out
}
