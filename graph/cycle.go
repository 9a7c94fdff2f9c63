package graph

import "github.com/dagify-go/dagify/reactive"

// createsCycle reports whether adding the edge src -> tgt would create a
// cycle: true iff src is reachable from tgt via existing edges. Visited
// identity is the node's encoded key string, a hashable proxy for its
// 32-byte content per spec.md §9. Caller holds g.mu.
func (g *Graph) createsCycle(src, tgt reactive.Key) bool {
	if src == tgt {
		return true
	}
	visited := map[string]bool{}
	var dfs func(cur reactive.Key) bool
	dfs = func(cur reactive.Key) bool {
		if cur == src {
			return true
		}
		id := cur.String()
		if visited[id] {
			return false
		}
		visited[id] = true
		for next := range g.edges[cur] {
			if dfs(next) {
				return true
			}
		}
		return false
	}
	return dfs(tgt)
}
