/*
Package graph implements the explicit, multi-node DAG container: a
keyed collection of reactive.Node values plus the adjacency relation
between them, with cycle-safe Connect/Disconnect, Kahn's-algorithm
topological sort, predecessor/successor/component queries, and
synchronous/asynchronous traversal updates.

Grounded on the teacher's patterns/graph package: the same
kahnTopologicalSort shape (in-degree map + adjacency + level grouping)
reappears here as topologicalSort, generalized from a fixed
once-per-Execute LLM pipeline walk to a container that can be queried,
mutated, and re-walked at any time.

connect(src, tgt) additionally performs "dependency mirroring" (spec
§3.2): when tgt is a computed reactive.Node, the graph also registers src
as one of tgt's dependencies, so a graph edge and a node's own dependency
description never drift apart.
*/
package graph
