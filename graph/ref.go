package graph

import (
	"encoding/hex"
	"fmt"

	"github.com/dagify-go/dagify/reactive"
)

// Ref is anything that can name a node in a Graph: a *reactive.Node
// itself, its reactive.Key, its hex-encoded key string, or a
// user-supplied string alias passed to AddNode or UpsertNode.
type Ref = any

func keyFromHex(s string) (reactive.Key, error) {
	var k reactive.Key
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(k) {
		return k, fmt.Errorf("graph: %q is not a valid hex-encoded key", s)
	}
	copy(k[:], b)
	return k, nil
}

// resolve resolves ref against g's node table. Caller holds g.mu.
func (g *Graph) resolve(ref Ref) (*reactive.Node, error) {
	switch v := ref.(type) {
	case *reactive.Node:
		if v == nil {
			return nil, reactive.ErrInvalidReference
		}
		if n, ok := g.nodes[v.Key()]; ok {
			return n, nil
		}
		return nil, reactive.ErrInvalidReference
	case reactive.Key:
		if n, ok := g.nodes[v]; ok {
			return n, nil
		}
		return nil, reactive.ErrInvalidReference
	case string:
		if n, ok := g.alias[v]; ok {
			return n, nil
		}
		if k, err := keyFromHex(v); err == nil {
			if n, ok := g.nodes[k]; ok {
				return n, nil
			}
		}
		return nil, reactive.ErrInvalidReference
	default:
		return nil, reactive.ErrInvalidReference
	}
}

// resolveMany accepts either a single Ref or a []Ref ([]any), matching
// the array-of-either overloads spec.md describes for Connect/Disconnect.
func (g *Graph) resolveMany(ref Ref) ([]*reactive.Node, error) {
	if list, ok := ref.([]any); ok {
		out := make([]*reactive.Node, 0, len(list))
		for _, r := range list {
			n, err := g.resolve(r)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil
	}
	n, err := g.resolve(ref)
	if err != nil {
		return nil, err
	}
	return []*reactive.Node{n}, nil
}
