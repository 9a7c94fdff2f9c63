package combinators

import "github.com/dagify-go/dagify/reactive"

// Combine joins the latest values of every node in srcs (array mode),
// emitting only once every source has produced at least one value —
// reactive.Node's dependency resolution already withholds a compute pass
// until every leaf is resolved, so this is a thin NewComputed wrapper. proj
// may be nil, in which case the emitted value is the []any tuple itself.
func Combine(srcs []*reactive.Node, proj func([]any) any, opts ...reactive.Option) (*reactive.Node, error) {
	deps := make([]any, len(srcs))
	for i, s := range srcs {
		deps[i] = s
	}
	return reactive.NewComputed(func(d reactive.Deps) (any, error) {
		if proj == nil {
			return d.List(), nil
		}
		return proj(d.List()), nil
	}, deps, opts...)
}

// CombineRecord joins the latest values of a named set of nodes (record
// mode), emitting only once every source has a value. proj may be nil, in
// which case the emitted value is the map[string]any itself; the
// underlying dependency description orders its keys by sorted key name
// (internal/depset.Normalize), though Go's map type cannot surface that
// order to proj.
func CombineRecord(srcs map[string]*reactive.Node, proj func(map[string]any) any, opts ...reactive.Option) (*reactive.Node, error) {
	deps := make(map[string]any, len(srcs))
	for k, s := range srcs {
		deps[k] = s
	}
	return reactive.NewComputed(func(d reactive.Deps) (any, error) {
		if proj == nil {
			return d.Map(), nil
		}
		return proj(d.Map()), nil
	}, deps, opts...)
}
