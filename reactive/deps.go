package reactive

// Deps is the resolved view of a computed node's dependency values passed
// to its ComputeFunc. It wraps whichever shape the dependency description
// normalized to — an ordered sequence or a keyed record — without forcing
// the compute function through JS-style arity reflection: ordered compute
// functions call List/Get, keyed ones call Map/GetKey.
type Deps struct {
	keyed  bool
	order  []string
	values map[string]any
}

// Keyed reports whether this Deps came from a keyed (map) dependency
// description rather than an ordered (slice) one.
func (d Deps) Keyed() bool { return d.keyed }

// Len returns the number of dependency leaves resolved into this Deps.
func (d Deps) Len() int { return len(d.order) }

// List returns the resolved values in dependency order. Valid for both
// ordered and keyed descriptions (keyed values come in sorted key order).
func (d Deps) List() []any {
	out := make([]any, len(d.order))
	for i, k := range d.order {
		out[i] = d.values[k]
	}
	return out
}

// Get returns the i'th dependency's resolved value.
func (d Deps) Get(i int) any {
	if i < 0 || i >= len(d.order) {
		return nil
	}
	return d.values[d.order[i]]
}

// Map returns a copy of the keyed dependency record.
func (d Deps) Map() map[string]any {
	out := make(map[string]any, len(d.values))
	for k, v := range d.values {
		out[k] = v
	}
	return out
}

// GetKey returns the named dependency's resolved value.
func (d Deps) GetKey(name string) (any, bool) {
	v, ok := d.values[name]
	return v, ok
}

// ComputeFunc is the user function driving a computed node. The return
// value is either a plain domain value, a depset.Subscriber (push
// source), or a depset.Future (promise-like) — see compute.go for
// classification.
type ComputeFunc func(deps Deps) (any, error)
