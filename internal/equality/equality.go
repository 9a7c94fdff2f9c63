package equality

import "reflect"

// Mode selects the comparator a node uses before emitting a new value.
type Mode int

const (
	// Deep performs a recursive, cycle-tolerant structural comparison. This
	// is the default mode for computed and stateful nodes.
	Deep Mode = iota
	// Shallow compares only the top-level keys/elements of maps, slices, and
	// structs; nested values are compared by reference.
	Shallow
	// Reference compares by identity (==) for comparable kinds, and by
	// pointer/slice/map header identity otherwise.
	Reference
)

// Equal reports whether a and b are equivalent under the given mode.
func Equal(mode Mode, a, b any) bool {
	switch mode {
	case Reference:
		return referenceEqual(a, b)
	case Shallow:
		return shallowEqual(a, b)
	default:
		return deepEqual(a, b, make(map[visitedPair]bool))
	}
}

func referenceEqual(a, b any) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if !av.IsValid() || !bv.IsValid() {
		return av.IsValid() == bv.IsValid()
	}
	if av.Type() != bv.Type() {
		return false
	}
	switch av.Kind() {
	case reflect.Ptr, reflect.Chan, reflect.Func:
		return av.Pointer() == bv.Pointer()
	case reflect.Slice:
		return av.Pointer() == bv.Pointer() && av.Len() == bv.Len()
	case reflect.Map:
		return av.Pointer() == bv.Pointer()
	default:
		if av.Comparable() {
			return a == b
		}
		return false
	}
}

// shallowEqual compares one level deep: for maps/slices/arrays/structs, each
// top-level element/field must be == (or reference-equal for non-comparable
// kinds); for everything else it degrades to referenceEqual.
func shallowEqual(a, b any) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if !av.IsValid() || !bv.IsValid() {
		return av.IsValid() == bv.IsValid()
	}
	if av.Type() != bv.Type() {
		return false
	}

	switch av.Kind() {
	case reflect.Map:
		if av.Len() != bv.Len() {
			return false
		}
		for _, key := range av.MapKeys() {
			bvVal := bv.MapIndex(key)
			if !bvVal.IsValid() {
				return false
			}
			if !referenceEqual(av.MapIndex(key).Interface(), bvVal.Interface()) {
				return false
			}
		}
		return true
	case reflect.Slice, reflect.Array:
		if av.Len() != bv.Len() {
			return false
		}
		for i := 0; i < av.Len(); i++ {
			if !referenceEqual(av.Index(i).Interface(), bv.Index(i).Interface()) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < av.NumField(); i++ {
			if !referenceEqual(av.Field(i).Interface(), bv.Field(i).Interface()) {
				return false
			}
		}
		return true
	case reflect.Ptr:
		if av.IsNil() || bv.IsNil() {
			return av.IsNil() == bv.IsNil()
		}
		return shallowEqual(av.Elem().Interface(), bv.Elem().Interface())
	default:
		return referenceEqual(a, b)
	}
}

// visitedPair identity-keys a pair of pointer-like values under comparison,
// so deepEqual terminates on self-referential structures instead of
// recursing forever.
type visitedPair struct {
	a, b uintptr
}

func deepEqual(a, b any, seen map[visitedPair]bool) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if !av.IsValid() || !bv.IsValid() {
		return av.IsValid() == bv.IsValid()
	}
	return deepEqualValues(av, bv, seen)
}

func deepEqualValues(av, bv reflect.Value, seen map[visitedPair]bool) bool {
	if av.Type() != bv.Type() {
		return false
	}

	switch av.Kind() {
	case reflect.Ptr:
		if av.IsNil() || bv.IsNil() {
			return av.IsNil() == bv.IsNil()
		}
		if av.Pointer() == bv.Pointer() {
			return true
		}
		pair := visitedPair{av.Pointer(), bv.Pointer()}
		if seen[pair] {
			return true
		}
		seen[pair] = true
		return deepEqualValues(av.Elem(), bv.Elem(), seen)

	case reflect.Map:
		if av.IsNil() != bv.IsNil() {
			return false
		}
		if av.Len() != bv.Len() {
			return false
		}
		if av.Pointer() == bv.Pointer() {
			return true
		}
		pair := visitedPair{av.Pointer(), bv.Pointer()}
		if seen[pair] {
			return true
		}
		seen[pair] = true
		for _, key := range av.MapKeys() {
			bvVal := bv.MapIndex(key)
			if !bvVal.IsValid() {
				return false
			}
			if !deepEqualValues(av.MapIndex(key), bvVal, seen) {
				return false
			}
		}
		return true

	case reflect.Slice:
		if av.IsNil() != bv.IsNil() {
			return false
		}
		if av.Len() != bv.Len() {
			return false
		}
		if av.Pointer() == bv.Pointer() {
			return true
		}
		pair := visitedPair{av.Pointer(), bv.Pointer()}
		if seen[pair] {
			return true
		}
		seen[pair] = true
		for i := 0; i < av.Len(); i++ {
			if !deepEqualValues(av.Index(i), bv.Index(i), seen) {
				return false
			}
		}
		return true

	case reflect.Array:
		for i := 0; i < av.Len(); i++ {
			if !deepEqualValues(av.Index(i), bv.Index(i), seen) {
				return false
			}
		}
		return true

	case reflect.Struct:
		for i := 0; i < av.NumField(); i++ {
			if !deepEqualValues(av.Field(i), bv.Field(i), seen) {
				return false
			}
		}
		return true

	case reflect.Interface:
		if av.IsNil() || bv.IsNil() {
			return av.IsNil() == bv.IsNil()
		}
		return deepEqualValues(av.Elem(), bv.Elem(), seen)

	case reflect.Func, reflect.Chan:
		return av.IsNil() && bv.IsNil()

	default:
		if av.Comparable() {
			return av.Equal(bv)
		}
		return false
	}
}

// Snapshot produces an independent structural clone of v suitable for
// comparing against a future value even if the caller mutates v in place
// afterward. Reference-mode callers should skip Snapshot entirely (identity
// comparison needs no clone); Snapshot exists for Shallow and Deep modes.
func Snapshot(v any) any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil
	}
	return clone(rv, make(map[uintptr]reflect.Value)).Interface()
}

func clone(v reflect.Value, seen map[uintptr]reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return v
		}
		if existing, ok := seen[v.Pointer()]; ok {
			return existing
		}
		cloned := reflect.New(v.Type().Elem())
		seen[v.Pointer()] = cloned
		cloned.Elem().Set(clone(v.Elem(), seen))
		return cloned

	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		inner := clone(v.Elem(), seen)
		out := reflect.New(v.Type()).Elem()
		out.Set(inner)
		return out

	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		for _, key := range v.MapKeys() {
			out.SetMapIndex(key, clone(v.MapIndex(key), seen))
		}
		return out

	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(clone(v.Index(i), seen))
		}
		return out

	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(clone(v.Index(i), seen))
		}
		return out

	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		if v.CanInterface() {
			out.Set(v)
		}
		for i := 0; i < v.NumField(); i++ {
			field := out.Field(i)
			if !field.CanSet() {
				// Unexported field: copy the raw bits, no deep recursion
				// possible without unsafe; this still detaches top-level
				// slice/map headers of exported sibling fields.
				continue
			}
			field.Set(clone(v.Field(i), seen))
		}
		return out

	default:
		return v
	}
}
