package typeregistry

import "reflect"

// registerBuiltins installs the built-in type tags named in spec.md §6:
// any, number, string, boolean, object, array, function, int, uint,
// int8/16/32/64, uint8/16/32/64, float32/64, buffer, binary.
//
// Validation is a reflect.Kind check, grounded on the same reflect.Kind
// switch idiom the teacher uses to coerce stringly-typed LLM output
// (core/parse.ParseStringAs) — here used in reverse, to classify a concrete
// Go value against a declared tag rather than to parse a string into one.
func registerBuiltins(r *Registry) {
	r.Register("any", func(any) bool { return true })

	r.Register("number", kindValidator(
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
	))
	r.Register("string", kindValidator(reflect.String))
	r.Register("boolean", kindValidator(reflect.Bool))
	r.Register("object", kindValidator(reflect.Map, reflect.Struct, reflect.Ptr))
	r.Register("array", kindValidator(reflect.Slice, reflect.Array))
	r.Register("function", kindValidator(reflect.Func))

	r.Register("int", kindValidator(reflect.Int))
	r.Register("uint", kindValidator(reflect.Uint))
	r.Register("int8", kindValidator(reflect.Int8))
	r.Register("int16", kindValidator(reflect.Int16))
	r.Register("int32", kindValidator(reflect.Int32))
	r.Register("int64", kindValidator(reflect.Int64))
	r.Register("uint8", kindValidator(reflect.Uint8))
	r.Register("uint16", kindValidator(reflect.Uint16))
	r.Register("uint32", kindValidator(reflect.Uint32))
	r.Register("uint64", kindValidator(reflect.Uint64))
	r.Register("float32", kindValidator(reflect.Float32))
	r.Register("float64", kindValidator(reflect.Float64))

	// buffer/binary: a byte slice, or any value whose underlying kind is a
	// slice of uint8 (covers named []byte types).
	r.Register("buffer", bufferValidator)
	r.Register("binary", bufferValidator)
}

func kindValidator(kinds ...reflect.Kind) Validator {
	allowed := make(map[reflect.Kind]bool, len(kinds))
	for _, k := range kinds {
		allowed[k] = true
	}
	return func(v any) bool {
		if v == nil {
			return false
		}
		return allowed[reflect.TypeOf(v).Kind()]
	}
}

func bufferValidator(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}
