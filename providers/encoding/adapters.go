package encoding

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// registerBuiltinAdapters installs the built-in descriptors named in
// spec.md §6: utf8, json, buffer, binary, array(x), string.fixed(n).
func registerBuiltinAdapters(r *Registry) {
	r.RegisterFactory("utf8", func(args []string, _ func(string) (Adapter, error)) (Adapter, error) {
		return utf8Adapter{}, nil
	})
	r.RegisterFactory("json", func(args []string, _ func(string) (Adapter, error)) (Adapter, error) {
		return jsonAdapter{}, nil
	})
	r.RegisterFactory("buffer", func(args []string, _ func(string) (Adapter, error)) (Adapter, error) {
		return bufferAdapter{}, nil
	})
	r.RegisterFactory("binary", func(args []string, _ func(string) (Adapter, error)) (Adapter, error) {
		return bufferAdapter{}, nil
	})
	r.RegisterFactory("array", newArrayAdapter)
	r.RegisterFactory("string.fixed", newFixedStringAdapter)
}

// utf8Adapter stores a Go string as its raw UTF-8 bytes.
type utf8Adapter struct{}

func (utf8Adapter) Encode(v any) ([]byte, error) {
	switch x := v.(type) {
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	default:
		return nil, fmt.Errorf("encoding: utf8 adapter cannot encode %T", v)
	}
}

func (utf8Adapter) Decode(b []byte) (any, error) {
	return string(b), nil
}

// jsonAdapter round-trips arbitrary JSON-marshalable values. Decode first
// tries a strict json.Unmarshal and, on failure, repairs the input with
// jsonrepair before retrying once — the same repair-then-retry idiom the
// teacher applies to malformed model output.
type jsonAdapter struct{}

func (jsonAdapter) Encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding: json encode: %w", err)
	}
	return b, nil
}

func (jsonAdapter) Decode(b []byte) (any, error) {
	var v any
	if err := json.Unmarshal(b, &v); err == nil {
		return v, nil
	}

	repaired, err := jsonrepair.JSONRepair(string(b))
	if err != nil {
		return nil, fmt.Errorf("encoding: json decode failed and could not be repaired: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &v); err != nil {
		return nil, fmt.Errorf("encoding: json decode failed even after repair: %w", err)
	}
	return v, nil
}

// bufferAdapter passes a raw byte slice straight through.
type bufferAdapter struct{}

func (bufferAdapter) Encode(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("encoding: buffer adapter cannot encode %T", v)
	}
	return b, nil
}

func (bufferAdapter) Decode(b []byte) (any, error) {
	return b, nil
}

// arrayAdapter encodes a []any as a sequence of length-prefixed elements,
// each produced by an inner adapter resolved from the nested descriptor
// (e.g. the "utf8" in "array(utf8)").
type arrayAdapter struct {
	elem Adapter
}

func newArrayAdapter(args []string, resolve func(string) (Adapter, error)) (Adapter, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("encoding: array descriptor requires exactly one element descriptor, got %d", len(args))
	}
	elem, err := resolve(args[0])
	if err != nil {
		return nil, fmt.Errorf("encoding: array element descriptor: %w", err)
	}
	return arrayAdapter{elem: elem}, nil
}

func (a arrayAdapter) Encode(v any) ([]byte, error) {
	elems, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("encoding: array adapter cannot encode %T", v)
	}

	var out []byte
	for i, e := range elems {
		b, err := a.elem.Encode(e)
		if err != nil {
			return nil, fmt.Errorf("encoding: array element %d: %w", i, err)
		}
		var lenPrefix [4]byte
		binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(b)))
		out = append(out, lenPrefix[:]...)
		out = append(out, b...)
	}
	return out, nil
}

func (a arrayAdapter) Decode(b []byte) (any, error) {
	var out []any
	for len(b) > 0 {
		if len(b) < 4 {
			return nil, fmt.Errorf("encoding: array decode: truncated length prefix")
		}
		n := binary.BigEndian.Uint32(b[:4])
		b = b[4:]
		if uint64(len(b)) < uint64(n) {
			return nil, fmt.Errorf("encoding: array decode: truncated element")
		}
		elemBytes := b[:n]
		b = b[n:]

		v, err := a.elem.Decode(elemBytes)
		if err != nil {
			return nil, fmt.Errorf("encoding: array element decode: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

// fixedStringAdapter encodes a string into an exactly-n-byte buffer,
// truncating on encode and trimming trailing NUL padding on decode.
type fixedStringAdapter struct {
	size int
}

func newFixedStringAdapter(args []string, _ func(string) (Adapter, error)) (Adapter, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("encoding: string.fixed descriptor requires exactly one size argument, got %d", len(args))
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("encoding: string.fixed size must be a positive integer, got %q", args[0])
	}
	return fixedStringAdapter{size: n}, nil
}

func (a fixedStringAdapter) Encode(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("encoding: string.fixed adapter cannot encode %T", v)
	}
	buf := make([]byte, a.size)
	copy(buf, s)
	return buf, nil
}

func (a fixedStringAdapter) Decode(b []byte) (any, error) {
	return strings.TrimRight(string(b), "\x00"), nil
}
