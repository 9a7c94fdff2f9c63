package encoding

import (
	"errors"
	"testing"
)

func TestRegistry_ResolveUnknownDescriptor(t *testing.T) {
	r := New()
	if _, err := r.Resolve("nonexistent"); err == nil {
		t.Fatal("expected an error resolving an unknown descriptor")
	}
}

func TestUTF8Adapter_RoundTrip(t *testing.T) {
	r := New()
	a, err := r.Resolve("utf8")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	b, err := a.Encode("hello")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	v, err := a.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if v != "hello" {
		t.Fatalf("round trip = %v, want %q", v, "hello")
	}
}

func TestJSONAdapter_RoundTrip(t *testing.T) {
	r := New()
	a, err := r.Resolve("json")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	b, err := a.Encode(map[string]any{"k": "v"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	v, err := a.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok || m["k"] != "v" {
		t.Fatalf("round trip = %v, want map[k:v]", v)
	}
}

func TestJSONAdapter_DecodeRepairsMalformedInput(t *testing.T) {
	r := New()
	a, err := r.Resolve("json")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Missing closing brace and a trailing comma: not valid JSON on its
	// own, but jsonrepair.JSONRepair can recover the intended object.
	v, err := a.Decode([]byte(`{"k": "v",`))
	if err != nil {
		t.Fatalf("Decode with repair: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok || m["k"] != "v" {
		t.Fatalf("repaired decode = %v, want map[k:v]", v)
	}
}

func TestArrayAdapter_RoundTrip(t *testing.T) {
	r := New()
	a, err := r.Resolve("array(utf8)")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	b, err := a.Encode([]any{"ab", "cde", ""})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	v, err := a.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	elems, ok := v.([]any)
	if !ok || len(elems) != 3 || elems[0] != "ab" || elems[1] != "cde" || elems[2] != "" {
		t.Fatalf("round trip = %v, want [ab cde ]", v)
	}
}

func TestFixedStringAdapter_PadsAndTrimsPadding(t *testing.T) {
	r := New()
	a, err := r.Resolve("string.fixed(4)")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	b, err := a.Encode("hi")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(b) != 4 {
		t.Fatalf("encoded length = %d, want 4", len(b))
	}
	v, err := a.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if v != "hi" {
		t.Fatalf("round trip = %v, want %q", v, "hi")
	}
}

func TestFixedStringAdapter_RejectsNonPositiveSize(t *testing.T) {
	r := New()
	if _, err := r.Resolve("string.fixed(0)"); err == nil {
		t.Fatal("expected an error for a non-positive fixed size")
	}
}

func TestBufferAdapter_RejectsWrongType(t *testing.T) {
	r := New()
	a, err := r.Resolve("buffer")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, err := a.Encode("not bytes"); err == nil {
		t.Fatal("expected an error encoding a non-[]byte value")
	}
}

func TestRegistry_RegisterFactoryOverridesDescriptor(t *testing.T) {
	r := New()
	want := errors.New("boom")
	r.RegisterFactory("utf8", func(args []string, resolve func(string) (Adapter, error)) (Adapter, error) {
		return nil, want
	})
	if _, err := r.Resolve("utf8"); !errors.Is(err, want) {
		t.Fatalf("Resolve after override = %v, want %v", err, want)
	}
}
