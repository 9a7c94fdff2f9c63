package keygen

import (
	"context"
	"crypto/rand"
)

// Generator produces a fresh 32-byte node key. The zero value of the
// returned array is never a valid key; callers that see it back from a
// Generator should treat it as a bug in that Generator.
type Generator func() [32]byte

// Default generates keys from crypto/rand. A read failure (practically
// unreachable on supported platforms) panics rather than silently handing
// out a zero key, since a zero key colliding across nodes would corrupt
// graph identity.
var Default Generator = func() [32]byte {
	var k [32]byte
	if _, err := rand.Read(k[:]); err != nil {
		panic("keygen: crypto/rand read failed: " + err.Error())
	}
	return k
}

type contextKey struct{}

// With returns a context carrying gen as the active Generator, retrievable
// with From.
func With(ctx context.Context, gen Generator) context.Context {
	return context.WithValue(ctx, contextKey{}, gen)
}

// From returns the Generator stored in ctx, or Default if none was set.
func From(ctx context.Context) Generator {
	if gen, ok := ctx.Value(contextKey{}).(Generator); ok {
		return gen
	}
	return Default
}
