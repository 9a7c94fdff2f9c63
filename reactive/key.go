package reactive

import (
	"encoding/hex"

	"github.com/dagify-go/dagify/providers/keygen"
)

// Key is a node's 32-byte opaque identity. The zero Key is never assigned
// by a Generator and should be treated as "no key".
type Key [32]byte

// String returns the lowercase hex encoding of k, used wherever the engine
// needs a hashable or printable view of a key (graph adjacency sets,
// cycle-detection visited sets, keyed dependency records).
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// IsZero reports whether k is the zero key.
func (k Key) IsZero() bool {
	return k == Key{}
}

// NewKey generates a fresh Key using the default generator.
func NewKey() Key {
	return Key(keygen.Default())
}
