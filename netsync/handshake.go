package netsync

import (
	"encoding/binary"
	"fmt"
)

// Protocol is the interop version this handshake frame targets.
const Protocol = "dagify/1.2"

// Mode is a peer's declared role for the synced node.
type Mode string

const (
	ModeSink      Mode = "sink"
	ModeSource    Mode = "source"
	ModeTransform Mode = "transform"
)

// DefaultMode is used when a peer does not declare one.
const DefaultMode = ModeTransform

func (m Mode) valid() bool {
	switch m {
	case ModeSink, ModeSource, ModeTransform:
		return true
	default:
		return false
	}
}

// HandshakeFrame is the preencoded frame one peer sends the other before
// replication begins.
type HandshakeFrame struct {
	IsOwner bool
	// Proof and Hash are only meaningful (and only present on the wire)
	// when IsOwner is true.
	Proof [8]byte
	Hash  [32]byte
	// ValueEncoding names the providers/encoding descriptor the owner
	// expects values to be framed with; empty means null (no framing,
	// raw values only).
	ValueEncoding string
	Mode          Mode
}

// MarshalBinary encodes the frame in bit-exact field order: bool isOwner;
// if isOwner, fixed-64 proof then fixed-32 hash; length-prefixed utf8
// valueEncoding; length-prefixed utf8 mode.
func (f HandshakeFrame) MarshalBinary() ([]byte, error) {
	mode := f.Mode
	if mode == "" {
		mode = DefaultMode
	}
	if !mode.valid() {
		return nil, fmt.Errorf("netsync: invalid mode %q", f.Mode)
	}

	out := make([]byte, 0, 1+8+32+4+len(f.ValueEncoding)+4+len(mode))
	if f.IsOwner {
		out = append(out, 1)
		out = append(out, f.Proof[:]...)
		out = append(out, f.Hash[:]...)
	} else {
		out = append(out, 0)
	}
	out = appendUTF8(out, f.ValueEncoding)
	out = appendUTF8(out, string(mode))
	return out, nil
}

// UnmarshalBinary decodes a frame previously produced by MarshalBinary.
func (f *HandshakeFrame) UnmarshalBinary(b []byte) error {
	if len(b) < 1 {
		return fmt.Errorf("netsync: truncated frame: missing isOwner byte")
	}
	isOwner := b[0] != 0
	off := 1

	var proof [8]byte
	var hash [32]byte
	if isOwner {
		if len(b) < off+8+32 {
			return fmt.Errorf("netsync: truncated frame: missing owner proof/hash")
		}
		copy(proof[:], b[off:off+8])
		off += 8
		copy(hash[:], b[off:off+32])
		off += 32
	}

	valueEncoding, off, err := readUTF8(b, off)
	if err != nil {
		return fmt.Errorf("netsync: valueEncoding: %w", err)
	}
	modeStr, off, err := readUTF8(b, off)
	if err != nil {
		return fmt.Errorf("netsync: mode: %w", err)
	}
	if off != len(b) {
		return fmt.Errorf("netsync: trailing %d unexpected bytes", len(b)-off)
	}

	mode := Mode(modeStr)
	if mode == "" {
		mode = DefaultMode
	}
	if !mode.valid() {
		return fmt.Errorf("netsync: invalid mode %q", modeStr)
	}

	f.IsOwner = isOwner
	f.Proof = proof
	f.Hash = hash
	f.ValueEncoding = valueEncoding
	f.Mode = mode
	return nil
}

func appendUTF8(out []byte, s string) []byte {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(s)))
	out = append(out, length[:]...)
	return append(out, s...)
}

func readUTF8(b []byte, off int) (string, int, error) {
	if len(b) < off+4 {
		return "", off, fmt.Errorf("truncated length prefix")
	}
	n := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if len(b) < off+n {
		return "", off, fmt.Errorf("truncated string body")
	}
	return string(b[off : off+n]), off + n, nil
}
