// Package netsync describes the wire handshake two peers exchange before
// replicating a node's value over an external transport, and the
// mode-pair table that decides which side sends and which receives.
// Framing the handshake onto an actual socket or multiplex RPC is left to
// the caller — this package only encodes/decodes the handshake frame and
// interprets (local, remote) mode pairs.
package netsync
