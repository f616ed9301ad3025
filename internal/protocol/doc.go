// Package protocol implements the fixed-length binary wire format shared
// by the discovery datagrams and the game stream. Every message starts
// with a 4-byte magic cookie and a 1-byte type tag; all multi-byte
// integers are big-endian. This package is the only place wire bytes are
// built or parsed.
package protocol
