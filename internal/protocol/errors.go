package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrProtocol marks any malformed or out-of-domain wire message.
	ErrProtocol = errors.New("protocol violation")
	// ErrPeerClosed marks a zero-length read: the peer went away
	// mid-message.
	ErrPeerClosed = errors.New("peer closed connection")
)

func violation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrProtocol, fmt.Sprintf(format, args...))
}
