package server

import (
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blackjack/internal/protocol"
)

func TestSessionRejectsMalformedHandshake(t *testing.T) {
	serverEnd, peer := net.Pipe()
	defer serverEnd.Close()
	defer peer.Close()

	errs := make(chan error, 1)
	go func() {
		errs <- newSession(zerolog.Nop(), serverEnd).run()
	}()

	garbage := make([]byte, protocol.RequestLen)
	_, err := peer.Write(garbage)
	require.NoError(t, err)

	assert.ErrorIs(t, <-errs, protocol.ErrProtocol)
}

func TestSessionHandshakeAcrossPartialWrites(t *testing.T) {
	serverEnd, peer := net.Pipe()
	defer serverEnd.Close()
	defer peer.Close()

	errs := make(chan error, 1)
	go func() {
		errs <- newSession(zerolog.Nop(), serverEnd).run()
	}()

	// Zero rounds is a valid request: the session completes without
	// dealing a single card.
	raw := protocol.BuildRequest(0, "splitters")
	for _, chunk := range [][]byte{raw[:7], raw[7:20], raw[20:]} {
		_, err := peer.Write(chunk)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	assert.NoError(t, <-errs)
}

func TestSessionSurfacesEarlyDisconnect(t *testing.T) {
	serverEnd, peer := net.Pipe()
	defer serverEnd.Close()

	errs := make(chan error, 1)
	go func() {
		errs <- newSession(zerolog.Nop(), serverEnd).run()
	}()

	require.NoError(t, peer.Close())
	assert.ErrorIs(t, <-errs, protocol.ErrPeerClosed)
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "protocol", errorKind(protocol.ErrProtocol))
	assert.Equal(t, "connection", errorKind(protocol.ErrPeerClosed))
	assert.Equal(t, "timeout", errorKind(timeoutErr{}))
	assert.Equal(t, "other", errorKind(errors.New("boom")))
	assert.Equal(t, "other", errorKind(os.ErrInvalid))
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "deadline exceeded" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }
