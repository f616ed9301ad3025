// Package client dials a discovered server and mirrors the round
// protocol from the receiving side.
package client

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"

	"blackjack/internal/protocol"
)

// DefaultIOTimeout bounds the connect and every blocking read.
const DefaultIOTimeout = 10 * time.Second

// Options tune the stream timeouts.
type Options struct {
	DialTimeout time.Duration
	IOTimeout   time.Duration
}

func (o *Options) fill() {
	if o.DialTimeout <= 0 {
		o.DialTimeout = DefaultIOTimeout
	}
	if o.IOTimeout <= 0 {
		o.IOTimeout = DefaultIOTimeout
	}
}

// Session is one game connection. It is not safe for concurrent use;
// the protocol is strictly sequential anyway.
type Session struct {
	log       zerolog.Logger
	conn      net.Conn
	ioTimeout time.Duration
}

// Dial connects to the game port within the dial timeout.
func Dial(ctx context.Context, log zerolog.Logger, addr string, opts Options) (*Session, error) {
	opts.fill()
	d := net.Dialer{Timeout: opts.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	return &Session{
		log:       log.With().Str("component", "client").Str("server", addr).Logger(),
		conn:      conn,
		ioTimeout: opts.IOTimeout,
	}, nil
}

// Handshake sends the one-per-connection request declaring the team
// name and how many rounds to play.
func (s *Session) Handshake(teamName string, rounds uint8) error {
	raw := protocol.BuildRequest(rounds, teamName)
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.ioTimeout)); err != nil {
		return err
	}
	if _, err := s.conn.Write(raw); err != nil {
		return err
	}
	s.log.Info().Str("team", teamName).Uint8("rounds", rounds).Msg("handshake sent")
	return nil
}

func (s *Session) Close() error {
	return s.conn.Close()
}

// readCard blocks for the next server payload, bounded by the I/O
// timeout.
func (s *Session) readCard() (protocol.CardUpdate, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(s.ioTimeout)); err != nil {
		return protocol.CardUpdate{}, err
	}
	raw, err := protocol.ReadExact(s.conn, protocol.CardLen)
	if err != nil {
		return protocol.CardUpdate{}, err
	}
	return protocol.ParseCard(raw)
}

func (s *Session) sendDecision(d protocol.Decision) error {
	raw, err := protocol.BuildDecision(d)
	if err != nil {
		return err
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.ioTimeout)); err != nil {
		return err
	}
	_, err = s.conn.Write(raw)
	return err
}
