package server

import (
	"errors"
	"net"

	"github.com/rs/zerolog"

	"blackjack/internal/cards"
	"blackjack/internal/observability"
	"blackjack/internal/protocol"
)

// session owns everything mutable for one connection: the deck, the
// round counter, and the stream itself. Nothing here is shared, so no
// locking is needed.
type session struct {
	log  zerolog.Logger
	conn net.Conn
	deck *cards.Deck
}

func newSession(log zerolog.Logger, conn net.Conn) *session {
	return &session{
		log:  log,
		conn: conn,
		deck: cards.NewDeck(),
	}
}

// run reads the handshake and plays the requested number of rounds
// sequentially against the session's deck. The first protocol or
// connection error ends the session.
func (s *session) run() error {
	raw, err := protocol.ReadExact(s.conn, protocol.RequestLen)
	if err != nil {
		return err
	}
	req, err := protocol.ParseRequest(raw)
	if err != nil {
		return err
	}
	s.log.Info().
		Str("team", req.TeamName).
		Uint8("rounds", req.Rounds).
		Msg("handshake received")

	for i := 0; i < int(req.Rounds); i++ {
		r := newRound(s.log.With().Int("round", i+1).Logger(), s.deck, s.conn)
		outcome, err := r.play()
		if err != nil {
			return err
		}
		observability.RecordRound(outcome.String())
	}
	return nil
}

// errorKind buckets a session failure for metrics and logs.
func errorKind(err error) string {
	var ne net.Error
	switch {
	case errors.Is(err, protocol.ErrProtocol):
		return "protocol"
	case errors.Is(err, protocol.ErrPeerClosed):
		return "connection"
	case errors.As(err, &ne) && ne.Timeout():
		return "timeout"
	default:
		return "other"
	}
}
