// Package server accepts game connections and runs one blackjack
// session per connection.
package server

import (
	"context"
	"net"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"blackjack/internal/observability"
)

// Server owns the passive game listener. All mutable game state lives
// in per-connection sessions; the server itself only accepts.
type Server struct {
	log zerolog.Logger
	ln  net.Listener
}

// New wraps an already-bound listener. Binding is left to the caller so
// the advertised port is known before the accept loop starts.
func New(log zerolog.Logger, ln net.Listener) *Server {
	return &Server{
		log: log.With().Str("component", "server").Logger(),
		ln:  ln,
	}
}

// Port returns the bound TCP port.
func (s *Server) Port() uint16 {
	return uint16(s.ln.Addr().(*net.TCPAddr).Port)
}

// Serve accepts connections until ctx is cancelled, spawning one
// goroutine per session. Session failures never touch the listener or
// other sessions.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.ln.Close()
	}()

	s.log.Info().Str("addr", s.ln.Addr().String()).Msg("game listener up")
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	id := uuid.NewString()
	log := s.log.With().
		Str("session", id).
		Str("remote", conn.RemoteAddr().String()).
		Logger()

	observability.RecordSessionStarted()
	defer observability.RecordSessionEnded()
	log.Info().Msg("client connected")

	sess := newSession(log, conn)
	if err := sess.run(); err != nil {
		kind := errorKind(err)
		observability.RecordSessionFailed(kind)
		log.Warn().Err(err).Str("kind", kind).Msg("session aborted")
		return
	}
	log.Info().Msg("session complete")
}
