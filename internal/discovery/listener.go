package discovery

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"

	"blackjack/internal/protocol"
)

// ErrNoOffer means the single-wait listen elapsed without one valid
// offer arriving.
var ErrNoOffer = errors.New("no offer received")

// Announcement is one deduplicated offer along with where it came from.
type Announcement struct {
	Addr  *net.UDPAddr
	Offer protocol.Offer
}

// Listener receives offer datagrams on the discovery port.
type Listener struct {
	log  zerolog.Logger
	port int
}

// NewListener builds a listener bound to the given UDP port when run;
// a non-positive port falls back to the well-known discovery port.
func NewListener(log zerolog.Logger, port int) *Listener {
	if port <= 0 {
		port = protocol.DiscoveryPort
	}
	return &Listener{
		log:  log.With().Str("component", "discovery").Logger(),
		port: port,
	}
}

func (l *Listener) bind(ctx context.Context) (net.PacketConn, error) {
	lc := net.ListenConfig{Control: controlBroadcast}
	pc, err := lc.ListenPacket(ctx, "udp4", fmt.Sprintf(":%d", l.port))
	if err != nil {
		return nil, fmt.Errorf("binding discovery port %d: %w", l.port, err)
	}
	return pc, nil
}

// WaitForOffer blocks until one valid offer arrives or the timeout
// elapses, returning an ErrNoOffer-wrapped error in the latter case.
// Malformed datagrams are logged and skipped.
func (l *Listener) WaitForOffer(ctx context.Context, timeout time.Duration) (Announcement, error) {
	pc, err := l.bind(ctx)
	if err != nil {
		return Announcement{}, err
	}
	defer pc.Close()
	return l.waitForOffer(pc, timeout)
}

func (l *Listener) waitForOffer(pc net.PacketConn, timeout time.Duration) (Announcement, error) {
	deadline := time.Now().Add(timeout)
	buf := make([]byte, 4096)
	for {
		if err := pc.SetReadDeadline(deadline); err != nil {
			return Announcement{}, err
		}
		n, addr, err := pc.ReadFrom(buf)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				return Announcement{}, fmt.Errorf("%w within %s", ErrNoOffer, timeout)
			}
			return Announcement{}, err
		}
		ann, ok := l.decode(buf[:n], addr)
		if ok {
			return ann, nil
		}
	}
}

// Collect accumulates distinct offers for the length of the window,
// deduplicated by (source IP, advertised port, server name). It returns
// early once max offers are gathered; max <= 0 means unbounded. Short
// read deadlines keep the wall clock bounded by the window regardless
// of datagram timing.
func (l *Listener) Collect(ctx context.Context, window time.Duration, max int) ([]Announcement, error) {
	pc, err := l.bind(ctx)
	if err != nil {
		return nil, err
	}
	defer pc.Close()
	return l.collect(pc, window, max)
}

func (l *Listener) collect(pc net.PacketConn, window time.Duration, max int) ([]Announcement, error) {
	deadline := time.Now().Add(window)
	seen := make(map[string]struct{})
	var found []Announcement
	buf := make([]byte, 4096)
	for time.Now().Before(deadline) {
		if err := pc.SetReadDeadline(deadline); err != nil {
			return found, err
		}
		n, addr, err := pc.ReadFrom(buf)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				break
			}
			return found, err
		}
		ann, ok := l.decode(buf[:n], addr)
		if !ok {
			continue
		}
		key := fmt.Sprintf("%s|%d|%s", ann.Addr.IP, ann.Offer.TCPPort, ann.Offer.ServerName)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		found = append(found, ann)
		if max > 0 && len(found) >= max {
			break
		}
	}
	return found, nil
}

// decode parses one datagram, logging and dropping malformed ones.
func (l *Listener) decode(raw []byte, addr net.Addr) (Announcement, bool) {
	udp, ok := addr.(*net.UDPAddr)
	if !ok {
		return Announcement{}, false
	}
	offer, err := protocol.ParseOffer(raw)
	if err != nil {
		l.log.Warn().
			Err(err).
			Str("from", addr.String()).
			Str("hex", hex.EncodeToString(raw)).
			Msg("dropping malformed datagram")
		return Announcement{}, false
	}
	l.log.Debug().
		Str("from", addr.String()).
		Str("server_name", offer.ServerName).
		Uint16("tcp_port", offer.TCPPort).
		Msg("offer received")
	return Announcement{Addr: udp, Offer: offer}, true
}
