// Package discovery implements the UDP offer broadcast on the server
// side and the offer listener on the client side.
package discovery

import (
	"context"
	"encoding/hex"
	"net"
	"time"

	"github.com/rs/zerolog"

	"blackjack/internal/observability"
	"blackjack/internal/protocol"
)

// DefaultOfferInterval is the pause between consecutive offer sends.
const DefaultOfferInterval = time.Second

// Advertiser periodically broadcasts an offer datagram announcing the
// server name and game port until its context is cancelled.
type Advertiser struct {
	log      zerolog.Logger
	name     string
	tcpPort  uint16
	port     int
	interval time.Duration
	route    RouteFunc
}

// NewAdvertiser builds an advertiser for the given server name and game
// TCP port. A nil route function falls back to DefaultRoute, and a
// non-positive interval falls back to DefaultOfferInterval. discoveryPort
// is the UDP port clients listen on.
func NewAdvertiser(log zerolog.Logger, name string, tcpPort uint16, discoveryPort int, interval time.Duration, route RouteFunc) *Advertiser {
	if route == nil {
		route = DefaultRoute
	}
	if interval <= 0 {
		interval = DefaultOfferInterval
	}
	if discoveryPort <= 0 {
		discoveryPort = protocol.DiscoveryPort
	}
	return &Advertiser{
		log:      log.With().Str("component", "advertiser").Logger(),
		name:     name,
		tcpPort:  tcpPort,
		port:     discoveryPort,
		interval: interval,
		route:    route,
	}
}

// Run broadcasts one offer per interval until ctx is cancelled. A
// missing broadcast route is non-fatal: the server stays up but
// undiscoverable, and Run returns nil after logging. Individual send
// failures are logged and retried at the next tick.
func (a *Advertiser) Run(ctx context.Context) error {
	route, err := a.route()
	if err != nil {
		a.log.Warn().Err(err).Msg("no broadcast route, offers disabled")
		return nil
	}

	lc := net.ListenConfig{Control: controlBroadcast}
	pc, err := lc.ListenPacket(ctx, "udp4", net.JoinHostPort(route.Local.String(), "0"))
	if err != nil {
		a.log.Warn().Err(err).Msg("broadcast socket unavailable, offers disabled")
		return nil
	}
	defer pc.Close()

	pkt := protocol.BuildOffer(a.tcpPort, a.name)
	dest := &net.UDPAddr{IP: route.Broadcast, Port: a.port}

	a.log.Info().
		Str("route", route.String()).
		Str("dest", dest.String()).
		Str("server_name", a.name).
		Uint16("tcp_port", a.tcpPort).
		Msg("broadcasting offers")

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		if _, err := pc.WriteTo(pkt, dest); err != nil {
			a.log.Warn().Err(err).Str("dest", dest.String()).Msg("offer send failed")
		} else {
			observability.RecordOfferSent()
			a.log.Debug().
				Str("dest", dest.String()).
				Str("hex", hex.EncodeToString(pkt)).
				Msg("offer sent")
		}
		select {
		case <-ctx.Done():
			a.log.Info().Msg("advertiser stopped")
			return nil
		case <-ticker.C:
		}
	}
}
