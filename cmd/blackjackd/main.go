// blackjackd hosts multi-round blackjack on the local network: a TCP
// game listener, a UDP offer broadcaster, and an optional admin
// endpoint.
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"blackjack/internal/config"
	"blackjack/internal/discovery"
	"blackjack/internal/observability"
	"blackjack/internal/server"
)

func main() {
	var (
		configPath string
		name       string
		addr       string
		adminAddr  string
		debug      bool
	)

	root := &cobra.Command{
		Use:           "blackjackd",
		Short:         "LAN blackjack game server",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServerConfig(configPath)
			if err != nil {
				return err
			}
			if name != "" {
				cfg.Name = name
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if adminAddr != "" {
				cfg.AdminAddr = adminAddr
			}
			if debug {
				cfg.Debug = true
			}
			return run(cfg)
		},
	}

	root.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config")
	root.Flags().StringVar(&name, "name", "", "advertised server name")
	root.Flags().StringVar(&addr, "addr", "", "game listener address (port 0 = ephemeral)")
	root.Flags().StringVar(&adminAddr, "admin", "", "admin HTTP address (empty = disabled)")
	root.Flags().BoolVar(&debug, "debug", false, "debug logging")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg config.ServerConfig) error {
	log := observability.NewLogger("blackjackd", cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp4", cfg.Addr)
	if err != nil {
		return err
	}
	srv := server.New(log, ln)

	adv := discovery.NewAdvertiser(
		log,
		cfg.Name,
		srv.Port(),
		cfg.DiscoveryPort,
		time.Duration(cfg.OfferIntervalMS)*time.Millisecond,
		nil,
	)
	go func() {
		if err := adv.Run(ctx); err != nil {
			log.Error().Err(err).Msg("advertiser exited")
		}
	}()

	if cfg.AdminAddr != "" {
		go func() {
			if err := observability.ServeAdmin(ctx, log, cfg.AdminAddr, cfg.Name); err != nil {
				log.Error().Err(err).Msg("admin endpoint exited")
			}
		}()
	}

	log.Info().
		Str("name", cfg.Name).
		Uint16("tcp_port", srv.Port()).
		Int("discovery_port", cfg.DiscoveryPort).
		Msg("server up")
	return srv.Serve(ctx)
}
