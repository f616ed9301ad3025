package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"blackjack/internal/client"
	"blackjack/internal/discovery"
	"blackjack/internal/observability"
)

func newPlayCmd() *cobra.Command {
	var (
		addr   string
		team   string
		rounds int
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Discover a server (or use --addr) and play rounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if team != "" {
				cfg.TeamName = team
			}
			if rounds > 0 {
				cfg.Rounds = rounds
			}
			if cfg.Rounds > 255 {
				return fmt.Errorf("rounds out of range: %d", cfg.Rounds)
			}
			log := observability.NewLogger("blackjack", cfg.Debug)
			ctx := context.Background()

			target := addr
			if target == "" {
				listener := discovery.NewListener(log, cfg.DiscoveryPort)
				timeout := time.Duration(cfg.DiscoverTimeoutMS) * time.Millisecond
				spinner, _ := pterm.DefaultSpinner.Start("Looking for a server...")
				ann, err := listener.WaitForOffer(ctx, timeout)
				if err != nil {
					if errors.Is(err, discovery.ErrNoOffer) {
						spinner.Fail("No servers found.")
						return nil
					}
					spinner.Fail(err.Error())
					return err
				}
				spinner.Success(fmt.Sprintf("Found %q at %s", ann.Offer.ServerName, ann.Addr.IP))
				target = net.JoinHostPort(ann.Addr.IP.String(), strconv.Itoa(int(ann.Offer.TCPPort)))
			}

			sess, err := client.Dial(ctx, log, target, client.Options{
				IOTimeout: time.Duration(cfg.IOTimeoutMS) * time.Millisecond,
			})
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.Handshake(cfg.TeamName, uint8(cfg.Rounds)); err != nil {
				return err
			}

			table := newTermTable()
			tally, err := sess.Play(cfg.Rounds, table)
			if err != nil {
				return err
			}
			pterm.DefaultSection.Println("Session over")
			pterm.Info.Printfln("Wins: %d  Losses: %d  Ties: %d", tally.Wins, tally.Losses, tally.Ties)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "server host:port, skipping discovery")
	cmd.Flags().StringVar(&team, "team", "", "team name sent in the handshake")
	cmd.Flags().IntVar(&rounds, "rounds", 0, "rounds to request (1-255)")
	return cmd
}
