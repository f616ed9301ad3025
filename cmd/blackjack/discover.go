package main

import (
	"context"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"blackjack/internal/discovery"
	"blackjack/internal/observability"
)

func newDiscoverCmd() *cobra.Command {
	var (
		windowSec int
		max       int
	)
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Collect server offers for a fixed window and list them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := observability.NewLogger("blackjack", cfg.Debug)

			listener := discovery.NewListener(log, cfg.DiscoveryPort)
			window := time.Duration(windowSec) * time.Second
			spinner, _ := pterm.DefaultSpinner.Start("Listening for servers...")
			found, err := listener.Collect(context.Background(), window, max)
			if err != nil {
				spinner.Fail(err.Error())
				return err
			}
			spinner.Stop()

			if len(found) == 0 {
				pterm.Warning.Println("No servers found.")
				return nil
			}
			rows := pterm.TableData{{"Server", "Address", "Game port"}}
			for _, ann := range found {
				rows = append(rows, []string{
					ann.Offer.ServerName,
					ann.Addr.IP.String(),
					strconv.Itoa(int(ann.Offer.TCPPort)),
				})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
		},
	}
	cmd.Flags().IntVar(&windowSec, "window", 5, "collection window in seconds")
	cmd.Flags().IntVar(&max, "max", 0, "stop after this many servers (0 = no cap)")
	return cmd
}
