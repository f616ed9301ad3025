// blackjack is the interactive client: it discovers servers on the
// local network and plays rounds at the terminal.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"blackjack/internal/config"
)

var (
	configPath string
	debugFlag  bool
)

func main() {
	root := &cobra.Command{
		Use:          "blackjack",
		Short:        "LAN blackjack client",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to TOML config")
	root.PersistentFlags().BoolVar(&debugFlag, "debug", false, "debug logging")

	root.AddCommand(newDiscoverCmd())
	root.AddCommand(newPlayCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (config.ClientConfig, error) {
	cfg, err := config.LoadClientConfig(configPath)
	if err != nil {
		return config.ClientConfig{}, err
	}
	if debugFlag {
		cfg.Debug = true
	}
	return cfg, nil
}
