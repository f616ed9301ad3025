// Package config loads and validates the TOML configuration for the
// server and client binaries.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"blackjack/internal/protocol"
)

// Defaults shared by both binaries.
const (
	DefaultServerName = "BlackijeckyServer"
	DefaultTeamName   = "MITSY MITSY MREOW MEOW =^.^="
)

// ServerConfig drives blackjackd.
type ServerConfig struct {
	Name string `toml:"name"`
	// Addr is the game listener bind address. Port 0 lets the OS pick;
	// the assigned port is what gets advertised.
	Addr          string `toml:"addr"`
	AdminAddr     string `toml:"admin_addr"`
	DiscoveryPort int    `toml:"discovery_port"`
	// OfferIntervalMS is the broadcast cadence in milliseconds.
	OfferIntervalMS int  `toml:"offer_interval_ms"`
	Debug           bool `toml:"debug"`
}

// ClientConfig drives the blackjack client.
type ClientConfig struct {
	TeamName      string `toml:"team_name"`
	Rounds        int    `toml:"rounds"`
	DiscoveryPort int    `toml:"discovery_port"`
	// DiscoverTimeoutMS bounds the single-wait discovery listen.
	DiscoverTimeoutMS int  `toml:"discover_timeout_ms"`
	IOTimeoutMS       int  `toml:"io_timeout_ms"`
	Debug             bool `toml:"debug"`
}

// LoadServerConfig reads the server config, applying defaults for
// missing fields. An empty path yields pure defaults.
func LoadServerConfig(path string) (ServerConfig, error) {
	var cfg ServerConfig
	if path != "" {
		if err := loadToml(path, &cfg); err != nil {
			return ServerConfig{}, err
		}
	}
	if cfg.Name == "" {
		cfg.Name = DefaultServerName
	}
	if cfg.Addr == "" {
		cfg.Addr = ":0"
	}
	if cfg.DiscoveryPort == 0 {
		cfg.DiscoveryPort = protocol.DiscoveryPort
	}
	if cfg.OfferIntervalMS == 0 {
		cfg.OfferIntervalMS = 1000
	}
	if err := ValidateServerConfig(cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// LoadClientConfig reads the client config, applying defaults for
// missing fields. An empty path yields pure defaults.
func LoadClientConfig(path string) (ClientConfig, error) {
	var cfg ClientConfig
	if path != "" {
		if err := loadToml(path, &cfg); err != nil {
			return ClientConfig{}, err
		}
	}
	if cfg.TeamName == "" {
		cfg.TeamName = DefaultTeamName
	}
	if cfg.Rounds == 0 {
		cfg.Rounds = 1
	}
	if cfg.DiscoveryPort == 0 {
		cfg.DiscoveryPort = protocol.DiscoveryPort
	}
	if cfg.DiscoverTimeoutMS == 0 {
		cfg.DiscoverTimeoutMS = 10_000
	}
	if cfg.IOTimeoutMS == 0 {
		cfg.IOTimeoutMS = 10_000
	}
	if err := ValidateClientConfig(cfg); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

// ValidateServerConfig rejects configs the server cannot run with.
func ValidateServerConfig(cfg ServerConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("server config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("server config missing addr")
	}
	if cfg.DiscoveryPort < 1 || cfg.DiscoveryPort > 65535 {
		return fmt.Errorf("server config discovery_port out of range: %d", cfg.DiscoveryPort)
	}
	if cfg.OfferIntervalMS < 0 {
		return fmt.Errorf("server config offer_interval_ms negative: %d", cfg.OfferIntervalMS)
	}
	return nil
}

// ValidateClientConfig rejects configs the client cannot run with.
func ValidateClientConfig(cfg ClientConfig) error {
	if strings.TrimSpace(cfg.TeamName) == "" {
		return fmt.Errorf("client config missing team_name")
	}
	if cfg.Rounds < 1 || cfg.Rounds > 255 {
		return fmt.Errorf("client config rounds out of range: %d", cfg.Rounds)
	}
	if cfg.DiscoveryPort < 1 || cfg.DiscoveryPort > 65535 {
		return fmt.Errorf("client config discovery_port out of range: %d", cfg.DiscoveryPort)
	}
	return nil
}
