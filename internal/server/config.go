package server

import (
	"fmt"
	"time"

	"github.com/lox/liarsbar/internal/deck"
	"github.com/lox/liarsbar/internal/game"
	"github.com/lox/liarsbar/internal/hclutil"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Rules  RulesConfig    `hcl:"rules,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address     string `hcl:"address,optional"`
	Port        int    `hcl:"port,optional"`
	LogLevel    string `hcl:"log_level,optional"`
	LogFile     string `hcl:"log_file,optional"`
	ResultsFile string `hcl:"results_file,optional"`
}

// RulesConfig holds table rules and room housekeeping
type RulesConfig struct {
	HandSize         int    `hcl:"hand_size,optional"`
	MinSeats         int    `hcl:"min_seats,optional"`
	MaxSeats         int    `hcl:"max_seats,optional"`
	TurnTimeout      string `hcl:"turn_timeout,optional"`
	IdleRoomTTL      string `hcl:"idle_room_ttl,optional"`
	Seed             int64  `hcl:"seed,optional"`
	ResultsCacheSize int    `hcl:"results_cache_size,optional"`
}

const (
	defaultIdleRoomTTL      = "30m"
	defaultResultsCacheSize = 100
)

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Rules: RulesConfig{
			HandSize:         deck.DefaultHandSize,
			MinSeats:         game.DefaultMinSeats,
			MaxSeats:         game.DefaultMaxSeats,
			IdleRoomTTL:      defaultIdleRoomTTL,
			ResultsCacheSize: defaultResultsCacheSize,
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file. A missing file
// yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	var config ServerConfig
	found, err := hclutil.DecodeFile(filename, &config)
	if err != nil {
		return nil, err
	}
	if !found {
		return DefaultServerConfig(), nil
	}

	config.applyDefaults()
	return &config, nil
}

func (c *ServerConfig) applyDefaults() {
	defaults := DefaultServerConfig()

	if c.Server.Address == "" {
		c.Server.Address = defaults.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaults.Server.LogLevel
	}

	if c.Rules.HandSize == 0 {
		c.Rules.HandSize = defaults.Rules.HandSize
	}
	if c.Rules.MinSeats == 0 {
		c.Rules.MinSeats = defaults.Rules.MinSeats
	}
	if c.Rules.MaxSeats == 0 {
		c.Rules.MaxSeats = defaults.Rules.MaxSeats
	}
	if c.Rules.IdleRoomTTL == "" {
		c.Rules.IdleRoomTTL = defaults.Rules.IdleRoomTTL
	}
	if c.Rules.ResultsCacheSize == 0 {
		c.Rules.ResultsCacheSize = defaults.Rules.ResultsCacheSize
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	r := c.Rules
	if r.HandSize < 1 {
		return fmt.Errorf("rules: hand size must be positive")
	}
	if r.MinSeats < 2 {
		return fmt.Errorf("rules: min seats must be at least 2")
	}
	if r.MaxSeats < r.MinSeats || r.MaxSeats > game.DefaultMaxSeats {
		return fmt.Errorf("rules: max seats must be between %d and %d", r.MinSeats, game.DefaultMaxSeats)
	}
	if r.ResultsCacheSize < 1 {
		return fmt.Errorf("rules: results cache size must be positive")
	}
	if _, err := c.TurnTimeout(); err != nil {
		return err
	}
	if _, err := c.IdleRoomTTL(); err != nil {
		return err
	}
	return nil
}

// TurnTimeout parses rules.turn_timeout. Zero disables the turn timer.
func (c *ServerConfig) TurnTimeout() (time.Duration, error) {
	return parseDuration("turn_timeout", c.Rules.TurnTimeout)
}

// IdleRoomTTL parses rules.idle_room_ttl. Zero disables reaping.
func (c *ServerConfig) IdleRoomTTL() (time.Duration, error) {
	return parseDuration("idle_room_ttl", c.Rules.IdleRoomTTL)
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("rules: invalid %s %q: %w", field, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("rules: %s must not be negative", field)
	}
	return d, nil
}

// GameConfig returns the table rules for new matches
func (c *ServerConfig) GameConfig() game.Config {
	return game.Config{
		MinSeats: c.Rules.MinSeats,
		MaxSeats: c.Rules.MaxSeats,
		HandSize: c.Rules.HandSize,
	}
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
