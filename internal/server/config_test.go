package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lox/liarsbar/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "liarsbar-server.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadServerConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerConfig(), cfg)
	assert.Equal(t, "localhost:8080", cfg.GetServerAddress())
	assert.Equal(t, game.DefaultConfig(), cfg.GameConfig())
	require.NoError(t, cfg.Validate())
}

func TestLoadServerConfig(t *testing.T) {
	path := writeConfig(t, `
server {
  address   = "0.0.0.0"
  port      = 9090
  log_level = "debug"
  results_file = "results.json"
}

rules {
  hand_size     = 4
  max_seats     = 4
  turn_timeout  = "45s"
  idle_room_ttl = "10m"
  seed          = 42
}
`)

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9090", cfg.GetServerAddress())
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "results.json", cfg.Server.ResultsFile)
	assert.Equal(t, int64(42), cfg.Rules.Seed)
	assert.Equal(t, game.Config{MinSeats: game.DefaultMinSeats, MaxSeats: 4, HandSize: 4}, cfg.GameConfig())
	assert.Equal(t, defaultResultsCacheSize, cfg.Rules.ResultsCacheSize)

	timeout, err := cfg.TurnTimeout()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, timeout)

	ttl, err := cfg.IdleRoomTTL()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, ttl)
}

func TestLoadServerConfigParseError(t *testing.T) {
	path := writeConfig(t, `server { port = `)
	_, err := LoadServerConfig(path)
	assert.Error(t, err)
}

func TestServerConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"port", func(c *ServerConfig) { c.Server.Port = 0 }},
		{"hand size", func(c *ServerConfig) { c.Rules.HandSize = 0 }},
		{"min seats", func(c *ServerConfig) { c.Rules.MinSeats = 1 }},
		{"max below min", func(c *ServerConfig) { c.Rules.MinSeats = 4; c.Rules.MaxSeats = 3 }},
		{"max above table", func(c *ServerConfig) { c.Rules.MaxSeats = game.DefaultMaxSeats + 1 }},
		{"cache size", func(c *ServerConfig) { c.Rules.ResultsCacheSize = 0 }},
		{"turn timeout", func(c *ServerConfig) { c.Rules.TurnTimeout = "soon" }},
		{"negative ttl", func(c *ServerConfig) { c.Rules.IdleRoomTTL = "-1m" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
