package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/liarsbar/internal/hclutil"
)

// ClientConfig is the terminal client's HCL file:
//
//	server { url = "ws://bar.example.com:8080" }
//	player { name = env.USER }
//	ui     { log_level = "info" }
type ClientConfig struct {
	Server ServerConnection `hcl:"server,block"`
	Player PlayerSettings   `hcl:"player,block"`
	UI     UISettings       `hcl:"ui,block"`
}

// ServerConnection says where to connect. Timeouts are in seconds.
type ServerConnection struct {
	URL            string `hcl:"url"`
	ConnectTimeout int    `hcl:"connect_timeout,optional"`
	RequestTimeout int    `hcl:"request_timeout,optional"`
}

// PlayerSettings holds the seat name; the client prompts when it is empty
type PlayerSettings struct {
	Name string `hcl:"name,optional"`
}

// UISettings controls the client's log file. The terminal belongs to the UI.
type UISettings struct {
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

const (
	defaultServerURL      = "ws://localhost:8080/ws"
	defaultTimeoutSeconds = 10
	defaultClientLogLevel = "warn"
	defaultClientLogFile  = "liarsbar-client.log"
)

// DefaultClientConfig returns the configuration used when no file exists
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Server: ServerConnection{
			URL:            defaultServerURL,
			ConnectTimeout: defaultTimeoutSeconds,
			RequestTimeout: defaultTimeoutSeconds,
		},
		UI: UISettings{
			LogLevel: defaultClientLogLevel,
			LogFile:  defaultClientLogFile,
		},
	}
}

// LoadClientConfig reads filename, filling anything left out with defaults
func LoadClientConfig(filename string) (*ClientConfig, error) {
	var config ClientConfig
	found, err := hclutil.DecodeFile(filename, &config)
	if err != nil {
		return nil, err
	}
	if !found {
		return DefaultClientConfig(), nil
	}
	config.applyDefaults()
	return &config, nil
}

func (c *ClientConfig) applyDefaults() {
	if c.Server.URL == "" {
		c.Server.URL = defaultServerURL
	}
	if c.Server.ConnectTimeout == 0 {
		c.Server.ConnectTimeout = defaultTimeoutSeconds
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = defaultTimeoutSeconds
	}
	if c.UI.LogLevel == "" {
		c.UI.LogLevel = defaultClientLogLevel
	}
	if c.UI.LogFile == "" {
		c.UI.LogFile = defaultClientLogFile
	}
	c.Player.Name = strings.TrimSpace(c.Player.Name)
}

// Validate reports the first unusable setting
func (c *ClientConfig) Validate() error {
	if _, err := WebSocketURL(c.Server.URL); err != nil {
		return err
	}
	if c.Server.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if _, err := log.ParseLevel(c.UI.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}
	return nil
}

// ConnectTimeout returns the dial timeout
func (c *ClientConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.Server.ConnectTimeout) * time.Second
}

// RequestTimeout returns how long a request waits for its ack
func (c *ClientConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeout) * time.Second
}

// GetServerURL returns the server URL
func (c *ClientConfig) GetServerURL() string {
	return c.Server.URL
}

// GetPlayerName returns the player name
func (c *ClientConfig) GetPlayerName() string {
	return c.Player.Name
}
