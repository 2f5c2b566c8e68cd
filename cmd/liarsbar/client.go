package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lox/liarsbar/cmd/liarsbar/shared"
	"github.com/lox/liarsbar/internal/client"
	"github.com/lox/liarsbar/internal/tui"
)

// ClientCmd opens the terminal UI against a running server
type ClientCmd struct {
	Config   string `short:"c" default:"liarsbar-client.hcl" env:"LIARSBAR_CLIENT_CONFIG" help:"Path to HCL configuration file"`
	Server   string `short:"s" env:"LIARSBAR_SERVER" help:"Server URL to connect to (overrides config)"`
	Player   string `short:"p" env:"LIARSBAR_PLAYER" help:"Player name (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	LogFile  string `help:"Log file path (overrides config)"`
}

func (c *ClientCmd) Run() error {
	cfg, err := client.LoadClientConfig(c.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if c.Server != "" {
		cfg.Server.URL = c.Server
	}
	if c.Player != "" {
		cfg.Player.Name = c.Player
	}
	if c.LogLevel != "" {
		cfg.UI.LogLevel = c.LogLevel
	}
	if c.LogFile != "" {
		cfg.UI.LogFile = c.LogFile
	}

	if cfg.Player.Name == "" {
		fmt.Print("Enter your player name: ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		cfg.Player.Name = strings.TrimSpace(line)
		if cfg.Player.Name == "" {
			return fmt.Errorf("player name is required")
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// The terminal belongs to the TUI, so logs go to a file
	logger, logFile, err := shared.SetupFileLogger(cfg.UI.LogFile, cfg.UI.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	logger.Info("Starting liar's bar client",
		"server", cfg.GetServerURL(),
		"player", cfg.GetPlayerName(),
		"config", c.Config)

	wsClient := client.NewClient(cfg.GetServerURL(), logger)
	wsClient.SetRequestTimeout(cfg.RequestTimeout())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout())
	defer cancel()
	if err := wsClient.Connect(ctx); err != nil {
		return err
	}
	defer func() { _ = wsClient.Disconnect() }()

	return tui.Run(wsClient, wsClient.Events(), cfg.GetPlayerName(), cfg.RequestTimeout(), logger)
}
