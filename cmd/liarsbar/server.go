package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/liarsbar/cmd/liarsbar/shared"
	"github.com/lox/liarsbar/internal/server"
)

// ServerCmd runs the room server. Flags override the HCL file.
type ServerCmd struct {
	Config      string `short:"c" default:"liarsbar-server.hcl" env:"LIARSBAR_CONFIG" help:"Path to HCL configuration file"`
	Addr        string `short:"a" env:"LIARSBAR_ADDR" help:"Address to listen on, host:port (overrides config)"`
	LogLevel    string `short:"l" env:"LIARSBAR_LOG_LEVEL" help:"Log level (overrides config)"`
	Seed        *int64 `env:"LIARSBAR_SEED" help:"Deterministic RNG seed (optional)"`
	TurnTimeout string `env:"LIARSBAR_TURN_TIMEOUT" help:"Act for idle players after this long, e.g. 45s (overrides config)"`
	Feed        bool   `help:"Print a line per resolved round to stdout"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := c.applyOverrides(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var logger *log.Logger
	if cfg.Server.LogFile != "" {
		var f io.Closer
		logger, f, err = shared.SetupFileLogger(cfg.Server.LogFile, cfg.Server.LogLevel)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
	} else {
		logger, err = shared.SetupLogger(os.Stderr, cfg.Server.LogLevel)
		if err != nil {
			return err
		}
	}

	seed := cfg.Rules.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Info("Using random seed", "seed", seed)
	} else {
		logger.Info("Using deterministic seed", "seed", seed)
	}

	// Validate has already parsed both durations
	turnTimeout, _ := cfg.TurnTimeout()
	idleTTL, _ := cfg.IdleRoomTTL()

	opts := []server.Option{
		server.WithRules(cfg.GameConfig()),
		server.WithTurnTimeout(turnTimeout),
		server.WithIdleRoomTTL(idleTTL),
		server.WithResultsCacheSize(cfg.Rules.ResultsCacheSize),
	}
	if cfg.Server.ResultsFile != "" {
		opts = append(opts, server.WithResultsFile(cfg.Server.ResultsFile))
	}
	if c.Feed {
		opts = append(opts, server.WithMonitor(server.NewListMonitor(os.Stdout)))
	}

	s, err := server.NewServer(logger, seed, opts...)
	if err != nil {
		return err
	}

	logger.Info("Starting liar's bar server",
		"addr", cfg.GetServerAddress(),
		"handSize", cfg.Rules.HandSize,
		"seats", fmt.Sprintf("%d-%d", cfg.Rules.MinSeats, cfg.Rules.MaxSeats),
		"turnTimeout", turnTimeout,
		"idleRoomTTL", idleTTL)

	ctx := shared.SetupSignalHandler(logger)
	return s.ListenAndServe(ctx, cfg.GetServerAddress())
}

func (c *ServerCmd) applyOverrides(cfg *server.ServerConfig) error {
	if c.Addr != "" {
		host, port, err := net.SplitHostPort(c.Addr)
		if err != nil {
			return fmt.Errorf("invalid --addr: %w", err)
		}
		cfg.Server.Port, err = strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid --addr port %q", port)
		}
		cfg.Server.Address = host
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.Seed != nil {
		cfg.Rules.Seed = *c.Seed
	}
	if c.TurnTimeout != "" {
		cfg.Rules.TurnTimeout = c.TurnTimeout
	}
	return nil
}
