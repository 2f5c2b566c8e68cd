package main

import (
	"context"
	"fmt"
	"time"

	"github.com/lox/liarsbar/internal/server"
)

// HealthCmd probes a running server, for container health checks and scripts
type HealthCmd struct {
	Server string        `short:"s" default:"localhost:8080" env:"LIARSBAR_SERVER" help:"Server address or URL"`
	Wait   time.Duration `default:"0s" help:"Keep polling this long before giving up"`
}

func (c *HealthCmd) Run() error {
	healthURL, err := server.HealthURL(c.Server)
	if err != nil {
		return err
	}

	timeout := c.Wait
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.WaitForHealthy(ctx, c.Server); err != nil {
		return err
	}
	fmt.Println(healthURL, "OK")
	return nil
}
