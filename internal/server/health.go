package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const healthPollInterval = 100 * time.Millisecond

// HealthURL maps a server address in any of the forms players use (host:port,
// http(s)://, ws(s):// with or without /ws) to its /health endpoint
func HealthURL(addr string) (string, error) {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("invalid server address: %w", err)
	}

	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	case "http", "https":
	default:
		return "", fmt.Errorf("invalid server address scheme %q", u.Scheme)
	}
	u.Path = "/health"
	u.RawQuery = ""
	return u.String(), nil
}

// CheckHealth makes a single probe of healthURL
func CheckHealth(ctx context.Context, client *http.Client, healthURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check: %s", resp.Status)
	}
	return nil
}

// WaitForHealthy polls the server's /health endpoint until it answers 200 OK
// or ctx ends, in which case the last probe error is returned.
func WaitForHealthy(ctx context.Context, addr string) error {
	healthURL, err := HealthURL(addr)
	if err != nil {
		return err
	}
	client := &http.Client{Timeout: time.Second}

	ticker := time.NewTicker(healthPollInterval)
	defer ticker.Stop()

	for {
		lastErr := CheckHealth(ctx, client, healthURL)
		if lastErr == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("server at %s not healthy: %w", healthURL, lastErr)
		case <-ticker.C:
		}
	}
}
