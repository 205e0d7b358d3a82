package config

import (
	"time"

	"github.com/urfave/cli/v3"
)

// Dryad holds Dryad API client configuration
type Dryad struct {
	BaseURL        string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// Flags returns CLI flags for Dryad API configuration
func (c *Dryad) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Dryad repository base URL",
			Value:       "https://datadryad.org",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("DRYADGET_BASE_URL"),
		},
		&cli.DurationFlag{
			Name:        "connect-timeout",
			Usage:       "TCP connect timeout",
			Value:       5 * time.Second,
			Destination: &c.ConnectTimeout,
			Sources:     cli.EnvVars("DRYADGET_CONNECT_TIMEOUT"),
		},
		&cli.DurationFlag{
			Name:        "read-timeout",
			Usage:       "HTTP read timeout (metadata requests, download response headers)",
			Value:       30 * time.Second,
			Destination: &c.ReadTimeout,
			Sources:     cli.EnvVars("DRYADGET_READ_TIMEOUT"),
		},
	}
}
