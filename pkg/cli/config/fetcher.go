package config

import (
	"time"

	"github.com/urfave/cli/v3"

	"github.com/EngrShabir135/koboimg/pkg/infra/kobo"
)

// Fetcher holds image download configuration
type Fetcher struct {
	Timeout time.Duration
}

// Flags returns CLI flags for fetcher configuration
func (c *Fetcher) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "fetch-timeout",
			Usage:       "Per-request timeout for image downloads",
			Value:       kobo.DefaultTimeout,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("KOBOIMG_FETCH_TIMEOUT"),
		},
	}
}
