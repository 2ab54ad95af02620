package config

import (
	"github.com/urfave/cli/v3"

	"github.com/EngrShabir135/koboimg/pkg/usecase"
)

// Output holds local output configuration for one-shot runs
type Output struct {
	Dir    string
	Prefix string
}

// Flags returns CLI flags for output configuration
func (c *Output) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "out",
			Aliases:     []string{"o"},
			Usage:       "Directory for images.zip and failed_links.csv",
			Value:       ".",
			Destination: &c.Dir,
			Sources:     cli.EnvVars("KOBOIMG_OUT"),
		},
		&cli.StringFlag{
			Name:        "prefix",
			Usage:       "Image filename prefix",
			Value:       usecase.DefaultPrefix,
			Destination: &c.Prefix,
			Sources:     cli.EnvVars("KOBOIMG_PREFIX"),
		},
	}
}
