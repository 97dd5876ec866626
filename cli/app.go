// Package cli contains the bgknode command line tool for inspecting persisted occupancy nodes.
package cli

import (
	"io"
	"os"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"go.viam.com/bgkoctomap/occupancy"
)

const (
	flagConfig  = "config"
	flagDebug   = "debug"
	flagClasses = "classes"
	flagVerbose = "verbose"
	flagAlpha   = "alpha"
	flagBeta    = "beta"
)

// NewApp returns the bgknode application writing its output to out.
func NewApp(out io.Writer) *cli.App {
	var logger golog.Logger

	return &cli.App{
		Name:   "bgknode",
		Usage:  "inspect BGK occupancy node records",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load occupancy params from JSON `FILE`",
			},
			&cli.IntFlag{
				Name:  flagClasses,
				Usage: "override the number of semantic classes",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				logger = golog.NewDebugLogger("bgknode")
			} else {
				logger = zap.NewNop().Sugar()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "inspect",
				Usage:     "summarize a file of node records",
				ArgsUsage: "<records file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    flagVerbose,
						Aliases: []string{"v"},
						Usage:   "print every node",
					},
				},
				Action: func(c *cli.Context) error {
					return InspectAction(c, logger)
				},
			},
			{
				Name:  "classify",
				Usage: "classify a node with the given Beta parameters",
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:     flagAlpha,
						Required: true,
					},
					&cli.Float64Flag{
						Name:     flagBeta,
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					return ClassifyAction(c, logger)
				},
			},
		},
	}
}

func loadModel(c *cli.Context, logger golog.Logger) (*occupancy.Model, error) {
	params := occupancy.DefaultParams()
	if path := c.String(flagConfig); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "error reading config %q", path)
		}
		loaded, err := occupancy.ParamsFromJSON(data)
		if err != nil {
			return nil, err
		}
		params = *loaded
	}
	if c.IsSet(flagClasses) {
		params.NumClasses = c.Int(flagClasses)
	}
	return occupancy.NewModel(params, logger)
}
