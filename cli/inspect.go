package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.viam.com/utils"

	"go.viam.com/bgkoctomap/occupancy"
)

// InspectAction reads every record in the file given as the first argument and prints a summary.
func InspectAction(c *cli.Context, logger golog.Logger) error {
	if c.Args().Len() != 1 {
		return errors.New("inspect takes exactly one records file")
	}
	model, err := loadModel(c, logger)
	if err != nil {
		return err
	}

	path := c.Args().First()
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer utils.UncheckedErrorFunc(f.Close)

	nodes, err := readNodes(model, f)
	if err != nil {
		return errors.Wrapf(err, "error reading %q after %d records", path, len(nodes))
	}
	logger.Debugw("read node records", "path", path, "count", len(nodes))

	if c.Bool(flagVerbose) {
		for i, n := range nodes {
			fmt.Fprintf(c.App.Writer, "%d\t%s\n", i, n)
		}
	}
	fmt.Fprintln(c.App.Writer, occupancy.Summarize(nodes))
	return nil
}

func readNodes(model *occupancy.Model, r io.Reader) ([]*occupancy.Node, error) {
	var nodes []*occupancy.Node
	for {
		n, err := model.ReadNode(r)
		if errors.Is(err, io.EOF) {
			return nodes, nil
		}
		if err != nil {
			return nodes, err
		}
		nodes = append(nodes, n)
	}
}

// ClassifyAction prints the posterior and classification of a node with the given counts.
func ClassifyAction(c *cli.Context, logger golog.Logger) error {
	model, err := loadModel(c, logger)
	if err != nil {
		return err
	}
	n, err := model.NewNodeWithCounts(float32(c.Float64(flagAlpha)), float32(c.Float64(flagBeta)))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "probability: %.6f\nvariance: %.6f\nstate: %s\n", n.Probability(), n.Variance(), n.State())
	return nil
}
