package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/analyzere/extras/pkg/errors"
	"github.com/analyzere/extras/pkg/layerview"
)

// renderOpts holds the render command's output flags.
type renderOpts struct {
	source   sourceFlags
	graph    graphFlags
	output   string  // output directory
	filename string  // explicit file name without extension
	scale    float64 // raster scale factor for png
	view     bool    // open the result in the desktop viewer
}

// renderCommand creates the "layerview render" command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a LayerView as a graph",
		Long: `Render a LayerView as a directed graph.

The LayerView is read from a JSON file, or retrieved from the platform with --id.
The output name is derived from the LayerView id and the drawing options unless
--filename is given.`,
		Example: `  are-extras layerview render layer_view.json -f svg
  are-extras layerview render --id ee3f8420-c583-4dd4-9f9d-8ade29b0d82f --rankdir LR --view`,
		Args: sourceArgs(&opts.source),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args, &opts)
		},
	}

	opts.source.register(cmd)
	opts.graph.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().StringVar(&opts.filename, "filename", "", "output file name without extension")
	cmd.Flags().Float64Var(&opts.scale, "scale", 1, "scale factor for png output")
	cmd.Flags().BoolVar(&opts.view, "view", false, "open the rendered file")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	d, err := c.buildDigraph(ctx, cmd, args, &opts.source, &opts.graph)
	if err != nil {
		return err
	}
	if opts.filename != "" {
		if err := errors.ValidateFilename(opts.filename); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create output directory %s", opts.output)
	}

	prog := newProgress(logger)
	path, err := d.Render(ctx, layerview.RenderOptions{
		Filename: opts.filename,
		Dir:      opts.output,
		Scale:    opts.scale,
		View:     opts.view,
	})
	if err != nil {
		return err
	}
	prog.done("Rendered " + d.Options().Format)

	g := d.Graph()
	printSuccess("Rendered layer view %s", d.LayerView().ID)
	printFile(path)
	printStats(g.NodeCount(), g.EdgeCount(), len(d.Warnings()))
	if len(d.Warnings()) > 0 && len(args) == 1 {
		printNextStep("Review highlighted terms", "are-extras layerview terms "+args[0])
	}
	return nil
}

// buildDigraph loads the LayerView and builds its graph with the effective
// options: flags over config over defaults.
func (c *CLI) buildDigraph(ctx context.Context, cmd *cobra.Command, args []string, src *sourceFlags, gf *graphFlags) (*layerview.Digraph, error) {
	lv, err := c.loadLayerView(ctx, src, args)
	if err != nil {
		return nil, err
	}
	opts := gf.apply(cmd, c.config.Graph.Options())
	opts.Logger = loggerFromContext(ctx)
	return layerview.NewContext(ctx, lv, opts)
}
