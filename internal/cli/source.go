package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/analyzere/extras/pkg/errors"
	"github.com/analyzere/extras/pkg/layerview"
	"github.com/analyzere/extras/pkg/model"
	"github.com/analyzere/extras/pkg/platform"
)

// passwordEnv overrides the configured platform password.
const passwordEnv = "ARE_EXTRAS_PASSWORD"

// =============================================================================
// LayerView Source
// =============================================================================

// sourceFlags select where a LayerView comes from: a JSON file argument or
// a platform id.
type sourceFlags struct {
	id       string
	baseURL  string
	username string
	noCache  bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "id", "", "retrieve the LayerView with this id from the platform")
	f.registerPlatform(cmd)
}

// registerPlatform registers the connection flags only.
func (f *sourceFlags) registerPlatform(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "platform API root (overrides config)")
	cmd.Flags().StringVar(&f.username, "username", "", "platform username (password from "+passwordEnv+")")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "bypass the response cache")
}

// sourceArgs accepts a file argument unless --id is given.
func sourceArgs(f *sourceFlags) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if f.id != "" {
			return cobra.NoArgs(cmd, args)
		}
		if len(args) != 1 {
			return errors.New(errors.ErrCodeInvalidInput, "expected a LayerView file or --id")
		}
		return nil
	}
}

// loadLayerView reads the LayerView from disk or the platform.
func (c *CLI) loadLayerView(ctx context.Context, f *sourceFlags, args []string) (*model.LayerView, error) {
	if f.id == "" {
		return model.Load(args[0])
	}

	client, err := c.platformClient(f)
	if err != nil {
		return nil, err
	}
	return spin(ctx, "Retrieving layer view "+f.id, func() (*model.LayerView, error) {
		return client.LayerView(ctx, f.id)
	})
}

func (c *CLI) platformClient(f *sourceFlags) (*platform.Client, error) {
	cfg := platform.Config{
		BaseURL:  c.config.Platform.BaseURL,
		Username: c.config.Platform.Username,
		Password: c.config.Platform.Password,
		Timeout:  c.config.Platform.Timeout.Duration,
	}
	if f.baseURL != "" {
		cfg.BaseURL = f.baseURL
	}
	if f.username != "" {
		cfg.Username = f.username
	}
	if pw := os.Getenv(passwordEnv); pw != "" {
		cfg.Password = pw
	}
	return platform.NewClient(cfg,
		platform.WithCache(c.newCache(f.noCache), c.config.Cache.TTL.Duration),
		platform.WithLogger(c.Logger))
}

// =============================================================================
// Graph Options
// =============================================================================

// graphFlags mirror layerview.Options. Only flags the user set override the
// configured defaults.
type graphFlags struct {
	withTerms  bool
	compact    bool
	warnings   bool
	format     string
	rankdir    string
	maxDepth   int
	maxSources int
	colors     int
	colorMode  string
}

func (f *graphFlags) register(cmd *cobra.Command) {
	d := layerview.DefaultOptions()
	cmd.Flags().BoolVar(&f.withTerms, "with-terms", d.WithTerms, "annotate layers with their terms")
	cmd.Flags().BoolVar(&f.compact, "compact", d.Compact, "merge structurally identical layers")
	cmd.Flags().BoolVar(&f.warnings, "warnings", d.Warnings, "highlight layers whose terms need attention")
	cmd.Flags().StringVarP(&f.format, "format", "f", d.Format, "output format: dot, svg, png, jpg, pdf, json")
	cmd.Flags().StringVar(&f.rankdir, "rankdir", d.Rankdir, "layout direction: TB, LR, BT, RL")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", d.MaxDepth, "stop expanding nested sources below this depth (0 = unlimited)")
	cmd.Flags().IntVar(&f.maxSources, "max-sources", d.MaxSources, "summarize sinks with more sources than this (0 = unlimited)")
	cmd.Flags().IntVar(&f.colors, "colors", d.Colors, "number of edge colours (1-16)")
	cmd.Flags().StringVar(&f.colorMode, "color-mode", d.ColorMode, "colour edges by breadth or depth")
}

// apply overlays the flags the user changed on base.
func (f *graphFlags) apply(cmd *cobra.Command, base layerview.Options) layerview.Options {
	set := cmd.Flags().Changed
	if set("with-terms") {
		base.WithTerms = f.withTerms
	}
	if set("compact") {
		base.Compact = f.compact
	}
	if set("warnings") {
		base.Warnings = f.warnings
	}
	if set("format") {
		base.Format = f.format
	}
	if set("rankdir") {
		base.Rankdir = f.rankdir
	}
	if set("max-depth") {
		base.MaxDepth = f.maxDepth
	}
	if set("max-sources") {
		base.MaxSources = f.maxSources
	}
	if set("colors") {
		base.Colors = f.colors
	}
	if set("color-mode") {
		base.ColorMode = f.colorMode
	}
	return base
}
