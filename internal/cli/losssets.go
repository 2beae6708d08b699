package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/analyzere/extras/pkg/losssets"
)

type analogousOpts struct {
	platform     sourceFlags
	profile      string
	sources      []string
	events       []int64
	load         float64
	probability  float64
	description  string
	severityOnly bool
	output       string
	json         bool
}

// lossSetsCommand groups the loss set subcommands.
func (c *CLI) lossSetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "losssets",
		Aliases: []string{"ls"},
		Short:   "Build loss sets on the platform",
	}
	cmd.AddCommand(c.analogousCommand())
	return cmd
}

// analogousCommand creates the "losssets analogous" command.
func (c *CLI) analogousCommand() *cobra.Command {
	d := losssets.DefaultConfig()
	var opts analogousOpts

	cmd := &cobra.Command{
		Use:   "analogous",
		Short: "Create a loss set that replays historical events",
		Long: `Create a ParametricLossSet whose severity pools the losses that the given
source events produced in the source loss sets.

Each event is equally likely. The losses of an event share its probability,
are scaled by --load, and occur once a year with --occurrence-probability.
Distributions that already exist with the same content are reused.

With --severity-only the severity distribution is printed as CSV and nothing
is created besides the event layer views.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := losssets.Config{
				AnalysisProfile:       opts.profile,
				Sources:               opts.sources,
				SourceEvents:          opts.events,
				Load:                  opts.load,
				OccurrenceProbability: opts.probability,
				Description:           opts.description,
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			client, err := c.platformClient(&opts.platform)
			if err != nil {
				return err
			}
			b := losssets.NewBuilder(client, losssets.WithLogger(c.Logger))

			if opts.severityOnly {
				sev, err := spin(ctx, "Retrieving event losses", func() (losssets.Severity, error) {
					sev, _, err := b.Severity(ctx, cfg)
					return sev, err
				})
				if err != nil {
					return err
				}
				return writeSeverity(sev, opts.output, opts.json)
			}

			res, err := spin(ctx, "Creating analogous event loss set", func() (*losssets.Result, error) {
				return b.Create(ctx, cfg)
			})
			if err != nil {
				return err
			}
			if opts.json {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res.LossSet)
			}
			printLossSetResult(res)
			return nil
		},
	}

	opts.platform.registerPlatform(cmd)
	cmd.Flags().StringVar(&opts.profile, "analysis-profile", "", "analysis profile the event layer views run in")
	cmd.Flags().StringSliceVar(&opts.sources, "source", nil, "source loss set id (repeatable)")
	cmd.Flags().Int64SliceVar(&opts.events, "event", nil, "source event id (repeatable, order matters)")
	cmd.Flags().Float64Var(&opts.load, "load", d.Load, "factor applied to every loss")
	cmd.Flags().Float64Var(&opts.probability, "occurrence-probability", d.OccurrenceProbability, "annual probability the scenario occurs")
	cmd.Flags().StringVar(&opts.description, "description", "", "description of the created loss set")
	cmd.Flags().BoolVar(&opts.severityOnly, "severity-only", false, "print the severity distribution instead of creating the loss set")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the severity CSV to this file (with --severity-only)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of text")

	return cmd
}

func writeSeverity(sev losssets.Severity, path string, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sev)
	}
	if path == "" {
		_, err := fmt.Fprint(stdout, sev.CSV())
		return err
	}
	if err := os.WriteFile(path, []byte(sev.CSV()), 0o644); err != nil {
		return err
	}
	printFile(path)
	return nil
}

func printLossSetResult(res *losssets.Result) {
	printSuccess("Created loss set %s", res.LossSet.ID)
	printKeyValue("Severity", res.Distribution.ID)
	printKeyValue("Frequency", res.Frequency.ID)
	printKeyValue("Seasonality", res.Seasonality.ID)
	printKeyValue("Outcomes", strconv.Itoa(len(res.Severity)))
}
