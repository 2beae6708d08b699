package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/analyzere/extras/pkg/layerview"
	"github.com/analyzere/extras/pkg/terms"
)

type termsOpts struct {
	source   sourceFlags
	json     bool
	warnOnly bool
}

// termsCommand creates the "layerview terms" command.
func (c *CLI) termsCommand() *cobra.Command {
	var opts termsOpts

	cmd := &cobra.Command{
		Use:   "terms [file]",
		Short: "List the terms of every leaf layer",
		Long: `List the terms of every leaf layer in depth-first order.

Terms that usually indicate a modelling mistake (a zero share, an unlimited
attachment, a FilterLayer that passes nothing) are highlighted.`,
		Args: sourceArgs(&opts.source),
		RunE: func(cmd *cobra.Command, args []string) error {
			lv, err := c.loadLayerView(cmd.Context(), &opts.source, args)
			if err != nil {
				return err
			}
			report, err := layerview.Report(lv)
			if err != nil {
				return err
			}
			if opts.warnOnly {
				report = warningsOnly(report)
			}
			if opts.json {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printTermsTable(lv.ID, report)
			return nil
		},
	}

	opts.source.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&opts.warnOnly, "warnings-only", false, "only list layers with warnings")

	return cmd
}

func warningsOnly(report []layerview.LeafTerms) []layerview.LeafTerms {
	out := report[:0:0]
	for _, leaf := range report {
		if leaf.Warning {
			out = append(out, leaf)
		}
	}
	return out
}

func printTermsTable(id string, report []layerview.LeafTerms) {
	fmt.Fprintln(stdout, StyleTitle.Render("Layer view "+id))

	rows := make([][]string, len(report))
	warnings := 0
	for i, leaf := range report {
		name := leaf.Type
		if leaf.Description != "" {
			name += "\n" + terms.Quote(leaf.Description)
		}
		rows[i] = []string{leaf.Node, name, renderTerms(leaf.Terms)}
		if leaf.Warning {
			warnings++
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Layer", "Terms").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 { // header
				return headerStyle
			}
			if col == 0 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(stdout, t.Render())

	if warnings > 0 {
		printWarning("%d of %d layers need attention", warnings, len(report))
	} else {
		printSuccess("%d layers, no warnings", len(report))
	}
}

// renderTerms lists one term per line, highlighting warnings.
func renderTerms(ts []terms.Term) string {
	if len(ts) == 0 {
		return StyleDim.Render("none")
	}
	lines := make([]string, len(ts))
	for i, term := range ts {
		if term.Warning {
			lines[i] = StyleWarning.Render(term.String())
		} else {
			lines[i] = term.String()
		}
	}
	return strings.Join(lines, "\n")
}
