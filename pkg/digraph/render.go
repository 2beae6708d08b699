package digraph

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/analyzere/extras/pkg/errors"
)

// Output formats understood by [Render].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatJPG = "jpg"
	FormatPDF = "pdf"
)

// RenderOptions controls artifact generation.
type RenderOptions struct {
	Format string
	// Scale above 1 renders PNG output through rsvg-convert at that factor
	// instead of the built-in Graphviz rasteriser.
	Scale float64
}

// Render lays out DOT source and encodes it in the requested format. The dot
// format returns the source unchanged.
func Render(ctx context.Context, dot string, opts RenderOptions) ([]byte, error) {
	switch opts.Format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return renderGraphviz(ctx, dot, graphviz.SVG)
	case FormatPNG:
		if opts.Scale > 1 {
			svg, err := renderGraphviz(ctx, dot, graphviz.SVG)
			if err != nil {
				return nil, err
			}
			return ToPNG(ctx, svg, opts.Scale)
		}
		return renderGraphviz(ctx, dot, graphviz.PNG)
	case FormatJPG:
		return renderGraphviz(ctx, dot, graphviz.JPG)
	case FormatPDF:
		svg, err := renderGraphviz(ctx, dot, graphviz.SVG)
		if err != nil {
			return nil, err
		}
		return ToPDF(ctx, svg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported render format %q", opts.Format)
	}
}

func renderGraphviz(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
