package layerview

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/analyzere/extras/pkg/digraph"
	"github.com/analyzere/extras/pkg/errors"
	"github.com/analyzere/extras/pkg/model"
	"github.com/analyzere/extras/pkg/observability"
)

// FormatJSON renders the node and edge lists instead of an image.
const FormatJSON = "json"

// Digraph is the graph projection of one LayerView.
type Digraph struct {
	lv       *model.LayerView
	opts     Options
	graph    *digraph.Graph
	warnings []string
}

// New validates lv and opts and builds the graph. Invalid input fails before
// any node is emitted.
func New(lv *model.LayerView, opts Options) (*Digraph, error) {
	return NewContext(context.Background(), lv, opts)
}

// NewContext is [New] with a context for instrumentation hooks.
func NewContext(ctx context.Context, lv *model.LayerView, opts Options) (*Digraph, error) {
	if err := lv.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	hooks := observability.Graph()
	hooks.OnBuildStart(ctx, lv.ID)
	start := time.Now()

	g := digraph.New()
	w := newWalker(g, opts)
	_, _, err := w.walk(lv.Layer, "", "", 0)
	hooks.OnBuildComplete(ctx, lv.ID, g.NodeCount(), g.EdgeCount(), time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build graph for layer view %s", lv.ID)
	}

	opts.Logger.Debug("built layer view graph", "id", lv.ID, "nodes", g.NodeCount(), "edges", g.EdgeCount(), "warnings", len(w.warnings))
	return &Digraph{lv: lv, opts: opts, graph: g, warnings: w.warnings}, nil
}

// LayerView returns the source record.
func (d *Digraph) LayerView() *model.LayerView { return d.lv }

// Graph returns the built graph.
func (d *Digraph) Graph() *digraph.Graph { return d.graph }

// Options returns the effective options.
func (d *Digraph) Options() Options { return d.opts }

// Warnings returns the IDs of highlighted nodes in emission order. It is
// empty when warnings are disabled.
func (d *Digraph) Warnings() []string { return d.warnings }

// Filename returns the explicit filename if one was given, otherwise the
// name derived from the LayerView id and the drawing options.
func (d *Digraph) Filename() string {
	if d.opts.Filename != "" {
		return d.opts.Filename
	}
	return d.opts.filename(d.lv.ID)
}

// DOT returns the Graphviz source of the graph.
func (d *Digraph) DOT() string {
	return digraph.ToDOT(d.graph, digraph.DOTOptions{Rankdir: d.opts.Rankdir, Size: d.opts.Size})
}

// Artifact encodes the graph in format without touching the filesystem.
func (d *Digraph) Artifact(ctx context.Context, format string, scale float64) ([]byte, error) {
	hooks := observability.Graph()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()

	var (
		out []byte
		err error
	)
	if format == FormatJSON {
		out, err = json.Marshal(d.graph.Snapshot())
	} else {
		out, err = digraph.Render(ctx, d.DOT(), digraph.RenderOptions{Format: format, Scale: scale})
	}
	hooks.OnRenderComplete(ctx, format, len(out), time.Since(start), err)
	return out, err
}

// RenderOptions are per-call overrides for [Digraph.Render]. Empty fields
// keep the values the graph was built with.
type RenderOptions struct {
	Format   string
	Rankdir  string
	Filename string
	Dir      string
	Scale    float64
	// View opens the result in the desktop viewer. Viewer failures cause one
	// retry with viewing disabled.
	View bool
}

// Render writes the graph to <Dir>/<filename>.<format> and returns the path.
// A rankdir override also changes the derived filename; a format override
// only changes the extension.
func (d *Digraph) Render(ctx context.Context, ro RenderOptions) (string, error) {
	if ro.Format != "" {
		if err := errors.ValidateFormat(ro.Format); err != nil {
			return "", err
		}
		d.opts.Format = ro.Format
	}
	if ro.Rankdir != "" {
		if err := errors.ValidateRankdir(ro.Rankdir); err != nil {
			return "", err
		}
		d.opts.Rankdir = ro.Rankdir
	}
	if ro.Filename != "" {
		d.opts.Filename = ro.Filename
	}

	path, err := d.render(ctx, ro)
	if err != nil && ro.View {
		d.opts.Logger.Warn("render with viewer failed, retrying without", "error", err)
		ro.View = false
		return d.render(ctx, ro)
	}
	return path, err
}

func (d *Digraph) render(ctx context.Context, ro RenderOptions) (string, error) {
	out, err := d.Artifact(ctx, d.opts.Format, ro.Scale)
	if err != nil {
		return "", err
	}

	path := filepath.Join(ro.Dir, d.Filename()+"."+d.opts.Format)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	d.opts.Logger.Debug("wrote graph", "path", path, "bytes", len(out))

	if ro.View {
		if err := openFile(ctx, path); err != nil {
			return path, err
		}
	}
	return path, nil
}
