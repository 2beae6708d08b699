// Package layerview projects an Analyze Re LayerView onto a directed graph
// and renders it with Graphviz.
//
// # Construction
//
// [New] walks the layer tree once. Every layer gets an identity derived from
// its canonical JSON form and the identity of the node it feeds, so the same
// layer shared by two sinks is drawn twice while a repeated source under one
// sink collapses into one node in compact mode. NestedLayers are not drawn
// themselves: their sink stands in for them and their sources point at it.
//
//	d, err := layerview.New(lv, layerview.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	path, err := d.Render(ctx, layerview.RenderOptions{Format: "svg"})
//
// # Limits
//
// MaxDepth stops expanding sources below a given nesting depth and
// MaxSources replaces a sink's sources with a single "N sources" node when
// there are too many to draw.
//
// # Filenames
//
// The default filename encodes every option that changes the drawing:
//
//	{id}_{rankdir}_{compact|not-compact}_{with-terms|without-terms}_{warnings-enabled|warnings-disabled}[_depth-N][_srclimit-N][_N-colors-by-MODE]
package layerview
