// Package pkg provides the libraries behind are-extras, which draws Analyze Re
// LayerViews as directed graphs.
//
// # Overview
//
// A LayerView wraps a tree of reinsurance layers. NestedLayers compose other
// layers (a sink fed by sources), and leaf layers carry loss sets and
// financial terms. are-extras projects that tree onto a graph in which every
// layer and loss set is a node, edges point from what feeds a layer to the
// layer, and each leaf is labelled with its terms.
//
// # Architecture
//
//	LayerView JSON (file, HTTP body, or platform API)
//	         ↓
//	    [model] package (schema-validated decoding)
//	         ↓
//	    [layerview] package (tree walk, terms via [terms], identity hashing)
//	         ↓
//	    [digraph] package (graph, DOT, Graphviz rendering)
//	         ↓
//	    DOT/SVG/PNG/JPG/PDF/JSON output
//
// # Quick Start
//
//	lv, err := model.Load("layer_view.json")
//	if err != nil {
//	    return err
//	}
//	opts := layerview.DefaultOptions()
//	opts.Format = "svg"
//	d, err := layerview.New(lv, opts)
//	if err != nil {
//	    return err
//	}
//	path, err := d.Render(ctx, layerview.RenderOptions{Dir: "out"})
//
// # Main Packages
//
// ## Domain
//
// [model] - LayerView and layer records, JSON Schema validation, decoding.
//
// [terms] - Ordered term rules and the money, date and description
// formatters used in node labels.
//
// [layerview] - The tree walker, graph options, output filenames and the
// per-leaf term report.
//
// [digraph] - A small ordered directed graph, its DOT encoding and rendering
// through Graphviz.
//
// ## Infrastructure
//
// [platform] - Analyze Re API client with retries and response caching.
//
// [cache] - File, Redis and null caches with key builders.
//
// [store] - Render record persistence (memory, file, MongoDB).
//
// [server] - HTTP API for rendering and term reports.
//
// [httputil] - Retry with exponential backoff.
//
// [observability] - Hooks for graph build, render, cache and HTTP events.
//
// [errors] - Coded errors and input validators.
//
// [buildinfo] - Version information injected at build time.
package pkg
