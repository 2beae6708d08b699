// Package digraph collects labelled nodes and edges and renders them with
// Graphviz.
//
// A [Graph] is the in-memory [Sink] used by the layer view builder. It can be
// converted to DOT source with [ToDOT] and then encoded as SVG, PNG, JPG or
// PDF with [Render]:
//
//	g := digraph.New()
//	g.AddNode("a", "CatXL", digraph.NodeStyle{})
//	g.AddNode("b", "LossSet", digraph.NodeStyle{Shape: "box"})
//	g.AddEdge("b", "a", digraph.EdgeStyle{})
//
//	dot := digraph.ToDOT(g, digraph.DOTOptions{Rankdir: "BT"})
//	svg, err := digraph.Render(ctx, dot, digraph.RenderOptions{Format: "svg"})
//
// SVG, PNG and JPG are produced in-process by [github.com/goccy/go-graphviz].
// PDF and scaled PNG conversion require librsvg (rsvg-convert).
package digraph
