package digraph

// Sink receives nodes and edges as a graph is built.
type Sink interface {
	AddNode(id, label string, style NodeStyle)
	AddEdge(from, to string, style EdgeStyle)
}

// NodeStyle holds the Graphviz attributes of a node. Empty fields are left
// to the graph-wide defaults.
type NodeStyle struct {
	Shape     string `json:"shape,omitempty"`
	Style     string `json:"style,omitempty"`
	Color     string `json:"color,omitempty"`
	FillColor string `json:"fillcolor,omitempty"`
}

// EdgeStyle holds the Graphviz attributes of an edge.
type EdgeStyle struct {
	Color string `json:"color,omitempty"`
}

// Node is a labelled vertex.
type Node struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	Style NodeStyle `json:"style"`
}

// Edge is a directed connection between two node IDs.
type Edge struct {
	From  string    `json:"from"`
	To    string    `json:"to"`
	Style EdgeStyle `json:"style"`
}

// Graph is an in-memory [Sink] that keeps nodes and edges in insertion
// order. Adding a node with an existing ID replaces its label and style but
// keeps its position.
type Graph struct {
	nodes []Node
	index map[string]int
	edges []Edge
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// AddNode adds or updates the node with the given ID.
func (g *Graph) AddNode(id, label string, style NodeStyle) {
	if i, ok := g.index[id]; ok {
		g.nodes[i].Label = label
		g.nodes[i].Style = style
		return
	}
	g.index[id] = len(g.nodes)
	g.nodes = append(g.nodes, Node{ID: id, Label: label, Style: style})
}

// AddEdge appends an edge. Endpoints need not exist yet; Graphviz creates
// missing nodes with default attributes.
func (g *Graph) AddEdge(from, to string, style EdgeStyle) {
	g.edges = append(g.edges, Edge{From: from, To: to, Style: style})
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// NodeCount returns the number of distinct nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// HasEdge reports whether an edge from -> to has been added.
func (g *Graph) HasEdge(from, to string) bool {
	for _, e := range g.edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

// Snapshot is the serialisable form of a graph.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Snapshot copies the graph's nodes and edges.
func (g *Graph) Snapshot() Snapshot {
	return Snapshot{
		Nodes: append([]Node{}, g.nodes...),
		Edges: append([]Edge{}, g.edges...),
	}
}
