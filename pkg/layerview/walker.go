package layerview

import (
	"strconv"
	"strings"

	"github.com/analyzere/extras/pkg/digraph"
	"github.com/analyzere/extras/pkg/model"
	"github.com/analyzere/extras/pkg/terms"
)

// walker holds the state of a single graph build. A fresh walker is created
// for every build so concurrent builds never share ordinals or edges.
type walker struct {
	opts Options
	sink digraph.Sink

	sequence int
	unique   map[string]int
	edges    map[[2]string]struct{}
	color    int
	warnings []string
	warned   map[string]bool

	canon map[*model.Layer][]byte
}

func newWalker(sink digraph.Sink, opts Options) *walker {
	return &walker{
		opts:   opts,
		sink:   sink,
		unique: make(map[string]int),
		edges:  make(map[[2]string]struct{}),
		warned: make(map[string]bool),
		canon:  make(map[*model.Layer][]byte),
	}
}

func (w *walker) next() int {
	w.sequence++
	return w.sequence
}

// hash identifies l under the given parent. Canonical bytes are memoised per
// record since shared subtrees are visited repeatedly.
func (w *walker) hash(l *model.Layer, parent string) (string, error) {
	c, ok := w.canon[l]
	if !ok {
		var err error
		if c, err = canonicalJSON(l); err != nil {
			return "", err
		}
		w.canon[l] = c
	}
	return contentHash(c, parent), nil
}

// walk visits l and returns the emitted node ID and the hash that children
// use as their parent salt. For a NestedLayer both belong to its sink.
func (w *walker) walk(l *model.Layer, parent, prefix string, depth int) (id, hash string, err error) {
	hash, err = w.hash(l, parent)
	if err != nil {
		return "", "", err
	}
	if _, seen := w.unique[hash]; !w.opts.Compact || !seen {
		w.unique[hash] = w.next()
	}

	if l.IsNested() {
		return w.walkNested(l, hash, prefix, depth)
	}
	return w.walkLeaf(l, hash, prefix, depth), hash, nil
}

func (w *walker) walkNested(l *model.Layer, hash, prefix string, depth int) (string, string, error) {
	p := "Nested"
	if l.Description != "" {
		p = terms.Quote(l.Description) + "\nNested"
	}
	if prefix != "" {
		p = prefix + "\n" + p
	}

	sinkID, sinkHash, err := w.walk(l.Sink, hash, p, depth)
	if err != nil {
		return "", "", err
	}

	if w.opts.MaxDepth > 0 && depth >= w.opts.MaxDepth {
		return sinkID, sinkHash, nil
	}

	if n := len(l.Sources); w.opts.MaxSources > 0 && n > w.opts.MaxSources {
		summary := sinkID + ":sources"
		w.sink.AddNode(summary, strconv.Itoa(n)+" sources", digraph.NodeStyle{})
		w.addEdge(summary, sinkID, w.feedColor(depth))
		return sinkID, sinkHash, nil
	}

	for i, src := range l.Sources {
		if i > 0 && w.opts.ColorMode == ColorModeBreadth {
			w.color++
		}
		srcID, _, err := w.walk(src, sinkHash, "", depth+1)
		if err != nil {
			return "", "", err
		}
		w.addEdge(srcID, sinkID, w.feedColor(depth))
	}
	return sinkID, sinkHash, nil
}

func (w *walker) walkLeaf(l *model.Layer, hash, prefix string, depth int) string {
	id := w.nodeID(hash)

	parts := make([]string, 0, 3)
	if prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, terms.FormatDescription(l.Type))
	if l.Description != "" {
		parts = append(parts, terms.Quote(l.Description))
	} else {
		parts = append(parts, "("+strconv.Itoa(w.unique[hash])+")")
	}
	label := strings.Join(parts, " ")

	ts := terms.Evaluate(l)
	if w.opts.WithTerms {
		label += terms.Join(ts)
	}

	var style digraph.NodeStyle
	if l.Type == model.TypeFilterLayer {
		style.Shape = "cds"
	}
	if w.opts.Warnings && terms.Warning(ts) {
		style.Style = "filled"
		style.FillColor = warningFill
		if !w.warned[id] {
			w.warned[id] = true
			w.warnings = append(w.warnings, id)
		}
	}
	w.sink.AddNode(id, label, style)

	for i, ls := range l.LossSets {
		if i > 0 && w.opts.ColorMode == ColorModeBreadth {
			w.color++
		}
		lsID := w.lossSetID(ls)
		w.sink.AddNode(lsID, lossSetLabel(ls), digraph.NodeStyle{
			Shape:     "box",
			Style:     "filled",
			Color:     lossSetFill,
			FillColor: lossSetFill,
		})
		w.addEdge(lsID, id, w.lossSetColor(depth))
	}
	return id
}

func (w *walker) nodeID(hash string) string {
	if w.opts.Compact {
		return hash
	}
	return hash + ":" + strconv.Itoa(w.unique[hash])
}

func (w *walker) lossSetID(ls model.LossSet) string {
	id := ls.ID
	if id == "" {
		c, err := canonicalJSON(ls)
		if err != nil {
			c = []byte(ls.Type + ls.Description)
		}
		id = contentHash(c, "")
	}
	if !w.opts.Compact {
		id += "_" + strconv.Itoa(w.next())
	}
	return id
}

func lossSetLabel(ls model.LossSet) string {
	typ := terms.FormatDescription(ls.Type)
	if typ == "" {
		typ = "LossSet"
	}
	if ls.Description == "" {
		return typ
	}
	return typ + " " + terms.Quote(ls.Description)
}

func (w *walker) addEdge(from, to, color string) {
	key := [2]string{from, to}
	if _, ok := w.edges[key]; ok {
		return
	}
	w.edges[key] = struct{}{}
	w.sink.AddEdge(from, to, digraph.EdgeStyle{Color: color})
}

// feedColor is the colour of a source -> sink edge.
func (w *walker) feedColor(depth int) string {
	if w.opts.Colors <= 1 {
		return ""
	}
	if w.opts.ColorMode == ColorModeDepth {
		return paletteColor(depth, w.opts.Colors)
	}
	return paletteColor(w.color, w.opts.Colors)
}

// lossSetColor is the colour of a loss set -> layer edge. In depth mode it
// is one step past the feed colour of the same level.
func (w *walker) lossSetColor(depth int) string {
	if w.opts.Colors <= 1 {
		return ""
	}
	if w.opts.ColorMode == ColorModeDepth {
		return paletteColor(depth+1, w.opts.Colors)
	}
	return paletteColor(w.color, w.opts.Colors)
}
