package layerview

import (
	"strconv"

	"github.com/analyzere/extras/pkg/model"
	"github.com/analyzere/extras/pkg/terms"
)

// LeafTerms is the term summary of one leaf layer.
type LeafTerms struct {
	// Node is the leaf's position in the tree, e.g. "layer.sources[1].sink".
	Node        string       `json:"node"`
	Type        string       `json:"type"`
	Description string       `json:"description,omitempty"`
	Depth       int          `json:"depth"`
	Terms       []terms.Term `json:"terms"`
	Warning     bool         `json:"warning"`
}

// Report evaluates the terms of every leaf in depth-first order: a nested
// layer's sink before its sources. Shared layers are reported once per
// occurrence.
func Report(lv *model.LayerView) ([]LeafTerms, error) {
	if err := lv.Validate(); err != nil {
		return nil, err
	}
	var out []LeafTerms
	collect(lv.Layer, "layer", 0, &out)
	return out, nil
}

func collect(l *model.Layer, node string, depth int, out *[]LeafTerms) {
	if l.IsNested() {
		collect(l.Sink, node+".sink", depth, out)
		for i, src := range l.Sources {
			collect(src, node+".sources["+strconv.Itoa(i)+"]", depth+1, out)
		}
		return
	}
	ts := terms.Evaluate(l)
	if ts == nil {
		ts = []terms.Term{}
	}
	*out = append(*out, LeafTerms{
		Node:        node,
		Type:        l.Type,
		Description: l.Description,
		Depth:       depth,
		Terms:       ts,
		Warning:     terms.Warning(ts),
	})
}
