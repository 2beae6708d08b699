package layerview

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/analyzere/extras/pkg/digraph"
	aerrors "github.com/analyzere/extras/pkg/errors"
	"github.com/analyzere/extras/pkg/model"
)

const testID = "ee3f8420-c583-4dd4-9f9d-8ade29b0d82f"

func ptr[T any](v T) *T { return &v }

func money(v float64) *model.MoneyField {
	return &model.MoneyField{Value: v, Currency: "USD"}
}

func catXL() *model.LayerView {
	return &model.LayerView{
		ID: testID,
		Layer: &model.Layer{
			Type:       model.TypeCatXL,
			Attachment: money(500000),
			Limit:      money(500000),
			Nth:        ptr(1),
			LossSets: []model.LossSet{
				{ID: "ls-a", Type: "ELTLossSet", Description: "US Hurricane"},
				{ID: "ls-b", Type: "ELTLossSet", Description: "EU Wind"},
			},
		},
	}
}

func source(desc string) *model.Layer {
	return &model.Layer{Type: model.TypeCatXL, Description: desc, Attachment: money(100)}
}

func nested(sink *model.Layer, sources ...*model.Layer) *model.Layer {
	return &model.Layer{Type: model.TypeNestedLayer, Sink: sink, Sources: sources}
}

func edgeSet(g *digraph.Graph) map[[2]string]bool {
	out := make(map[[2]string]bool)
	for _, e := range g.Edges() {
		out[[2]string{e.From, e.To}] = true
	}
	return out
}

func TestEndToEndCatXL(t *testing.T) {
	d, err := New(catXL(), DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	g := d.Graph()
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	if len(d.Warnings()) != 0 {
		t.Errorf("Warnings() = %v, want none", d.Warnings())
	}

	layerID := g.Nodes()[0].ID
	for _, ls := range []string{"ls-a", "ls-b"} {
		if !g.HasEdge(ls, layerID) {
			t.Errorf("missing edge %s -> layer", ls)
		}
	}

	want := testID + "_BT_compact_with-terms_warnings-enabled"
	if got := d.Filename(); got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}
}

func TestLeafLabel(t *testing.T) {
	d, err := New(catXL(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	want := "CatXL (1)\nocc_att=500,000 USD\nocc_lim=500,000 USD\nnth=1"
	if got := d.Graph().Nodes()[0].Label; got != want {
		t.Errorf("label = %q, want %q", got, want)
	}

	opts := DefaultOptions()
	opts.WithTerms = false
	lv := catXL()
	lv.Layer.Description = "Layer 'auto: Filter by HU' loaded by 1.25"
	d, err = New(lv, opts)
	if err != nil {
		t.Fatal(err)
	}
	want = "CatXL 'Layer auto: Filter by HU loaded by 1.25'"
	if got := d.Graph().Nodes()[0].Label; got != want {
		t.Errorf("label = %q, want %q", got, want)
	}

	ls, ok := d.Graph().Node("ls-a")
	if !ok {
		t.Fatal("loss set node missing")
	}
	if ls.Label != "ELTLossSet 'US Hurricane'" || ls.Style.Shape != "box" {
		t.Errorf("loss set node = %+v", ls)
	}
}

func TestInvalidLayerView(t *testing.T) {
	tests := []struct {
		name string
		lv   *model.LayerView
	}{
		{"nil", nil},
		{"no layer", &model.LayerView{ID: testID}},
		{"nested without sink", &model.LayerView{ID: testID, Layer: &model.Layer{Type: model.TypeNestedLayer}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.lv, DefaultOptions())
			if d != nil {
				t.Error("New returned a graph for invalid input")
			}
			if !aerrors.Is(err, aerrors.ErrCodeInvalidLayerView) {
				t.Errorf("error = %v, want INVALID_LAYER_VIEW", err)
			}
		})
	}
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"rankdir", func(o *Options) { o.Rankdir = "XX" }},
		{"color mode", func(o *Options) { o.ColorMode = "random" }},
		{"format", func(o *Options) { o.Format = "gif" }},
		{"negative depth", func(o *Options) { o.MaxDepth = -1 }},
		{"negative sources", func(o *Options) { o.MaxSources = -2 }},
		{"colors", func(o *Options) { o.Colors = -1 }},
		{"colors beyond palette", func(o *Options) { o.Colors = len(palette) + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			if _, err := New(catXL(), opts); !aerrors.IsInvalid(err) {
				t.Errorf("error = %v, want an INVALID_* error", err)
			}
		})
	}
}

func TestIdempotentIdentity(t *testing.T) {
	lv := &model.LayerView{ID: testID, Layer: nested(
		&model.Layer{Type: model.TypeQuotaShare, Participation: ptr(0.5)},
		source("a"),
		nested(source("inner sink"), source("b"), source("c")),
	)}

	first, err := New(lv, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	second, err := New(lv, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	ids := func(d *Digraph) []string {
		var out []string
		for _, n := range d.Graph().Nodes() {
			out = append(out, n.ID)
		}
		return out
	}
	if !slices.Equal(ids(first), ids(second)) {
		t.Errorf("node ids differ:\n%v\n%v", ids(first), ids(second))
	}
	e1, e2 := edgeSet(first.Graph()), edgeSet(second.Graph())
	if len(e1) != len(e2) {
		t.Fatalf("edge counts differ: %d vs %d", len(e1), len(e2))
	}
	for e := range e1 {
		if !e2[e] {
			t.Errorf("edge %v missing from second build", e)
		}
	}
}

func TestIdentityIgnoresFieldOrder(t *testing.T) {
	a, err := model.DecodeLayerView([]byte(`{"id": "x", "layer": {"_type": "CatXL", "participation": 1, "description": "d"}}`))
	if err != nil {
		t.Fatal(err)
	}
	b, err := model.DecodeLayerView([]byte(`{"layer": {"description": "d", "participation": 1.0, "_type": "CatXL"}, "id": "x"}`))
	if err != nil {
		t.Fatal(err)
	}

	da, err := New(a, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	db, err := New(b, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if da.Graph().Nodes()[0].ID != db.Graph().Nodes()[0].ID {
		t.Error("equivalent documents produced different node ids")
	}
}

func TestCompactVersusNonCompact(t *testing.T) {
	shared := source("shared")
	lv := &model.LayerView{ID: testID, Layer: nested(
		&model.Layer{Type: model.TypeQuotaShare, Description: "sink"},
		shared, shared,
	)}

	compact, err := New(lv, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	// sink + one shared source
	if got := compact.Graph().NodeCount(); got != 2 {
		t.Errorf("compact NodeCount() = %d, want 2", got)
	}
	if got := compact.Graph().EdgeCount(); got != 1 {
		t.Errorf("compact EdgeCount() = %d, want 1", got)
	}

	opts := DefaultOptions()
	opts.Compact = false
	expanded, err := New(lv, opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := expanded.Graph().NodeCount(); got != 3 {
		t.Errorf("non-compact NodeCount() = %d, want 3", got)
	}
	if got := expanded.Graph().EdgeCount(); got != 2 {
		t.Errorf("non-compact EdgeCount() = %d, want 2", got)
	}
	for _, n := range expanded.Graph().Nodes() {
		if !strings.Contains(n.ID, ":") {
			t.Errorf("non-compact node id %q has no ordinal suffix", n.ID)
		}
	}
}

func TestSharedLayerUnderDifferentSinks(t *testing.T) {
	shared := source("shared")
	lv := &model.LayerView{ID: testID, Layer: nested(
		&model.Layer{Type: model.TypeQuotaShare, Description: "top"},
		nested(source("left sink"), shared),
		nested(source("right sink"), shared),
	)}

	d, err := New(lv, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	count := 0
	for _, n := range d.Graph().Nodes() {
		if strings.Contains(n.Label, "'shared'") {
			count++
		}
	}
	if count != 2 {
		t.Errorf("shared layer drawn %d times, want 2 (one per sink)", count)
	}
}

func TestMaxSources(t *testing.T) {
	sources := make([]*model.Layer, 10)
	for i := range sources {
		sources[i] = source("src " + string(rune('a'+i)))
	}
	lv := &model.LayerView{ID: testID, Layer: nested(&model.Layer{Type: model.TypeQuotaShare}, sources...)}

	opts := DefaultOptions()
	opts.MaxSources = 3
	d, err := New(lv, opts)
	if err != nil {
		t.Fatal(err)
	}

	g := d.Graph()
	if g.NodeCount() != 2 {
		t.Fatalf("NodeCount() = %d, want sink + summary", g.NodeCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	sinkID := g.Nodes()[0].ID
	summary, ok := g.Node(sinkID + ":sources")
	if !ok {
		t.Fatal("summary node missing")
	}
	if summary.Label != "10 sources" {
		t.Errorf("summary label = %q, want %q", summary.Label, "10 sources")
	}
	if !g.HasEdge(summary.ID, sinkID) {
		t.Error("summary edge missing")
	}

	opts.MaxSources = 10
	d, err = New(lv, opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Graph().NodeCount(); got != 11 {
		t.Errorf("NodeCount() at limit = %d, want 11", got)
	}
}

func TestMaxDepth(t *testing.T) {
	deep := nested(source("inner sink"), source("deep"))
	lv := &model.LayerView{ID: testID, Layer: nested(source("root sink"), source("shallow"), deep)}

	tests := []struct {
		maxDepth  int
		wantNodes int
	}{
		{0, 4}, // unlimited
		{1, 3}, // root sink, shallow, inner sink
		{2, 4},
	}

	for _, tt := range tests {
		opts := DefaultOptions()
		opts.MaxDepth = tt.maxDepth
		d, err := New(lv, opts)
		if err != nil {
			t.Fatal(err)
		}
		if got := d.Graph().NodeCount(); got != tt.wantNodes {
			t.Errorf("MaxDepth=%d: NodeCount() = %d, want %d", tt.maxDepth, got, tt.wantNodes)
		}
	}
}

func TestNestedPrefix(t *testing.T) {
	lv := &model.LayerView{ID: testID, Layer: &model.Layer{
		Type:        model.TypeNestedLayer,
		Description: "Program",
		Sink:        &model.Layer{Type: model.TypeQuotaShare},
		Sources:     []*model.Layer{source("a")},
	}}

	opts := DefaultOptions()
	opts.WithTerms = false
	d, err := New(lv, opts)
	if err != nil {
		t.Fatal(err)
	}

	// the nested node takes ordinal 1 and the sink ordinal 2
	want := "'Program'\nNested QuotaShare (2)"
	if got := d.Graph().Nodes()[0].Label; got != want {
		t.Errorf("sink label = %q, want %q", got, want)
	}
}

func TestWarnings(t *testing.T) {
	lv := &model.LayerView{ID: testID, Layer: nested(
		&model.Layer{Type: model.TypeQuotaShare, Participation: ptr(0.0)},
		&model.Layer{Type: model.TypeFilterLayer, Filters: []model.LossFilter{}, Invert: ptr(false)},
		&model.Layer{Type: model.TypeCatXL, Limit: money(math.MaxFloat64)},
	)}

	d, err := New(lv, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if got := len(d.Warnings()); got != 2 {
		t.Fatalf("Warnings() = %v, want 2 entries", d.Warnings())
	}
	for _, id := range d.Warnings() {
		n, _ := d.Graph().Node(id)
		if n.Style.FillColor != warningFill {
			t.Errorf("warning node %s fill = %q", id, n.Style.FillColor)
		}
	}

	filter := d.Graph().Nodes()[1]
	if filter.Style.Shape != "cds" {
		t.Errorf("filter layer shape = %q, want cds", filter.Style.Shape)
	}

	opts := DefaultOptions()
	opts.Warnings = false
	d, err = New(lv, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Warnings()) != 0 {
		t.Errorf("Warnings() with highlighting disabled = %v", d.Warnings())
	}
}

func TestEdgeColors(t *testing.T) {
	lv := &model.LayerView{ID: testID, Layer: nested(
		&model.Layer{Type: model.TypeQuotaShare},
		source("a"), source("b"), source("c"),
	)}

	opts := DefaultOptions()
	d, err := New(lv, opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range d.Graph().Edges() {
		if e.Style.Color != "" {
			t.Errorf("single colour edge has color %q", e.Style.Color)
		}
	}

	opts.Colors = 3
	d, err = New(lv, opts)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, e := range d.Graph().Edges() {
		got = append(got, e.Style.Color)
	}
	if want := []string{"black", "blue", "red"}; !slices.Equal(got, want) {
		t.Errorf("breadth colours = %v, want %v", got, want)
	}

	opts.ColorMode = ColorModeDepth
	d, err = New(lv, opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range d.Graph().Edges() {
		if e.Style.Color != "black" {
			t.Errorf("depth mode edge at depth 0 has color %q, want black", e.Style.Color)
		}
	}
}

func TestEdgeColorsWithLossSets(t *testing.T) {
	leaf := func(desc string, lossSets ...string) *model.Layer {
		l := source(desc)
		for _, id := range lossSets {
			l.LossSets = append(l.LossSets, model.LossSet{ID: id, Type: "ELTLossSet"})
		}
		return l
	}
	mid := leaf("mid", "ls-mid")
	mid.Type = model.TypeQuotaShare
	lv := &model.LayerView{ID: testID, Layer: nested(
		&model.Layer{Type: model.TypeQuotaShare, Description: "top"},
		nested(mid, leaf("leaf1", "ls-1a", "ls-1b"), leaf("leaf2", "ls-2a", "ls-2b")),
	)}

	// Edges are keyed by the loss set ID or by the description of the
	// layers they join.
	tests := []struct {
		name   string
		colors int
		mode   string
		want   map[string]string
	}{
		{
			name:   "depth",
			colors: 3,
			mode:   ColorModeDepth,
			want: map[string]string{
				"ls-mid":     "red",
				"ls-1a":      "black",
				"ls-1b":      "black",
				"ls-2a":      "black",
				"ls-2b":      "black",
				"leaf1->mid": "blue",
				"leaf2->mid": "blue",
				"mid->top":   "black",
			},
		},
		{
			name:   "depth without wrap",
			colors: 4,
			mode:   ColorModeDepth,
			want: map[string]string{
				"ls-mid":     "red",
				"ls-1a":      "darkgreen",
				"ls-1b":      "darkgreen",
				"ls-2a":      "darkgreen",
				"ls-2b":      "darkgreen",
				"leaf1->mid": "blue",
				"leaf2->mid": "blue",
				"mid->top":   "black",
			},
		},
		{
			name:   "breadth",
			colors: 3,
			mode:   ColorModeBreadth,
			want: map[string]string{
				"ls-mid":     "black",
				"ls-1a":      "black",
				"ls-1b":      "blue",
				"leaf1->mid": "blue",
				"ls-2a":      "red",
				"ls-2b":      "black",
				"leaf2->mid": "black",
				"mid->top":   "black",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Colors = tt.colors
			opts.ColorMode = tt.mode
			d, err := New(lv, opts)
			if err != nil {
				t.Fatal(err)
			}

			names := make(map[string]string)
			for _, n := range d.Graph().Nodes() {
				for _, desc := range []string{"top", "mid", "leaf1", "leaf2"} {
					if strings.Contains(n.Label, "'"+desc+"'") {
						names[n.ID] = desc
					}
				}
			}

			got := make(map[string]string)
			for _, e := range d.Graph().Edges() {
				key := e.From
				if from, ok := names[e.From]; ok {
					key = from + "->" + names[e.To]
				}
				got[key] = e.Style.Color
			}
			if len(got) != len(tt.want) {
				t.Errorf("got %d edges, want %d: %v", len(got), len(tt.want), got)
			}
			for key, want := range tt.want {
				if got[key] != want {
					t.Errorf("edge %s colour = %q, want %q", key, got[key], want)
				}
			}
		})
	}
}

func TestBackslashIdentifiersRender(t *testing.T) {
	lv := catXL()
	lv.Layer.LossSets = []model.LossSet{{ID: `ls\`, Type: `Bad\Type`, Description: `C:\losses`}}

	d, err := New(lv, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Artifact(context.Background(), "svg", 0); err != nil {
		t.Fatalf("Artifact(svg): %v\n%s", err, d.DOT())
	}
	node, ok := d.Graph().Node(`ls\`)
	if !ok {
		t.Fatalf("loss set node missing")
	}
	if want := `Bad\\Type 'C:\\losses'`; node.Label != want {
		t.Errorf("loss set label = %q, want %q", node.Label, want)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		want   string
	}{
		{"defaults", func(*Options) {}, "_BT_compact_with-terms_warnings-enabled"},
		{"without terms", func(o *Options) { o.WithTerms = false }, "_BT_compact_without-terms_warnings-enabled"},
		{"not compact", func(o *Options) { o.Compact = false }, "_BT_not-compact_with-terms_warnings-enabled"},
		{"without warnings", func(o *Options) { o.Warnings = false }, "_BT_compact_with-terms_warnings-disabled"},
		{"format", func(o *Options) { o.Format = "pdf" }, "_BT_compact_with-terms_warnings-enabled"},
		{"rankdir", func(o *Options) { o.Rankdir = "TB" }, "_TB_compact_with-terms_warnings-enabled"},
		{"max depth", func(o *Options) { o.MaxDepth = 3 }, "_BT_compact_with-terms_warnings-enabled_depth-3"},
		{"max sources", func(o *Options) { o.MaxSources = 3 }, "_BT_compact_with-terms_warnings-enabled_srclimit-3"},
		{"colors", func(o *Options) { o.Colors = 3 }, "_BT_compact_with-terms_warnings-enabled_3-colors-by-breadth"},
		{"colors by depth", func(o *Options) { o.Colors = 3; o.ColorMode = ColorModeDepth }, "_BT_compact_with-terms_warnings-enabled_3-colors-by-depth"},
		{"mode without colors", func(o *Options) { o.ColorMode = ColorModeDepth }, "_BT_compact_with-terms_warnings-enabled"},
		{"all limits", func(o *Options) { o.MaxDepth = 2; o.MaxSources = 4; o.Colors = 5 }, "_BT_compact_with-terms_warnings-enabled_depth-2_srclimit-4_5-colors-by-breadth"},
		{"explicit", func(o *Options) { o.Filename = "my_graph"; o.Rankdir = "LR" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			d, err := New(catXL(), opts)
			if err != nil {
				t.Fatal(err)
			}
			want := testID + tt.want
			if opts.Filename != "" {
				want = opts.Filename
			}
			if got := d.Filename(); got != want {
				t.Errorf("Filename() = %q, want %q", got, want)
			}
		})
	}
}

func TestFilenameDeterminism(t *testing.T) {
	a, _ := New(catXL(), DefaultOptions())
	b, _ := New(catXL(), DefaultOptions())
	if a.Filename() != b.Filename() {
		t.Errorf("filenames differ: %q vs %q", a.Filename(), b.Filename())
	}
}

func TestRenderWritesFile(t *testing.T) {
	d, err := New(catXL(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	path, err := d.Render(context.Background(), RenderOptions{Format: "dot", Dir: dir})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := filepath.Join(dir, testID+"_BT_compact_with-terms_warnings-enabled.dot")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != d.DOT() {
		t.Error("file content does not match DOT()")
	}
	if d.Options().Format != "dot" {
		t.Errorf("Format after render = %q, want dot", d.Options().Format)
	}
}

func TestRenderRankdirChangesFilename(t *testing.T) {
	d, err := New(catXL(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	path, err := d.Render(context.Background(), RenderOptions{Format: "dot", Rankdir: "TB", Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	want := testID + "_TB_compact_with-terms_warnings-enabled"
	if d.Filename() != want {
		t.Errorf("Filename() = %q, want %q", d.Filename(), want)
	}
	if filepath.Base(path) != want+".dot" {
		t.Errorf("path = %q", path)
	}
	if !strings.Contains(d.DOT(), "rankdir=TB;") {
		t.Error("DOT does not use the new rankdir")
	}
}

func TestRenderExplicitFilename(t *testing.T) {
	d, err := New(catXL(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	path, err := d.Render(context.Background(), RenderOptions{Format: "dot", Filename: "my_graph", Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "my_graph.dot" {
		t.Errorf("path = %q, want my_graph.dot", path)
	}
}

func TestRenderViewFallback(t *testing.T) {
	calls := 0
	orig := openFile
	openFile = func(context.Context, string) error {
		calls++
		return errors.New("no display")
	}
	defer func() { openFile = orig }()

	d, err := New(catXL(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	path, err := d.Render(context.Background(), RenderOptions{Format: "dot", Dir: t.TempDir(), View: true})
	if err != nil {
		t.Fatalf("Render with failing viewer: %v", err)
	}
	if calls != 1 {
		t.Errorf("viewer called %d times, want 1", calls)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("rendered file missing: %v", err)
	}
}

func TestRenderJSON(t *testing.T) {
	d, err := New(catXL(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	out, err := d.Artifact(context.Background(), FormatJSON, 0)
	if err != nil {
		t.Fatal(err)
	}
	var snap digraph.Snapshot
	if err := json.Unmarshal(out, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(snap.Nodes) != 3 || len(snap.Edges) != 2 {
		t.Errorf("snapshot has %d nodes, %d edges", len(snap.Nodes), len(snap.Edges))
	}
}

func TestRenderInvalidOverride(t *testing.T) {
	d, err := New(catXL(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Render(context.Background(), RenderOptions{Rankdir: "UP"}); !aerrors.Is(err, aerrors.ErrCodeInvalidOption) {
		t.Errorf("error = %v, want INVALID_OPTION", err)
	}
	if _, err := d.Render(context.Background(), RenderOptions{Format: "bmp"}); !aerrors.Is(err, aerrors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}
