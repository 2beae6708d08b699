package digraph

import (
	"bytes"
	"fmt"
	"strings"
)

// DOTOptions controls graph-wide attributes of the generated DOT source.
type DOTOptions struct {
	// Rankdir is the layout direction: TB, LR, BT or RL. Defaults to BT.
	Rankdir string
	// Size is the Graphviz size attribute in inches, e.g. "120,120".
	Size string
}

// ToDOT converts g to Graphviz DOT source.
//
// Labels are expected to be pre-escaped for display: backslashes are passed
// through untouched so sequences such as \n keep their Graphviz meaning.
func ToDOT(g *Graph, opts DOTOptions) string {
	rankdir := opts.Rankdir
	if rankdir == "" {
		rankdir = "BT"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	if opts.Size != "" {
		fmt.Fprintf(&buf, "  size=%s;\n", quote(opts.Size))
	}
	buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=white, color=black];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{"label=" + quote(n.Label)}
		attrs = appendAttr(attrs, "shape", n.Style.Shape)
		attrs = appendAttr(attrs, "style", n.Style.Style)
		attrs = appendAttr(attrs, "color", n.Style.Color)
		attrs = appendAttr(attrs, "fillcolor", n.Style.FillColor)
		fmt.Fprintf(&buf, "  %s [%s];\n", quoteID(n.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if e.Style.Color != "" {
			fmt.Fprintf(&buf, "  %s -> %s [color=%s];\n", quoteID(e.From), quoteID(e.To), quote(e.Style.Color))
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s;\n", quoteID(e.From), quoteID(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func appendAttr(attrs []string, key, value string) []string {
	if value == "" {
		return attrs
	}
	return append(attrs, key+"="+quote(value))
}

var dotQuoter = strings.NewReplacer(`"`, `\"`, "\n", `\n`, "\r", `\r`)

func quote(s string) string {
	return `"` + dotQuoter.Replace(s) + `"`
}

var idQuoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

// quoteID quotes a node ID. IDs come from input documents, so unlike labels
// every backslash is literal.
func quoteID(s string) string {
	return `"` + idQuoter.Replace(s) + `"`
}
