package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/analyzere/extras/pkg/digraph"
	"github.com/analyzere/extras/pkg/layerview"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listWarningStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	detailBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

type inspectOpts struct {
	source sourceFlags
	graph  graphFlags
}

// inspectCommand creates the "layerview inspect" command.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Browse the nodes of a LayerView graph interactively",
		Args:  sourceArgs(&opts.source),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.buildDigraph(cmd.Context(), cmd, args, &opts.source, &opts.graph)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(NewNodeBrowserModel(d), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	opts.source.register(cmd)
	opts.graph.register(cmd)
	return cmd
}

// =============================================================================
// NodeBrowserModel - Interactive graph node browser
// =============================================================================

// NodeBrowserModel is the bubbletea model for browsing graph nodes. The
// list shows each node's first label line; the detail pane shows the full
// label, style and neighbours of the selected node.
type NodeBrowserModel struct {
	Title  string
	Nodes  []digraph.Node
	Cursor int
	Height int
	Offset int

	feeds  map[string][]string // node -> nodes it feeds
	fedBy  map[string][]string // node -> nodes feeding it
	warned map[string]bool
	labels map[string]string
}

// NewNodeBrowserModel creates a browser over d's graph.
func NewNodeBrowserModel(d *layerview.Digraph) NodeBrowserModel {
	g := d.Graph()
	m := NodeBrowserModel{
		Title:  "Layer view " + d.LayerView().ID,
		Nodes:  g.Nodes(),
		Height: 12,
		feeds:  make(map[string][]string),
		fedBy:  make(map[string][]string),
		warned: make(map[string]bool),
		labels: make(map[string]string),
	}
	for _, n := range m.Nodes {
		m.labels[n.ID] = headline(n.Label)
	}
	for _, e := range g.Edges() {
		m.feeds[e.From] = append(m.feeds[e.From], e.To)
		m.fedBy[e.To] = append(m.fedBy[e.To], e.From)
	}
	for _, id := range d.Warnings() {
		m.warned[id] = true
	}
	return m
}

func (m NodeBrowserModel) Init() tea.Cmd {
	return nil
}

func (m NodeBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Nodes)-1, 0)
		case "n":
			m.Cursor = m.nextWarning()
		}
	case tea.WindowSizeMsg:
		// leave room for the title and the detail pane
		m.Height = max(msg.Height/2-4, 5)
	}

	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

// nextWarning returns the index of the next highlighted node after the
// cursor, wrapping around, or the cursor if there is none.
func (m NodeBrowserModel) nextWarning() int {
	for i := 1; i <= len(m.Nodes); i++ {
		j := (m.Cursor + i) % len(m.Nodes)
		if m.warned[m.Nodes[j].ID] {
			return j
		}
	}
	return m.Cursor
}

func (m NodeBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  n next warning  q quit"))
	b.WriteString("\n\n")

	if len(m.Nodes) == 0 {
		b.WriteString(StyleDim.Render("empty graph"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Nodes))
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		marker := " "
		if m.warned[n.ID] {
			marker = iconWarning
		}
		line := fmt.Sprintf("%s%s %s", cursor, marker, m.labels[n.ID])

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case m.warned[n.ID]:
			b.WriteString(listWarningStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))
	b.WriteString("\n")
	b.WriteString(detailBoxStyle.Render(m.detail(m.Nodes[m.Cursor])))
	return b.String()
}

func (m NodeBrowserModel) detail(n digraph.Node) string {
	var b strings.Builder
	b.WriteString(StyleValue.Render(n.Label))
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render("id     ") + n.ID + "\n")
	if n.Style.Shape != "" {
		b.WriteString(StyleDim.Render("shape  ") + n.Style.Shape + "\n")
	}
	if m.warned[n.ID] {
		b.WriteString(StyleWarning.Render("terms need attention") + "\n")
	}
	m.writeNeighbours(&b, "feeds  ", m.feeds[n.ID])
	m.writeNeighbours(&b, "fed by ", m.fedBy[n.ID])
	return strings.TrimRight(b.String(), "\n")
}

func (m NodeBrowserModel) writeNeighbours(b *strings.Builder, title string, ids []string) {
	if len(ids) == 0 {
		return
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = m.labels[id]
	}
	b.WriteString(StyleDim.Render(title) + strings.Join(names, ", ") + "\n")
}

// headline returns the first line of a node label.
func headline(label string) string {
	first, _, _ := strings.Cut(label, "\n")
	return first
}
