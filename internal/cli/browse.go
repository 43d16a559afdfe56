package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gitgraph/pkg/detail"
	"github.com/matzehuels/gitgraph/pkg/errors"
	"github.com/matzehuels/gitgraph/pkg/render/flow"
	"github.com/matzehuels/gitgraph/pkg/source/local"
	"github.com/matzehuels/gitgraph/pkg/view"
)

var (
	outlineSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	outlineNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	outlineDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailPaneStyle      = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// browseCommand opens an interactive outline of the visible graph.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		in    inputOpts
		vo    viewOpts
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "browse [path | graph.json | owner/repo]",
		Short: "Explore a repository graph interactively",
		Long: `Explore a repository graph interactively.

Directories start collapsed according to the collapse policy. Toggle them
to reveal their children; select a node to see its detail.

Keys:
  ↑/k ↓/j   move
  enter     toggle directory
  space     show detail
  e / c     expand all / collapse all
  r         reset to the initial policy
  q         quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := "."
			if len(args) == 1 {
				arg = args[0]
			}
			return c.runBrowse(cmd, arg, &in, &vo, watch)
		},
	}

	addInputFlags(cmd, &in)
	c.addViewFlags(cmd, &vo)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload when files change (local directories only)")
	return cmd
}

func (c *CLI) runBrowse(cmd *cobra.Command, arg string, in *inputOpts, vo *viewOpts, watch bool) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	runner, err := c.newRunner(ctx, in.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	ld, err := c.load(ctx, runner, arg, in, cmd.InOrStdin())
	if err != nil {
		return err
	}
	v, err := c.openView(ctx, runner, ld, vo)
	if err != nil {
		return err
	}

	m := newBrowseModel(ctx, v, ld.input.String())
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())

	if watch {
		if ld.input.kind != inputLocal {
			return errors.New(errors.ErrCodeInvalidInput, "--watch needs a local directory, got %s", ld.input)
		}
		root, err := filepath.Abs(ld.input.path)
		if err != nil {
			return err
		}
		go func() {
			err := local.Watch(ctx, root, local.DefaultDebounce, c.Logger, func() {
				next, err := c.load(ctx, runner, arg, in, nil)
				if err != nil {
					program.Send(reloadMsg{err: err})
					return
				}
				applied, err := v.Load(ctx, next.graph)
				program.Send(reloadMsg{applied: applied, err: err})
			})
			if err != nil && ctx.Err() == nil {
				program.Send(reloadMsg{err: err})
			}
		}()
	}

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// =============================================================================
// browseModel
// =============================================================================

// outlineRow is one visible node in the outline.
type outlineRow struct {
	node  flow.Node
	depth int
}

// reloadMsg reports a watch-triggered reload.
type reloadMsg struct {
	applied bool
	err     error
}

// browseModel is the bubbletea model over a live view.
type browseModel struct {
	ctx    context.Context
	view   *view.View
	title  string
	rows   []outlineRow
	cursor int
	offset int
	height int
	detail *detail.Detail
	status string
}

func newBrowseModel(ctx context.Context, v *view.View, title string) browseModel {
	m := browseModel{ctx: ctx, view: v, title: title, height: 20}
	m.rows = outline(v.Scene())
	return m
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "enter":
			if id, ok := m.selected(); ok {
				m = m.dispatch(flow.Event{Kind: flow.EventToggle, NodeID: id})
			}
		case " ":
			if id, ok := m.selected(); ok {
				m = m.dispatch(flow.Event{Kind: flow.EventClick, NodeID: id})
			}
		case "e":
			m = m.dispatch(flow.Event{Kind: view.EventExpandAll})
		case "c":
			m = m.dispatch(flow.Event{Kind: view.EventCollapseAll})
		case "r":
			m = m.dispatch(flow.Event{Kind: view.EventReset})
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	case reloadMsg:
		switch {
		case msg.err != nil:
			m.status = StyleWarning.Render("reload failed: " + errors.UserMessage(msg.err))
		case msg.applied:
			m.status = StyleDim.Render("reloaded")
			m = m.refresh(m.view.Scene())
		}
	}
	m.scroll()
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(outlineDimStyle.Render("↑/↓ move  ⏎ toggle  space detail  e/c expand/collapse all  r reset  q quit"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(StyleDim.Render(flow.EmptyMessage))
		b.WriteString("\n")
		return b.String()
	}

	var list strings.Builder
	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		list.WriteString(m.renderRow(i))
		list.WriteString("\n")
	}

	out := list.String()
	if m.detail != nil {
		out = lipgloss.JoinHorizontal(lipgloss.Top, out, "  ", renderDetail(m.detail))
	}
	b.WriteString(out)
	b.WriteString("\n")
	b.WriteString(outlineDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))
	if m.status != "" {
		b.WriteString("  ")
		b.WriteString(m.status)
	}
	return b.String()
}

func (m browseModel) renderRow(i int) string {
	r := m.rows[i]
	cursor := "  "
	style := outlineNormalStyle
	if i == m.cursor {
		cursor = "▸ "
		style = outlineSelectedStyle
	}

	marker := "  "
	label := r.node.Data.Label
	if r.node.Data.Kind == flow.KindFolder {
		switch {
		case !r.node.Data.HasChildren:
			marker = "· "
		case r.node.Data.Collapsed:
			marker = "+ "
		default:
			marker = "- "
		}
		label = styleFolder.Render(label + "/")
	}
	return cursor + strings.Repeat("  ", r.depth) + style.Render(marker) + label
}

func renderDetail(d *detail.Detail) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(d.Name))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%s · depth %d", d.Kind, d.Depth)))
	b.WriteString("\n")
	if d.Path != "" {
		b.WriteString(StyleValue.Render(d.Path))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(48).Render(d.Description))
	if len(d.Children) > 0 {
		b.WriteString("\n\n")
		for _, c := range d.Children {
			name := c.Name
			if c.Kind == flow.KindFolder {
				name = styleFolder.Render(name + "/")
			}
			b.WriteString("  " + name + "\n")
		}
	}
	return detailPaneStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m browseModel) selected() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return "", false
	}
	return m.rows[m.cursor].node.ID, true
}

func (m browseModel) dispatch(ev flow.Event) browseModel {
	up, err := m.view.Dispatch(m.ctx, ev)
	if err != nil {
		m.status = StyleWarning.Render(errors.UserMessage(err))
		return m
	}
	m.status = ""
	if up.Detail != nil {
		m.detail = up.Detail
	}
	return m.refresh(up.Scene)
}

// refresh rebuilds the outline and keeps the cursor on the same node.
func (m browseModel) refresh(s flow.Scene) browseModel {
	current, _ := m.selected()
	m.rows = outline(s)
	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
	for i, r := range m.rows {
		if r.node.ID == current {
			m.cursor = i
			break
		}
	}
	if m.detail != nil && !slices.ContainsFunc(m.rows, func(r outlineRow) bool { return r.node.ID == m.detail.ID }) {
		m.detail = nil
	}
	return m
}

func (m *browseModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// outline orders the visible nodes depth-first, siblings left to right.
func outline(s flow.Scene) []outlineRow {
	nodes := s.VisibleNodes()
	byID := make(map[string]flow.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	children := make(map[string][]string)
	hasParent := make(map[string]bool)
	for _, e := range s.VisibleEdges() {
		if _, ok := byID[e.Source]; !ok {
			continue
		}
		if _, ok := byID[e.Target]; !ok {
			continue
		}
		children[e.Source] = append(children[e.Source], e.Target)
		hasParent[e.Target] = true
	}

	byX := func(a, b string) int {
		pa, pb := byID[a].Position, byID[b].Position
		if pa.X != pb.X {
			if pa.X < pb.X {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	}

	var roots []string
	for _, n := range nodes {
		if !hasParent[n.ID] {
			roots = append(roots, n.ID)
		}
	}
	slices.SortFunc(roots, func(a, b string) int {
		if ya, yb := byID[a].Position.Y, byID[b].Position.Y; ya != yb {
			if ya < yb {
				return -1
			}
			return 1
		}
		return byX(a, b)
	})

	rows := make([]outlineRow, 0, len(nodes))
	seen := make(map[string]bool, len(nodes))
	var visit func(id string, depth int)
	visit = func(id string, depth int) {
		if seen[id] {
			return
		}
		seen[id] = true
		rows = append(rows, outlineRow{node: byID[id], depth: depth})
		kids := children[id]
		slices.SortFunc(kids, byX)
		for _, k := range kids {
			visit(k, depth+1)
		}
	}
	for _, r := range roots {
		visit(r, 0)
	}
	return rows
}
