package flow

import (
	"fmt"

	"github.com/matzehuels/gitgraph/pkg/core/layout"
	"github.com/matzehuels/gitgraph/pkg/core/visibility"
	"github.com/matzehuels/gitgraph/pkg/graph"
)

// Adapter keeps the records of one graph in sync with a visibility controller.
//
// Records are built once in [NewAdapter]. Later changes rewrite the Hidden and
// Data.Collapsed fields in place; ids, positions and order never change.
// Like the controller, an Adapter is not safe for concurrent use.
type Adapter struct {
	ctrl    *visibility.Controller
	scene   Scene
	nodeIdx map[string]int
	onClick ClickHandler
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithClickHandler sets the handler clicks are forwarded to.
func WithClickHandler(fn ClickHandler) Option {
	return func(a *Adapter) { a.onClick = fn }
}

// NewAdapter builds the records for the controller's graph. edges must be the
// graph's edges in input order and res the layout of the same graph.
func NewAdapter(ctrl *visibility.Controller, edges []graph.Edge, res *layout.Result, opts ...Option) *Adapter {
	a := &Adapter{ctrl: ctrl}
	for _, opt := range opts {
		opt(a)
	}

	h := ctrl.Hierarchy()
	a.scene = build(h, edges, res, ctrl.Snapshot(), ctrl.Visible())
	a.nodeIdx = make(map[string]int, len(a.scene.Nodes))
	for i := range a.scene.Nodes {
		id := a.scene.Nodes[i].ID
		a.nodeIdx[id] = i
		a.scene.Nodes[i].Data.OnToggle = func() { a.toggle(id) }
	}
	return a
}

// Controller returns the controller the adapter is bound to.
func (a *Adapter) Controller() *visibility.Controller { return a.ctrl }

// Scene returns the current records. The slices are copies; the OnToggle
// callbacks stay bound to this adapter.
func (a *Adapter) Scene() Scene {
	s := a.scene
	s.Nodes = append([]Node(nil), a.scene.Nodes...)
	s.Edges = append([]Edge(nil), a.scene.Edges...)
	return s
}

// Node returns the record of id.
func (a *Adapter) Node(id string) (Node, bool) {
	i, ok := a.nodeIdx[id]
	if !ok {
		return Node{}, false
	}
	return a.scene.Nodes[i], true
}

// Dispatch handles a canvas event and reports whether the records changed.
//
// Toggle events mutate the collapsed set and never reach the click handler.
// Click events for known nodes are forwarded to the click handler; the
// records never change on a click.
func (a *Adapter) Dispatch(ev Event) (bool, error) {
	switch ev.Kind {
	case EventToggle:
		return a.toggle(ev.NodeID), nil
	case EventClick:
		if _, ok := a.nodeIdx[ev.NodeID]; ok && a.onClick != nil {
			a.onClick(ev.NodeID)
		}
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}
}

// Refresh rewrites the flags of every record from the controller. Call it
// after mutating the controller directly (Expand, CollapseAll, Reset...).
func (a *Adapter) Refresh() {
	visible := a.ctrl.Visible()
	for i := range a.scene.Nodes {
		n := &a.scene.Nodes[i]
		n.Hidden = !visible.Has(n.ID)
		n.Data.Collapsed = a.ctrl.IsCollapsed(n.ID)
	}
	for i := range a.scene.Edges {
		e := &a.scene.Edges[i]
		e.Hidden = !(visible.Has(e.Source) && visible.Has(e.Target))
	}
}

func (a *Adapter) toggle(id string) bool {
	if !a.ctrl.Toggle(id) {
		return false
	}
	a.Refresh()
	return true
}
