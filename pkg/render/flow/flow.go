package flow

import (
	"errors"
	"fmt"

	"github.com/matzehuels/gitgraph/pkg/core/hierarchy"
	"github.com/matzehuels/gitgraph/pkg/core/layout"
	"github.com/matzehuels/gitgraph/pkg/core/visibility"
	"github.com/matzehuels/gitgraph/pkg/graph"
)

// NodeType is the canvas node type every record carries.
const NodeType = "custom"

// EmptyMessage is shown in place of an empty canvas.
const EmptyMessage = "No graph nodes found for this repository"

// Kind is the display kind of a node.
type Kind string

// Node kinds.
const (
	KindFolder Kind = "folder"
	KindFile   Kind = "file"
)

// KindOf returns the display kind of n.
func KindOf(n *graph.Node) Kind {
	if n != nil && n.IsDir() {
		return KindFolder
	}
	return KindFile
}

// =============================================================================
// Records
// =============================================================================

// NodeData is the display payload of a node record.
type NodeData struct {
	Label       string `json:"label"`
	Kind        Kind   `json:"kind"`
	HasChildren bool   `json:"hasChildren"`
	Collapsed   bool   `json:"collapsed"`

	// OnToggle flips the node's collapsed state. Nil in scenes built by
	// [Project]; bound by an [Adapter].
	OnToggle func() `json:"-"`
}

// Node is a positioned node record.
type Node struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Position layout.Point `json:"position"`
	Hidden   bool         `json:"hidden"`
	Data     NodeData     `json:"data"`
}

// Edge is an edge record.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Hidden bool   `json:"hidden"`
}

// Scene is the complete set of records for one graph view.
type Scene struct {
	Nodes   []Node `json:"nodes"`
	Edges   []Edge `json:"edges"`
	Empty   bool   `json:"empty"`
	Message string `json:"message,omitempty"`
}

// VisibleNodes returns the records that are not hidden.
func (s Scene) VisibleNodes() []Node {
	var out []Node
	for _, n := range s.Nodes {
		if !n.Hidden {
			out = append(out, n)
		}
	}
	return out
}

// VisibleEdges returns the edge records that are not hidden.
func (s Scene) VisibleEdges() []Edge {
	var out []Edge
	for _, e := range s.Edges {
		if !e.Hidden {
			out = append(out, e)
		}
	}
	return out
}

// EdgeID formats the record id of the index-th rendered edge.
func EdgeID(source, target string, index int) string {
	return fmt.Sprintf("%s-%s-%d", source, target, index)
}

// =============================================================================
// Projection
// =============================================================================

// Project builds the scene of g with the given collapsed set.
func Project(g graph.Graph, collapsed visibility.CollapsedSet, opts layout.Options) Scene {
	h := hierarchy.Analyze(g)
	res := layout.AssignHierarchy(h, opts)
	return build(h, g.Edges, res, collapsed, visibility.ComputeVisible(h, collapsed))
}

func build(h *hierarchy.Hierarchy, edges []graph.Edge, res *layout.Result, collapsed visibility.CollapsedSet, visible visibility.Set) Scene {
	if res.Empty() {
		return Scene{Nodes: []Node{}, Edges: []Edge{}, Empty: true, Message: EmptyMessage}
	}

	s := Scene{
		Nodes: make([]Node, 0, h.Len()),
		Edges: make([]Edge, 0, len(edges)),
	}
	for _, id := range h.Nodes() {
		n := h.Node(id)
		s.Nodes = append(s.Nodes, Node{
			ID:       id,
			Type:     NodeType,
			Position: res.Positions[id],
			Hidden:   !visible.Has(id),
			Data: NodeData{
				Label:       n.DisplayLabel(),
				Kind:        KindOf(n),
				HasChildren: h.HasChildren(id),
				Collapsed:   collapsed[id],
			},
		})
	}

	for _, e := range edges {
		if e.FromRoot() {
			continue
		}
		s.Edges = append(s.Edges, Edge{
			ID:     EdgeID(e.Source, e.Target, len(s.Edges)),
			Source: e.Source,
			Target: e.Target,
			Hidden: !visibility.EdgeVisible(e, visible),
		})
	}
	return s
}

// =============================================================================
// Events
// =============================================================================

// EventKind discriminates canvas events.
type EventKind string

// Event kinds.
const (
	EventClick  EventKind = "click"
	EventToggle EventKind = "toggle"
)

// ErrUnknownEvent is returned by [Adapter.Dispatch] for unsupported kinds.
var ErrUnknownEvent = errors.New("unknown event kind")

// Event is a user interaction with a node.
type Event struct {
	Kind   EventKind `json:"kind"`
	NodeID string    `json:"node_id"`
}

// ClickHandler receives the id of a clicked node.
type ClickHandler func(id string)
