package hierarchy

import (
	"github.com/matzehuels/gitgraph/pkg/graph"
)

// FallbackDepth is assigned to nodes that are not reachable from the root.
const FallbackDepth = 1

// DepthMap maps node ids to their depth. The root has depth 0.
type DepthMap map[string]int

// Index maps a node id to its direct children, in edge-insertion order.
type Index map[string][]string

// Hierarchy bundles the adjacency index and depth map of one graph.
//
// A Hierarchy is immutable after [Analyze] returns and safe for concurrent
// reads.
type Hierarchy struct {
	index  Index
	depths DepthMap
	nodes  map[string]*graph.Node
	order  []string
}

// Analyze builds the index and depth map of g.
//
// An input node whose id equals [graph.RootID] is treated as the synthetic
// root and is not part of [Hierarchy.Nodes].
func Analyze(g graph.Graph) *Hierarchy {
	h := &Hierarchy{
		nodes: make(map[string]*graph.Node, len(g.Nodes)),
		order: make([]string, 0, len(g.Nodes)),
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.ID == graph.RootID {
			continue
		}
		if _, dup := h.nodes[n.ID]; dup {
			continue
		}
		h.nodes[n.ID] = n
		h.order = append(h.order, n.ID)
	}
	h.index = buildIndex(h.nodes, g.Edges)
	h.depths = bfsDepths(h.order, h.index)
	return h
}

// BuildIndex builds the adjacency index of nodes and edges, skipping edges
// with an unknown target or a source that is neither the root nor a known node.
func BuildIndex(nodes []graph.Node, edges []graph.Edge) Index {
	return Analyze(graph.Graph{Nodes: nodes, Edges: edges}).index
}

// ComputeDepths returns the depth of every input node plus the root.
func ComputeDepths(nodes []graph.Node, edges []graph.Edge) DepthMap {
	return Analyze(graph.Graph{Nodes: nodes, Edges: edges}).Depths()
}

func buildIndex(known map[string]*graph.Node, edges []graph.Edge) Index {
	idx := make(Index)
	for _, e := range edges {
		if _, ok := known[e.Target]; !ok {
			continue
		}
		if _, ok := known[e.Source]; !ok && e.Source != graph.RootID {
			continue
		}
		idx[e.Source] = append(idx[e.Source], e.Target)
	}
	return idx
}

func bfsDepths(order []string, idx Index) DepthMap {
	depths := make(DepthMap, len(order)+1)
	depths[graph.RootID] = 0

	queue := []string{graph.RootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range idx[id] {
			if _, seen := depths[child]; seen {
				continue
			}
			depths[child] = depths[id] + 1
			queue = append(queue, child)
		}
	}

	for _, id := range order {
		if _, ok := depths[id]; !ok {
			depths[id] = FallbackDepth
		}
	}
	return depths
}

// =============================================================================
// Queries
// =============================================================================

// Depth returns the depth of id and whether id is known.
func (h *Hierarchy) Depth(id string) (int, bool) {
	d, ok := h.depths[id]
	return d, ok
}

// Depths returns a copy of the depth map.
func (h *Hierarchy) Depths() DepthMap {
	out := make(DepthMap, len(h.depths))
	for id, d := range h.depths {
		out[id] = d
	}
	return out
}

// Children returns the direct children of id in edge order.
// The returned slice must not be modified.
func (h *Hierarchy) Children(id string) []string {
	return h.index[id]
}

// HasChildren reports whether id has at least one outgoing edge in the index.
func (h *Hierarchy) HasChildren(id string) bool {
	return len(h.index[id]) > 0
}

// Node returns the input node for id, or nil if id is unknown or the root.
func (h *Hierarchy) Node(id string) *graph.Node {
	return h.nodes[id]
}

// Nodes returns the ids of all input nodes in input order, without duplicates
// and without the root.
func (h *Hierarchy) Nodes() []string {
	return h.order
}

// Len returns the number of distinct input nodes.
func (h *Hierarchy) Len() int { return len(h.order) }

// IsDir reports whether id is a known directory node.
func (h *Hierarchy) IsDir(id string) bool {
	n := h.nodes[id]
	return n != nil && n.IsDir()
}

// Descendants returns every node below id in breadth-first order.
// Each node appears once even if the input contains cycles.
func (h *Hierarchy) Descendants(id string) []string {
	var out []string
	seen := map[string]bool{id: true}
	queue := append([]string(nil), h.index[id]...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		queue = append(queue, h.index[cur]...)
	}
	return out
}
