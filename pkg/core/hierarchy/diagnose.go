package hierarchy

import (
	"fmt"

	"github.com/matzehuels/gitgraph/pkg/graph"
)

// IssueKind classifies a structural problem in a payload.
type IssueKind string

// Issue kinds reported by [Diagnose].
const (
	IssueDanglingEdge  IssueKind = "dangling_edge"
	IssueDuplicateID   IssueKind = "duplicate_id"
	IssueMultiParent   IssueKind = "multiple_parents"
	IssueUnreachable   IssueKind = "unreachable"
	IssueCycle         IssueKind = "cycle"
	IssueRootInPayload IssueKind = "root_in_payload"
)

// Issue describes one structural problem. NodeID is empty for edge issues.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	NodeID  string    `json:"node_id,omitempty"`
	Message string    `json:"message"`
}

func (i Issue) String() string { return fmt.Sprintf("%s: %s", i.Kind, i.Message) }

// Diagnose reports structural problems of g that the engine silently
// recovers from. Issues are grouped by check, each group in input order.
func Diagnose(g graph.Graph) []Issue {
	h := Analyze(g)
	var issues []Issue

	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == graph.RootID {
			issues = append(issues, Issue{
				Kind:    IssueRootInPayload,
				NodeID:  n.ID,
				Message: fmt.Sprintf("node %q is treated as the synthetic root", n.ID),
			})
			continue
		}
		if seen[n.ID] {
			issues = append(issues, Issue{
				Kind:    IssueDuplicateID,
				NodeID:  n.ID,
				Message: fmt.Sprintf("node %q appears more than once; the first entry is used", n.ID),
			})
		}
		seen[n.ID] = true
	}

	for i, e := range g.Edges {
		_, srcOK := h.nodes[e.Source]
		_, dstOK := h.nodes[e.Target]
		if (srcOK || e.Source == graph.RootID) && dstOK {
			continue
		}
		issues = append(issues, Issue{
			Kind:    IssueDanglingEdge,
			Message: fmt.Sprintf("edge %d (%s -> %s) references an unknown node", i, e.Source, e.Target),
		})
	}

	parents := make(map[string]int, len(h.order))
	for _, id := range append([]string{graph.RootID}, h.order...) {
		for _, child := range h.index[id] {
			parents[child]++
		}
	}
	for _, id := range h.order {
		if parents[id] > 1 {
			issues = append(issues, Issue{
				Kind:    IssueMultiParent,
				NodeID:  id,
				Message: fmt.Sprintf("node %q has %d parents; the first one reached wins", id, parents[id]),
			})
		}
	}

	reached := h.reachable()
	for _, id := range h.order {
		if !reached[id] {
			issues = append(issues, Issue{
				Kind:    IssueUnreachable,
				NodeID:  id,
				Message: fmt.Sprintf("node %q is not reachable from the root; placed at depth %d", id, FallbackDepth),
			})
		}
	}

	for _, id := range h.cycleMembers() {
		issues = append(issues, Issue{
			Kind:    IssueCycle,
			NodeID:  id,
			Message: fmt.Sprintf("node %q closes a cycle", id),
		})
	}

	return issues
}

func (h *Hierarchy) reachable() map[string]bool {
	out := make(map[string]bool, len(h.order))
	for _, id := range h.Descendants(graph.RootID) {
		out[id] = true
	}
	return out
}

// cycleMembers returns the targets of back edges found by a white/gray/black
// depth-first search, in input order.
func (h *Hierarchy) cycleMembers() []string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(h.order))
	hits := make(map[string]bool)

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range h.index[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hits[child] = true
			}
		}
		color[id] = black
	}

	for _, id := range h.order {
		if color[id] == white {
			dfs(id)
		}
	}

	var out []string
	for _, id := range h.order {
		if hits[id] {
			out = append(out, id)
		}
	}
	return out
}
