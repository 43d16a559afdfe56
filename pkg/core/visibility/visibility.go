package visibility

import (
	"fmt"
	"slices"

	"github.com/matzehuels/gitgraph/pkg/core/hierarchy"
	"github.com/matzehuels/gitgraph/pkg/graph"
)

// Policy selects the initial collapsed set.
type Policy string

// Supported policies.
const (
	PolicyNested Policy = "nested"
	PolicyNone   Policy = "none"
	PolicyAll    Policy = "all"
)

// DefaultPolicy is used when no policy is configured.
const DefaultPolicy = PolicyNested

// Policies lists every supported policy in display order.
var Policies = []Policy{PolicyNested, PolicyNone, PolicyAll}

// ParsePolicy parses a policy name. The empty string selects [DefaultPolicy].
func ParsePolicy(s string) (Policy, error) {
	if s == "" {
		return DefaultPolicy, nil
	}
	p := Policy(s)
	if !slices.Contains(Policies, p) {
		return "", fmt.Errorf("invalid collapse policy: %q (must be one of: nested, none, all)", s)
	}
	return p, nil
}

// CollapsedSet is the set of directory ids whose subtree is hidden.
type CollapsedSet map[string]bool

// Set is a derived set of visible node ids.
type Set map[string]bool

// Has reports whether id is visible.
func (s Set) Has(id string) bool { return s[id] }

// collapsible reports whether id is a directory with at least one child.
func collapsible(h *hierarchy.Hierarchy, id string) bool {
	return h.IsDir(id) && h.HasChildren(id)
}

// Initial returns the collapsed set policy p produces for h.
func Initial(h *hierarchy.Hierarchy, p Policy) CollapsedSet {
	out := make(CollapsedSet)
	if p == PolicyNone {
		return out
	}
	for _, id := range h.Nodes() {
		if !collapsible(h, id) {
			continue
		}
		if d, _ := h.Depth(id); p == PolicyNested && d == 1 {
			continue
		}
		out[id] = true
	}
	return out
}

// ComputeVisible returns the nodes reachable from the root's direct children
// without descending into collapsed nodes. Collapsed nodes themselves are
// visible. The root is never part of the result.
func ComputeVisible(h *hierarchy.Hierarchy, collapsed CollapsedSet) Set {
	visible := make(Set, h.Len())
	queue := append([]string(nil), h.Children(graph.RootID)...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visible[id] {
			continue
		}
		visible[id] = true
		if collapsed[id] {
			continue
		}
		queue = append(queue, h.Children(id)...)
	}
	return visible
}

// EdgeVisible reports whether both endpoints of e are visible.
func EdgeVisible(e graph.Edge, visible Set) bool {
	return visible[e.Source] && visible[e.Target]
}

// =============================================================================
// Controller
// =============================================================================

// Controller is the single owner of a view's collapsed set.
type Controller struct {
	h         *hierarchy.Hierarchy
	policy    Policy
	collapsed CollapsedSet
}

// New creates a controller for h initialized from policy p.
func New(h *hierarchy.Hierarchy, p Policy) *Controller {
	if p == "" {
		p = DefaultPolicy
	}
	return &Controller{h: h, policy: p, collapsed: Initial(h, p)}
}

// Hierarchy returns the analyzed graph the controller operates on.
func (c *Controller) Hierarchy() *hierarchy.Hierarchy { return c.h }

// Policy returns the policy the controller was initialized with.
func (c *Controller) Policy() Policy { return c.policy }

// Toggle flips the collapsed state of id and reports whether anything changed.
//
// Unknown ids, files and directories without children are ignored. Toggling
// a node that is currently hidden only changes its membership; it stays
// hidden until its ancestors are expanded.
func (c *Controller) Toggle(id string) bool {
	if !collapsible(c.h, id) {
		return false
	}
	if c.collapsed[id] {
		delete(c.collapsed, id)
	} else {
		c.collapsed[id] = true
	}
	return true
}

// Expand removes id from the collapsed set. It reports whether id was collapsed.
func (c *Controller) Expand(id string) bool {
	if !c.collapsed[id] {
		return false
	}
	delete(c.collapsed, id)
	return true
}

// Collapse adds id to the collapsed set. It reports whether the set changed.
func (c *Controller) Collapse(id string) bool {
	if c.collapsed[id] || !collapsible(c.h, id) {
		return false
	}
	c.collapsed[id] = true
	return true
}

// ExpandAll clears the collapsed set.
func (c *Controller) ExpandAll() {
	clear(c.collapsed)
}

// CollapseAll collapses every directory with children.
func (c *Controller) CollapseAll() {
	c.collapsed = Initial(c.h, PolicyAll)
}

// Reset restores the collapsed set produced by the controller's policy.
func (c *Controller) Reset() {
	c.collapsed = Initial(c.h, c.policy)
}

// IsCollapsed reports whether id is in the collapsed set.
func (c *Controller) IsCollapsed(id string) bool { return c.collapsed[id] }

// Collapsed returns the collapsed ids in sorted order.
func (c *Controller) Collapsed() []string {
	out := make([]string, 0, len(c.collapsed))
	for id := range c.collapsed {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Snapshot returns a copy of the collapsed set.
func (c *Controller) Snapshot() CollapsedSet {
	out := make(CollapsedSet, len(c.collapsed))
	for id := range c.collapsed {
		out[id] = true
	}
	return out
}

// Visible derives the current visible set.
func (c *Controller) Visible() Set {
	return ComputeVisible(c.h, c.collapsed)
}
