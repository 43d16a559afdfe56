// Package detail resolves the content of the node detail panel.
//
// When a node is clicked, surfaces ask a [Resolver] for the node's
// [Detail]: its name, path, kind, direct children and a one-line
// description. The layout engine only forwards the clicked id; everything
// shown in the panel comes from here.
package detail

import (
	"context"
	"fmt"

	"github.com/matzehuels/gitgraph/pkg/core/hierarchy"
	"github.com/matzehuels/gitgraph/pkg/errors"
	"github.com/matzehuels/gitgraph/pkg/render/flow"
)

// Child is a direct child listed in a detail panel.
type Child struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Kind flow.Kind `json:"type"`
}

// Detail is the content of the detail panel for one node.
type Detail struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Kind        flow.Kind `json:"type"`
	Depth       int       `json:"depth"`
	Children    []Child   `json:"children"`
	Description string    `json:"description"`
}

// Resolver returns the detail of a node.
// Implementations return an error with [errors.ErrCodeNodeNotFound] for unknown ids.
type Resolver interface {
	Resolve(ctx context.Context, id string) (*Detail, error)
}

// GraphResolver resolves details from an analyzed graph.
type GraphResolver struct {
	h *hierarchy.Hierarchy
}

// NewGraphResolver creates a resolver over h.
func NewGraphResolver(h *hierarchy.Hierarchy) *GraphResolver {
	return &GraphResolver{h: h}
}

// Resolve implements [Resolver].
func (r *GraphResolver) Resolve(ctx context.Context, id string) (*Detail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := r.h.Node(id)
	if n == nil {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}

	d := &Detail{
		ID:       n.ID,
		Name:     n.Name,
		Path:     n.Path,
		Kind:     flow.KindOf(n),
		Children: []Child{},
	}
	d.Depth, _ = r.h.Depth(id)
	for _, cid := range r.h.Children(id) {
		c := r.h.Node(cid)
		d.Children = append(d.Children, Child{ID: c.ID, Name: c.Name, Kind: flow.KindOf(c)})
	}
	d.Description = Describe(d)
	return d, nil
}

// Describe returns the one-line description shown under a node's name.
func Describe(d *Detail) string {
	if d.Kind == flow.KindFolder {
		path := d.Path
		if path == "" {
			path = "/"
		}
		return fmt.Sprintf("This directory groups %d direct item(s) and organizes related source files under %s .", len(d.Children), path)
	}
	return fmt.Sprintf("This file appears at %s. Select it to inspect structure context and run deeper analysis.", d.Path)
}
