package layout

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/gitgraph/pkg/core/hierarchy"
	"github.com/matzehuels/gitgraph/pkg/graph"
)

// =============================================================================
// Options
// =============================================================================

const (
	// DefaultSpacingX is the horizontal distance between neighbors in a layer.
	DefaultSpacingX = 140.0

	// DefaultSpacingY is the vertical distance between consecutive layers.
	DefaultSpacingY = 280.0
)

// Options controls layer spacing. Zero values select the defaults.
type Options struct {
	SpacingX float64 `json:"spacing_x,omitempty"`
	SpacingY float64 `json:"spacing_y,omitempty"`
}

// WithDefaults returns a copy of o with zero fields replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.SpacingX == 0 {
		o.SpacingX = DefaultSpacingX
	}
	if o.SpacingY == 0 {
		o.SpacingY = DefaultSpacingY
	}
	return o
}

// Validate checks that both spacings are positive finite numbers after
// defaults are applied.
func (o Options) Validate() error {
	o = o.WithDefaults()
	if err := checkSpacing("spacing_x", o.SpacingX); err != nil {
		return err
	}
	return checkSpacing("spacing_y", o.SpacingY)
}

func checkSpacing(name string, v float64) error {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("invalid %s: %v (must be a positive number)", name, v)
	}
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Point is a position in layout space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Positions maps node ids to their coordinates.
type Positions map[string]Point

// Layer is the ordered set of nodes sharing one depth.
type Layer struct {
	Depth int      `json:"depth"`
	IDs   []string `json:"ids"`
}

// Bounds is the axis-aligned bounding box of all positions.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns MaxX - MinX.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Result is the output of [Assign].
type Result struct {
	Options   Options   `json:"options"`
	Positions Positions `json:"positions"`
	Layers    []Layer   `json:"layers"` // ascending depth
}

// Empty reports whether no node was positioned.
func (r *Result) Empty() bool { return len(r.Positions) == 0 }

// Bounds returns the bounding box of all positions, or the zero value when
// the result is empty.
func (r *Result) Bounds() Bounds {
	if r.Empty() {
		return Bounds{}
	}
	b := Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, p := range r.Positions {
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
	}
	return b
}

// =============================================================================
// Assignment
// =============================================================================

// Assign positions every node of g.
func Assign(g graph.Graph, opts Options) *Result {
	return AssignHierarchy(hierarchy.Analyze(g), opts)
}

// AssignPositions is the flat form of [Assign].
func AssignPositions(nodes []graph.Node, edges []graph.Edge, opts Options) Positions {
	return Assign(graph.Graph{Nodes: nodes, Edges: edges}, opts).Positions
}

// AssignHierarchy positions the nodes of an already analyzed graph.
func AssignHierarchy(h *hierarchy.Hierarchy, opts Options) *Result {
	opts = opts.WithDefaults()
	res := &Result{
		Options:   opts,
		Positions: make(Positions, h.Len()),
	}

	byDepth := make(map[int][]string)
	for _, id := range h.Nodes() {
		d, _ := h.Depth(id)
		byDepth[d] = append(byDepth[d], id)
	}

	depths := make([]int, 0, len(byDepth))
	for d := range byDepth {
		depths = append(depths, d)
	}
	slices.Sort(depths)

	for _, d := range depths {
		ids := byDepth[d]
		slices.SortFunc(ids, func(a, b string) int {
			return cmp.Or(cmp.Compare(h.Node(a).Path, h.Node(b).Path), cmp.Compare(a, b))
		})

		k := float64(len(ids))
		offset := ((k - 1) * opts.SpacingX) / 2
		y := float64(d-1) * opts.SpacingY
		for i, id := range ids {
			res.Positions[id] = Point{X: float64(i)*opts.SpacingX - offset, Y: y}
		}
		res.Layers = append(res.Layers, Layer{Depth: d, IDs: ids})
	}
	return res
}
