// Package layout assigns planar coordinates to the nodes of a repository tree.
//
// Nodes are grouped into horizontal layers by their depth (see package
// hierarchy). Within a layer nodes are ordered by path, and the layer is
// centered on x = 0:
//
//	x_i = i*SpacingX - ((k-1)*SpacingX)/2   for i in [0, k)
//	y   = (depth-1)*SpacingY
//
// so depth-1 entries sit on y = 0 and deeper layers grow downward. The
// synthetic root is never placed.
//
// # Determinism
//
// Positions depend only on the depth map and node paths. Ordering inside a
// layer is byte-wise lexicographic on path with ties broken by id, so the
// output does not depend on locale or input order. Changing the spacing
// rescales every coordinate without reordering anything.
//
// # Usage
//
//	res := layout.Assign(g, layout.Options{})
//	p := res.Positions["src/main.go"]
//
// [AssignPositions] is the flat form for callers that only need the
// position map.
package layout
