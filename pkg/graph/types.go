package graph

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// RootID is the id of the synthetic root node. The root is the source of the
// edges to top-level entries and need not appear in the node list.
const RootID = "root"

// File types carried on every node.
const (
	FileTypeTree = "tree" // directory
	FileTypeBlob = "blob" // file
)

// =============================================================================
// Graph - Repository Tree Payload
// =============================================================================

// Graph is the input payload of the layout engine: a flat list of repository
// entries plus parent→child edges.
//
// Together with the synthetic [RootID] node the edges are expected to form a
// rooted tree. Malformed input (dangling endpoints, duplicate ids, nodes with
// several parents) is tolerated by every consumer in this module.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Empty reports whether the graph has no nodes.
func (g Graph) Empty() bool { return len(g.Nodes) == 0 }

// NodeMap indexes nodes by id. When ids repeat, the first occurrence wins.
func (g Graph) NodeMap() map[string]*Node {
	m := make(map[string]*Node, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if _, ok := m[n.ID]; !ok {
			m[n.ID] = n
		}
	}
	return m
}

// =============================================================================
// Node - Repository Entry
// =============================================================================

// Node is one filesystem entry of a repository.
type Node struct {
	ID       string `json:"id" bson:"id"`
	Name     string `json:"name" bson:"name"`
	Path     string `json:"path" bson:"path"` // slash-delimited, "" for the root
	FileType string `json:"file_type" bson:"file_type"`
}

// IsDir returns true if the node is a directory.
func (n *Node) IsDir() bool { return n.FileType == FileTypeTree }

// DisplayLabel returns the name if set, otherwise the id.
func (n *Node) DisplayLabel() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// =============================================================================
// Edge - Containment
// =============================================================================

// Edge states that Target is a direct child of Source.
//
// Type and Label are optional annotations carried through untouched.
type Edge struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
	Type   string `json:"type,omitempty" bson:"type,omitempty"`
	Label  string `json:"label,omitempty" bson:"label,omitempty"`
}

// FromRoot returns true if the edge leaves the synthetic root.
func (e Edge) FromRoot() bool { return e.Source == RootID }
