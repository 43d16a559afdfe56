package source

import (
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/gitgraph/pkg/graph"
)

// Entry is one path of a repository listing.
type Entry struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// IsDir reports whether the entry names a directory.
func (e Entry) IsDir() bool {
	return NormalizeType(e.Type) == graph.FileTypeTree
}

// namespace scopes gitgraph node ids.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/gitgraph/node"))

// NodeID returns the stable node id for a repository path.
func NodeID(path string) string {
	return uuid.NewSHA1(namespace, []byte(path)).String()
}

// NormalizeType maps listing types onto graph file types. Directory
// spellings become "tree"; everything else, submodule commits included,
// becomes "blob".
func NormalizeType(t string) string {
	switch strings.ToLower(t) {
	case graph.FileTypeTree, "dir", "directory":
		return graph.FileTypeTree
	default:
		return graph.FileTypeBlob
	}
}

// CleanPath trims surrounding slashes and collapses empty segments.
// It returns "" for paths with no usable segment.
func CleanPath(p string) string {
	parts := strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
	out := parts[:0]
	for _, part := range parts {
		if part != "." {
			out = append(out, part)
		}
	}
	return strings.Join(out, "/")
}

// Build converts a flat listing into a graph payload.
//
// Paths are split on "/" and every prefix becomes a node; prefixes that are
// not listed themselves are created as directories. Repeated paths are
// merged, and a file that later turns out to have children is promoted to a
// directory. Nodes and edges keep first-seen order. Top-level nodes hang off
// [graph.RootID].
func Build(entries []Entry) graph.Graph {
	g := graph.Graph{Nodes: []graph.Node{}, Edges: []graph.Edge{}}
	index := make(map[string]int)

	for _, e := range entries {
		p := CleanPath(e.Path)
		if p == "" {
			continue
		}
		parts := strings.Split(p, "/")
		parent := graph.RootID
		for i, name := range parts {
			prefix := strings.Join(parts[:i+1], "/")
			last := i == len(parts)-1

			ft := graph.FileTypeTree
			if last {
				ft = NormalizeType(e.Type)
			}

			id := NodeID(prefix)
			if at, ok := index[prefix]; ok {
				if !last || ft == graph.FileTypeTree {
					g.Nodes[at].FileType = graph.FileTypeTree
				}
			} else {
				index[prefix] = len(g.Nodes)
				g.Nodes = append(g.Nodes, graph.Node{ID: id, Name: name, Path: prefix, FileType: ft})
				g.Edges = append(g.Edges, graph.Edge{Source: parent, Target: id})
			}
			parent = id
		}
	}
	return g
}
