// Package source turns flat repository listings into graph payloads.
//
// A listing is a sequence of [Entry] values, one per path, as produced by the
// GitHub recursive tree endpoint (package [github.com/matzehuels/gitgraph/pkg/source/github])
// or by scanning a local checkout (package [github.com/matzehuels/gitgraph/pkg/source/local]).
//
// [Build] converts a listing into a [graph.Graph]: every path segment
// becomes a node, intermediate directories that were never listed are
// created, and each node gets a parent edge. The root is implicit and never
// appears in the node list.
//
//	entries := []source.Entry{
//	    {Path: "cmd/gitgraph/main.go", Type: "blob"},
//	    {Path: "README.md", Type: "blob"},
//	}
//	g := source.Build(entries)
//
// [Filter] removes subtrees whose paths match doublestar glob patterns
// before building.
package source
