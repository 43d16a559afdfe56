// Package graph provides the payload types for repository trees.
//
// A payload is a flat list of filesystem entries plus parent→child edges:
//
//	{
//	  "nodes": [
//	    {"id": "d1", "name": "src", "path": "src", "file_type": "tree"},
//	    {"id": "f1", "name": "main.go", "path": "src/main.go", "file_type": "blob"}
//	  ],
//	  "edges": [
//	    {"source": "root", "target": "d1"},
//	    {"source": "d1", "target": "f1"}
//	  ]
//	}
//
// The synthetic [RootID] node anchors the tree. It may be omitted from the node
// list; edges leaving it mark the top-level entries.
//
// # Decoding
//
// [DecodePayload] is the single entry point for untrusted input. It only
// checks the envelope (both fields present and arrays); everything inside is
// accepted as-is so the layout engine can recover from malformed trees.
//
//	g, err := graph.ReadGraphFile("tree.json")
//	if errors.Is(err, errors.ErrCodeInvalidPayload) {
//	    // reject the payload
//	}
//
// # Concurrency
//
// Graph values are plain data. They are safe for concurrent reads.
package graph
