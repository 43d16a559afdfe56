package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/gitgraph/pkg/errors"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// WriteGraph writes a graph as JSON to an io.Writer.
// Nil slices are written as empty arrays so the output is always a valid payload.
func WriteGraph(g Graph, w io.Writer) error {
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraphFile reads a JSON file and decodes it with [DecodePayload].
func ReadGraphFile(path string) (Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	return DecodePayload(data)
}

// ReadGraph decodes a JSON payload from an io.Reader with [DecodePayload].
func ReadGraph(r io.Reader) (Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Graph{}, fmt.Errorf("read: %w", err)
	}
	return DecodePayload(data)
}

// DecodePayload decodes a graph payload.
//
// It rejects only payloads that are not JSON objects, or whose "nodes" or
// "edges" field is missing or not an array; such errors carry
// [errors.ErrCodeInvalidPayload]. Structural problems inside the arrays
// (dangling endpoints, duplicate ids) are accepted and left to the engine.
func DecodePayload(data []byte) (Graph, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidPayload, err, "payload is not a JSON object")
	}
	for _, name := range []string{"nodes", "edges"} {
		raw, ok := fields[name]
		if !ok {
			return Graph{}, errors.New(errors.ErrCodeInvalidPayload, "payload is missing %q", name)
		}
		if !isArray(raw) {
			return Graph{}, errors.New(errors.ErrCodeInvalidPayload, "%q must be an array", name)
		}
	}

	var g Graph
	if err := json.Unmarshal(fields["nodes"], &g.Nodes); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidPayload, err, "decode nodes")
	}
	if err := json.Unmarshal(fields["edges"], &g.Edges); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidPayload, err, "decode edges")
	}
	return g, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
