package graph

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/gitgraph/pkg/errors"
)

func sampleGraph() Graph {
	return Graph{
		Nodes: []Node{
			{ID: "d1", Name: "src", Path: "src", FileType: FileTypeTree},
			{ID: "f1", Name: "main.go", Path: "src/main.go", FileType: FileTypeBlob},
		},
		Edges: []Edge{
			{Source: RootID, Target: "d1"},
			{Source: "d1", Target: "f1", Type: "contains"},
		},
	}
}

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   bool
		wantNodes int
		wantEdges int
	}{
		{
			name:      "Valid",
			input:     `{"nodes":[{"id":"a","name":"a","path":"a","file_type":"blob"}],"edges":[{"source":"root","target":"a"}]}`,
			wantNodes: 1,
			wantEdges: 1,
		},
		{
			name:  "EmptyArrays",
			input: `{"nodes":[],"edges":[]}`,
		},
		{
			name:      "DanglingEdgeAccepted",
			input:     `{"nodes":[],"edges":[{"source":"x","target":"y"}]}`,
			wantEdges: 1,
		},
		{
			name:      "DuplicateIDsAccepted",
			input:     `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`,
			wantNodes: 2,
		},
		{
			name:      "ExtraFieldsIgnored",
			input:     `{"nodes":[{"id":"a","size":10}],"edges":[],"repo":"x"}`,
			wantNodes: 1,
		},
		{name: "MissingNodes", input: `{"edges":[]}`, wantErr: true},
		{name: "MissingEdges", input: `{"nodes":[]}`, wantErr: true},
		{name: "NodesNotArray", input: `{"nodes":{},"edges":[]}`, wantErr: true},
		{name: "EdgesNull", input: `{"nodes":[],"edges":null}`, wantErr: true},
		{name: "EdgesString", input: `{"nodes":[],"edges":"[]"}`, wantErr: true},
		{name: "NotObject", input: `[1,2]`, wantErr: true},
		{name: "InvalidJSON", input: `{`, wantErr: true},
		{name: "BadNodeShape", input: `{"nodes":[1],"edges":[]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := DecodePayload([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, errors.ErrCodeInvalidPayload) {
					t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidPayload)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodePayload: %v", err)
			}
			if len(g.Nodes) != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", len(g.Nodes), tt.wantNodes)
			}
			if len(g.Edges) != tt.wantEdges {
				t.Errorf("edges = %d, want %d", len(g.Edges), tt.wantEdges)
			}
		})
	}
}

func TestWriteGraphEmptyIsValidPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGraph(Graph{}, &buf); err != nil {
		t.Fatalf("WriteGraph: %v", err)
	}
	if !strings.Contains(buf.String(), `"nodes": []`) || !strings.Contains(buf.String(), `"edges": []`) {
		t.Errorf("output = %s, want empty arrays", buf.String())
	}
	if _, err := DecodePayload(buf.Bytes()); err != nil {
		t.Errorf("DecodePayload(WriteGraph(empty)): %v", err)
	}
}

func TestGraphFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	want := sampleGraph()

	if err := WriteGraphFile(want, path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	got, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if len(got.Nodes) != 2 || got.Nodes[1].Path != "src/main.go" {
		t.Errorf("nodes = %+v", got.Nodes)
	}
	if got.Edges[1].Type != "contains" {
		t.Errorf("edge type = %q, want contains", got.Edges[1].Type)
	}
}

func TestReadGraphFileMissing(t *testing.T) {
	_, err := ReadGraphFile(filepath.Join(t.TempDir(), "nope.json"))
	if !stderrors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want not-exist", err)
	}
}

func TestNodeMapFirstWins(t *testing.T) {
	g := Graph{Nodes: []Node{
		{ID: "a", Name: "first"},
		{ID: "a", Name: "second"},
		{ID: "b", Name: "b"},
	}}
	m := g.NodeMap()
	if len(m) != 2 {
		t.Fatalf("len = %d, want 2", len(m))
	}
	if m["a"].Name != "first" {
		t.Errorf("a = %q, want first", m["a"].Name)
	}
}

func TestNodeHelpers(t *testing.T) {
	dir := Node{ID: "d", FileType: FileTypeTree}
	file := Node{ID: "f", Name: "x.go", FileType: FileTypeBlob}
	if !dir.IsDir() || file.IsDir() {
		t.Error("IsDir mismatch")
	}
	if dir.DisplayLabel() != "d" || file.DisplayLabel() != "x.go" {
		t.Error("DisplayLabel mismatch")
	}
	if !(Edge{Source: RootID}).FromRoot() {
		t.Error("FromRoot = false for root edge")
	}
}
