package hierarchy

import (
	"testing"

	"github.com/matzehuels/gitgraph/pkg/graph"
)

func TestDiagnose(t *testing.T) {
	tests := []struct {
		name string
		g    graph.Graph
		want map[IssueKind]int
	}{
		{
			name: "Clean",
			g: graph.Graph{
				Nodes: []graph.Node{dir("d1", "src"), file("f1", "src/main.go")},
				Edges: []graph.Edge{edge("root", "d1"), edge("d1", "f1")},
			},
			want: map[IssueKind]int{},
		},
		{
			name: "Dangling",
			g: graph.Graph{
				Nodes: []graph.Node{dir("d1", "src")},
				Edges: []graph.Edge{edge("root", "d1"), edge("d1", "ghost"), edge("ghost", "d1")},
			},
			want: map[IssueKind]int{IssueDanglingEdge: 2},
		},
		{
			name: "Duplicate",
			g: graph.Graph{
				Nodes: []graph.Node{file("a", "a"), file("a", "b")},
				Edges: []graph.Edge{edge("root", "a")},
			},
			want: map[IssueKind]int{IssueDuplicateID: 1},
		},
		{
			name: "MultiParent",
			g: graph.Graph{
				Nodes: []graph.Node{dir("a", "a"), dir("b", "b"), file("x", "x")},
				Edges: []graph.Edge{edge("root", "a"), edge("root", "b"), edge("a", "x"), edge("b", "x")},
			},
			want: map[IssueKind]int{IssueMultiParent: 1},
		},
		{
			name: "Unreachable",
			g: graph.Graph{
				Nodes: []graph.Node{file("a", "a"), file("b", "b")},
				Edges: []graph.Edge{edge("root", "a")},
			},
			want: map[IssueKind]int{IssueUnreachable: 1},
		},
		{
			name: "Cycle",
			g: graph.Graph{
				Nodes: []graph.Node{dir("a", "a"), dir("b", "b")},
				Edges: []graph.Edge{edge("root", "a"), edge("a", "b"), edge("b", "a")},
			},
			want: map[IssueKind]int{IssueCycle: 1, IssueMultiParent: 1},
		},
		{
			name: "RootInPayload",
			g: graph.Graph{
				Nodes: []graph.Node{dir(graph.RootID, ""), file("a", "a")},
				Edges: []graph.Edge{edge("root", "a")},
			},
			want: map[IssueKind]int{IssueRootInPayload: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := map[IssueKind]int{}
			for _, is := range Diagnose(tt.g) {
				got[is.Kind]++
				if is.Message == "" {
					t.Errorf("issue %s has empty message", is.Kind)
				}
			}
			if len(got) != len(tt.want) {
				t.Fatalf("issues = %v, want %v", got, tt.want)
			}
			for k, n := range tt.want {
				if got[k] != n {
					t.Errorf("%s = %d, want %d", k, got[k], n)
				}
			}
		})
	}
}

func TestDiagnoseDoesNotChangeAnalysis(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{file("a", "a"), file("b", "b")},
		Edges: []graph.Edge{edge("root", "a"), edge("a", "zzz")},
	}
	before := Analyze(g).Depths()
	_ = Diagnose(g)
	after := Analyze(g).Depths()
	for id, d := range before {
		if after[id] != d {
			t.Errorf("depth[%s] changed from %d to %d", id, d, after[id])
		}
	}
}
