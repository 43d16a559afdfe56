package flow

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/gitgraph/pkg/core/hierarchy"
	"github.com/matzehuels/gitgraph/pkg/core/layout"
	"github.com/matzehuels/gitgraph/pkg/core/visibility"
	"github.com/matzehuels/gitgraph/pkg/graph"
)

func scenario() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{
			{ID: "d1", Name: "src", Path: "src", FileType: graph.FileTypeTree},
			{ID: "f1", Name: "main.go", Path: "src/main.go", FileType: graph.FileTypeBlob},
		},
		Edges: []graph.Edge{
			{Source: graph.RootID, Target: "d1"},
			{Source: "d1", Target: "f1"},
		},
	}
}

func newAdapter(t *testing.T, g graph.Graph, opts ...Option) *Adapter {
	t.Helper()
	h := hierarchy.Analyze(g)
	ctrl := visibility.New(h, visibility.PolicyNested)
	return NewAdapter(ctrl, g.Edges, layout.AssignHierarchy(h, layout.Options{}), opts...)
}

func visibleIDs(s Scene) []string {
	var out []string
	for _, n := range s.VisibleNodes() {
		out = append(out, n.ID)
	}
	slices.Sort(out)
	return out
}

func TestProjectScenario(t *testing.T) {
	s := Project(scenario(), nil, layout.Options{})

	if s.Empty {
		t.Fatal("scene should not be empty")
	}
	if len(s.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(s.Nodes))
	}
	d1 := s.Nodes[0]
	if d1.Type != NodeType || d1.Data.Label != "src" || d1.Data.Kind != KindFolder || !d1.Data.HasChildren {
		t.Errorf("d1 = %+v", d1)
	}
	if f1 := s.Nodes[1]; f1.Data.Kind != KindFile || f1.Data.HasChildren || f1.Position.Y != 280 {
		t.Errorf("f1 = %+v", f1)
	}

	if len(s.Edges) != 1 {
		t.Fatalf("edges = %d, want 1 (root edges are not rendered)", len(s.Edges))
	}
	if s.Edges[0].ID != "d1-f1-0" {
		t.Errorf("edge id = %q, want d1-f1-0", s.Edges[0].ID)
	}
}

func TestProjectEdgeIndexCountsRenderedEdges(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "a", Path: "a", FileType: graph.FileTypeTree},
			{ID: "b", Path: "b", FileType: graph.FileTypeTree},
			{ID: "x", Path: "a/x", FileType: graph.FileTypeBlob},
			{ID: "y", Path: "b/y", FileType: graph.FileTypeBlob},
		},
		Edges: []graph.Edge{
			{Source: graph.RootID, Target: "a"},
			{Source: "a", Target: "x"},
			{Source: graph.RootID, Target: "b"},
			{Source: "b", Target: "y"},
		},
	}
	s := Project(g, nil, layout.Options{})
	var ids []string
	for _, e := range s.Edges {
		ids = append(ids, e.ID)
	}
	if want := []string{"a-x-0", "b-y-1"}; !slices.Equal(ids, want) {
		t.Errorf("edge ids = %v, want %v", ids, want)
	}
}

func TestProjectCollapsed(t *testing.T) {
	s := Project(scenario(), visibility.CollapsedSet{"d1": true}, layout.Options{})
	if got := visibleIDs(s); !slices.Equal(got, []string{"d1"}) {
		t.Errorf("visible = %v, want [d1]", got)
	}
	if !s.Edges[0].Hidden {
		t.Error("edge d1-f1 should be hidden")
	}
	if !s.Nodes[0].Data.Collapsed {
		t.Error("d1 should be flagged collapsed")
	}
}

func TestProjectEmpty(t *testing.T) {
	s := Project(graph.Graph{}, nil, layout.Options{})
	if !s.Empty || s.Message != EmptyMessage {
		t.Errorf("scene = %+v, want empty state", s)
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"nodes":[]`) {
		t.Errorf("json = %s, want empty nodes array", data)
	}
}

func TestAdapterToggle(t *testing.T) {
	a := newAdapter(t, scenario())
	before := a.Scene()

	if got := visibleIDs(before); !slices.Equal(got, []string{"d1", "f1"}) {
		t.Fatalf("initial visible = %v", got)
	}

	changed, err := a.Dispatch(Event{Kind: EventToggle, NodeID: "d1"})
	if err != nil || !changed {
		t.Fatalf("Dispatch toggle = %v, %v", changed, err)
	}

	after := a.Scene()
	if got := visibleIDs(after); !slices.Equal(got, []string{"d1"}) {
		t.Errorf("visible after toggle = %v, want [d1]", got)
	}
	if !after.Edges[0].Hidden {
		t.Error("edge should be hidden after collapse")
	}
	for i := range before.Nodes {
		if before.Nodes[i].ID != after.Nodes[i].ID || before.Nodes[i].Position != after.Nodes[i].Position {
			t.Errorf("record %d changed identity: %+v -> %+v", i, before.Nodes[i], after.Nodes[i])
		}
	}
	if before.Nodes[1].Hidden {
		t.Error("Scene() must return a copy; earlier snapshot was mutated")
	}
}

func TestAdapterOnToggleCallback(t *testing.T) {
	a := newAdapter(t, scenario())
	n, ok := a.Node("d1")
	if !ok || n.Data.OnToggle == nil {
		t.Fatal("d1 record should carry an OnToggle callback")
	}
	n.Data.OnToggle()
	if !a.Controller().IsCollapsed("d1") {
		t.Error("OnToggle did not collapse d1")
	}
	if n, _ := a.Node("d1"); !n.Data.Collapsed {
		t.Error("record not refreshed after OnToggle")
	}
}

func TestAdapterToggleDoesNotClick(t *testing.T) {
	var clicks []string
	a := newAdapter(t, scenario(), WithClickHandler(func(id string) { clicks = append(clicks, id) }))

	if _, err := a.Dispatch(Event{Kind: EventToggle, NodeID: "d1"}); err != nil {
		t.Fatal(err)
	}
	if len(clicks) != 0 {
		t.Errorf("toggle propagated as click: %v", clicks)
	}

	changed, err := a.Dispatch(Event{Kind: EventClick, NodeID: "f1"})
	if err != nil || changed {
		t.Errorf("Dispatch click = %v, %v", changed, err)
	}
	if _, err := a.Dispatch(Event{Kind: EventClick, NodeID: "ghost"}); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(clicks, []string{"f1"}) {
		t.Errorf("clicks = %v, want [f1]", clicks)
	}
}

func TestAdapterUnknownEvent(t *testing.T) {
	a := newAdapter(t, scenario())
	_, err := a.Dispatch(Event{Kind: "hover", NodeID: "d1"})
	if !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("err = %v, want ErrUnknownEvent", err)
	}
}

func TestAdapterToggleUnknownIsNoop(t *testing.T) {
	a := newAdapter(t, scenario())
	changed, err := a.Dispatch(Event{Kind: EventToggle, NodeID: "nope"})
	if err != nil || changed {
		t.Errorf("Dispatch = %v, %v, want no-op", changed, err)
	}
}

func TestAdapterMatchesProject(t *testing.T) {
	g := scenario()
	a := newAdapter(t, g)
	a.Dispatch(Event{Kind: EventToggle, NodeID: "d1"})

	want := Project(g, a.Controller().Snapshot(), layout.Options{})
	got := a.Scene()
	for i := range want.Nodes {
		w, o := want.Nodes[i], got.Nodes[i]
		if w.ID != o.ID || w.Hidden != o.Hidden || w.Position != o.Position || w.Data.Collapsed != o.Data.Collapsed {
			t.Errorf("node %d: adapter %+v, project %+v", i, o, w)
		}
	}
	for i := range want.Edges {
		if want.Edges[i] != got.Edges[i] {
			t.Errorf("edge %d: adapter %+v, project %+v", i, got.Edges[i], want.Edges[i])
		}
	}
}

func TestAdapterRefreshAfterDirectMutation(t *testing.T) {
	a := newAdapter(t, scenario())
	a.Controller().CollapseAll()
	a.Refresh()
	if got := visibleIDs(a.Scene()); !slices.Equal(got, []string{"d1"}) {
		t.Errorf("visible = %v, want [d1]", got)
	}
}

func TestSceneJSON(t *testing.T) {
	s := Project(scenario(), nil, layout.Options{})
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{`"type":"custom"`, `"hasChildren":true`, `"kind":"folder"`, `"id":"d1-f1-0"`, `"position":{"x":0,"y":0}`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("json missing %s: %s", want, data)
		}
	}
	if strings.Contains(string(data), "OnToggle") {
		t.Error("callback must not be serialized")
	}
}
