package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/gitgraph/pkg/cache"
	"github.com/matzehuels/gitgraph/pkg/core/layout"
	"github.com/matzehuels/gitgraph/pkg/core/visibility"
	"github.com/matzehuels/gitgraph/pkg/errors"
	"github.com/matzehuels/gitgraph/pkg/graph"
	"github.com/matzehuels/gitgraph/pkg/observability"
	"github.com/matzehuels/gitgraph/pkg/render/flow"
	"github.com/matzehuels/gitgraph/pkg/source/github"
	"github.com/matzehuels/gitgraph/pkg/view"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestFetchOptionsValidate(t *testing.T) {
	tests := []struct {
		name       string
		opts       FetchOptions
		wantSource string
		wantErr    bool
	}{
		{"infer github", FetchOptions{Owner: "foo", Repo: "bar"}, SourceGitHub, false},
		{"infer local", FetchOptions{}, SourceLocal, false},
		{"github missing repo", FetchOptions{Source: SourceGitHub, Owner: "foo"}, "", true},
		{"bad source", FetchOptions{Source: "svn"}, "", true},
		{"bad ref", FetchOptions{Source: SourceLocal, Ref: "a..b"}, "", true},
		{"bad exclude", FetchOptions{Exclude: []string{"[x"}}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.ValidateForFetch()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateForFetch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && opts.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", opts.Source, tt.wantSource)
			}
			if !tt.wantErr && opts.Logger == nil {
				t.Error("Logger default not set")
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Fetch: FetchOptions{Path: "."}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	if opts.Layout.SpacingX != layout.DefaultSpacingX || opts.Layout.SpacingY != layout.DefaultSpacingY {
		t.Errorf("layout defaults not applied: %+v", opts.Layout)
	}
	if opts.Policy != visibility.DefaultPolicy {
		t.Errorf("Policy = %q, want %q", opts.Policy, visibility.DefaultPolicy)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
}

func TestOptionsRejectBadLayout(t *testing.T) {
	opts := Options{Layout: layout.Options{SpacingX: -1}}
	if err := opts.ValidateForLayout(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ValidateForLayout() error = %v", err)
	}
	opts = Options{Policy: "sideways"}
	if err := opts.ValidateForLayout(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ValidateForLayout() policy error = %v", err)
	}
}

func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func fileCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestRunnerFetchLocal(t *testing.T) {
	root := writeTree(t, "src/main.go", "src/util/str.go", "vendor/dep/x.go", "README.md")
	r := NewRunner(fileCache(t), nil, nil)

	g, hit, err := r.FetchWithCacheInfo(context.Background(), FetchOptions{Path: root, Exclude: []string{"vendor"}})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if hit {
		t.Error("local fetch should never hit the cache")
	}
	for _, n := range g.Nodes {
		if strings.HasPrefix(n.Path, "vendor") {
			t.Errorf("excluded node %q present", n.Path)
		}
	}
	// src, src/main.go, src/util, src/util/str.go, README.md
	if len(g.Nodes) != 5 {
		t.Errorf("nodes = %d, want 5", len(g.Nodes))
	}
}

func TestRunnerFetchGitHubCached(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"sha":"s","tree":[{"path":"docs/index.md","type":"blob"},{"path":"go.mod","type":"blob"}]}`))
	}))
	defer server.Close()

	r := NewRunner(fileCache(t), nil, nil)
	r.GitHubOptions = []github.Option{github.WithBaseURL(server.URL), github.WithRetry(1, time.Millisecond)}
	opts := FetchOptions{Owner: "foo", Repo: "bar", Ref: "main"}

	g, hit, err := r.FetchWithCacheInfo(context.Background(), opts)
	if err != nil || hit {
		t.Fatalf("first fetch = hit %v, err %v", hit, err)
	}
	if len(g.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3 (docs, docs/index.md, go.mod)", len(g.Nodes))
	}

	g2, hit, err := r.FetchWithCacheInfo(context.Background(), opts)
	if err != nil || !hit {
		t.Fatalf("second fetch = hit %v, err %v", hit, err)
	}
	if len(g2.Nodes) != len(g.Nodes) || calls.Load() != 1 {
		t.Errorf("cached graph differs or server called %d times", calls.Load())
	}

	opts.Refresh = true
	if _, hit, _ := r.FetchWithCacheInfo(context.Background(), opts); hit || calls.Load() != 2 {
		t.Errorf("refresh should bypass cache (hit %v, calls %d)", hit, calls.Load())
	}

	opts.Refresh = false
	opts.Token = "other-user"
	if _, hit, _ := r.FetchWithCacheInfo(context.Background(), opts); hit {
		t.Error("a different token must not share cached trees")
	}
}

func sampleGraph() graph.Graph {
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

func TestRunnerLayoutCached(t *testing.T) {
	r := NewRunner(fileCache(t), nil, nil)
	g := sampleGraph()

	res, hit, err := r.LayoutWithCacheInfo(context.Background(), g, layout.Options{})
	if err != nil || hit {
		t.Fatalf("first layout = hit %v, err %v", hit, err)
	}
	cached, hit, err := r.LayoutWithCacheInfo(context.Background(), g, layout.Options{})
	if err != nil || !hit {
		t.Fatalf("second layout = hit %v, err %v", hit, err)
	}
	if cached.Positions["f1"] != res.Positions["f1"] {
		t.Errorf("cached position = %v, want %v", cached.Positions["f1"], res.Positions["f1"])
	}

	_, hit, _ = r.LayoutWithCacheInfo(context.Background(), g, layout.Options{SpacingX: 50})
	if hit {
		t.Error("different spacing must not hit the cache")
	}

	if _, _, err := r.LayoutWithCacheInfo(context.Background(), g, layout.Options{SpacingY: -5}); err == nil {
		t.Error("negative spacing should fail")
	}
}

func TestRunnerOpen(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	v, err := r.Open(context.Background(), sampleGraph(), view.Options{Policy: visibility.PolicyNone})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	up, err := v.Dispatch(context.Background(), flow.Event{Kind: flow.EventToggle, NodeID: "d1"})
	if err != nil || !up.Changed {
		t.Fatalf("toggle = %+v, %v", up, err)
	}
	if n := len(up.Scene.VisibleNodes()); n != 1 {
		t.Errorf("visible nodes = %d, want 1", n)
	}
}

func TestRunnerExecute(t *testing.T) {
	root := writeTree(t, "a/b.txt", "c.txt")
	r := NewRunner(fileCache(t), nil, nil)

	res, err := r.Execute(context.Background(), Options{
		Fetch:   FetchOptions{Path: root},
		Policy:  visibility.PolicyNone,
		Formats: []string{FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Stats.NodeCount != 3 || res.GraphHash == "" {
		t.Errorf("stats = %+v, hash = %q", res.Stats, res.GraphHash)
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatDOT]), "digraph") {
		t.Errorf("dot artifact = %q", res.Artifacts[FormatDOT])
	}
	var scene flow.Scene
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &scene); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(scene.Nodes) != 3 || len(scene.Edges) != 1 {
		t.Errorf("scene = %d nodes, %d edges; want 3, 1", len(scene.Nodes), len(scene.Edges))
	}
	if len(res.Issues) != 0 {
		t.Errorf("issues = %v, want none", res.Issues)
	}
}

type layoutCounter struct {
	observability.NoopPipelineHooks
	starts atomic.Int32
}

func (c *layoutCounter) OnLayoutStart(context.Context, int) { c.starts.Add(1) }

func TestRunnerExecuteLaysOutOnce(t *testing.T) {
	counter := &layoutCounter{}
	observability.SetPipelineHooks(counter)
	t.Cleanup(observability.Reset)

	root := writeTree(t, "a/b.txt", "c.txt")
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Fetch:   FetchOptions{Path: root},
		Policy:  visibility.PolicyNone,
		Formats: []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := counter.starts.Load(); got != 1 {
		t.Errorf("layout computed %d times, want 1", got)
	}
	for _, n := range res.Scene.Nodes {
		if p, ok := res.Layout.Positions[n.ID]; ok && (n.Position.X != p.X || n.Position.Y != p.Y) {
			t.Errorf("scene position of %s = %v, layout says %v", n.ID, n.Position, p)
		}
	}
}

func TestRenderEmptyScene(t *testing.T) {
	s := flow.Project(graph.Graph{}, nil, layout.Options{})
	out, err := Render(s, []string{FormatJSON, FormatDOT}, false)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(out[FormatJSON]), flow.EmptyMessage) {
		t.Errorf("json = %s", out[FormatJSON])
	}
	if _, err := Render(s, []string{"gif"}, false); err == nil {
		t.Error("unknown format should fail")
	}
}
