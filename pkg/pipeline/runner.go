package pipeline

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitgraph/pkg/cache"
	"github.com/matzehuels/gitgraph/pkg/core/hierarchy"
	"github.com/matzehuels/gitgraph/pkg/core/layout"
	"github.com/matzehuels/gitgraph/pkg/core/visibility"
	"github.com/matzehuels/gitgraph/pkg/errors"
	"github.com/matzehuels/gitgraph/pkg/graph"
	"github.com/matzehuels/gitgraph/pkg/observability"
	"github.com/matzehuels/gitgraph/pkg/source"
	"github.com/matzehuels/gitgraph/pkg/source/github"
	"github.com/matzehuels/gitgraph/pkg/source/local"
	"github.com/matzehuels/gitgraph/pkg/view"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// GitHubOptions are applied to every GitHub client the runner creates.
	GitHubOptions []github.Option

	// TreeTTL overrides how long fetched trees stay cached. Zero uses cache.TTLTree.
	TreeTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete fetch → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts.Fetch)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Fetch
	fetchStart := time.Now()
	g, fetchHit, err := r.FetchWithCacheInfo(ctx, opts.Fetch)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Stats.FetchTime = time.Since(fetchStart)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)
	result.CacheInfo.FetchHit = fetchHit
	result.GraphHash = graphHash(g)

	r.Logger.Info("fetched tree",
		"source", opts.Fetch.String(),
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"cached", fetchHit,
		"duration", result.Stats.FetchTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	res, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, opts.Layout)
	if err != nil {
		return nil, err
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.LayerCount = len(res.Layers)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"layers", len(res.Layers),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	v, err := r.Open(ctx, g, view.Options{Layout: opts.Layout, Policy: opts.Policy, LayoutFunc: r.reuse(res)})
	if err != nil {
		return nil, err
	}
	result.Scene = v.Scene()
	result.Issues = v.Issues()
	artifacts, err := Render(result.Scene, opts.Formats, opts.Detailed)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// FetchWithCacheInfo lists a repository tree, builds the graph payload and
// reports whether it came from cache. Local trees are never cached.
func (r *Runner) FetchWithCacheInfo(ctx context.Context, opts FetchOptions) (graph.Graph, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForFetch(); err != nil {
		return graph.Graph{}, false, err
	}

	useCache := opts.Source == SourceGitHub
	keyer := r.Keyer
	if scope := cache.TokenScope(opts.Token); scope != "" {
		keyer = cache.NewScopedKeyer(keyer, scope)
	}
	src, target, ref, keyOpts := opts.treeKeyParts()
	cacheKey := keyer.TreeKey(src, target, ref, keyOpts)

	if useCache && !opts.Refresh {
		if g, ok := r.cachedGraph(ctx, cacheKey); ok {
			return g, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, opts.Source, opts.Target())
	start := time.Now()
	entries, err := r.list(ctx, opts)
	if err != nil {
		hooks.OnFetchComplete(ctx, opts.Source, opts.Target(), 0, time.Since(start), err)
		return graph.Graph{}, false, err
	}
	g := source.Build(source.Filter{Exclude: opts.Exclude}.Apply(entries))
	hooks.OnFetchComplete(ctx, opts.Source, opts.Target(), len(g.Nodes), time.Since(start), nil)

	if useCache {
		if data, err := graph.MarshalGraph(g); err == nil {
			r.store(ctx, cacheKey, cache.KeyTypeTree, data, cmp.Or(r.TreeTTL, cache.TTLTree))
		}
	}
	return g, false, nil
}

// Fetch is a convenience wrapper that calls FetchWithCacheInfo and discards the cache hit info.
func (r *Runner) Fetch(ctx context.Context, opts FetchOptions) (graph.Graph, error) {
	g, _, err := r.FetchWithCacheInfo(ctx, opts)
	return g, err
}

func (r *Runner) list(ctx context.Context, opts FetchOptions) ([]source.Entry, error) {
	switch opts.Source {
	case SourceGitHub:
		client := github.NewClient(opts.Token, r.GitHubOptions...)
		tree, err := client.FetchTree(ctx, opts.Owner, opts.Repo, opts.Ref)
		if err != nil {
			return nil, err
		}
		if tree.Truncated {
			opts.Logger.Warn("GitHub truncated the tree listing", "repo", opts.Target(), "ref", tree.Ref, "entries", len(tree.Entries))
		}
		opts.Logger.Debug("fetched GitHub tree", "repo", opts.Target(), "ref", tree.Ref, "sha", tree.SHA)
		return tree.Entries, nil
	case SourceLocal:
		res, err := local.Scan(ctx, opts.Path, opts.Ref)
		if err != nil {
			return nil, err
		}
		opts.Logger.Debug("scanned local tree", "root", res.Root, "git", res.Git, "ref", res.Ref, "commit", res.Commit)
		return res.Entries, nil
	default:
		return nil, ValidateSource(opts.Source)
	}
}

// LayoutWithCacheInfo positions g with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g graph.Graph, opts layout.Options) (*layout.Result, bool, error) {
	return r.layout(ctx, g, nil, opts)
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g graph.Graph, opts layout.Options) (*layout.Result, error) {
	res, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return res, err
}

// layout computes positions, reusing h when the caller already analyzed g.
func (r *Runner) layout(ctx context.Context, g graph.Graph, h *hierarchy.Hierarchy, opts layout.Options) (*layout.Result, bool, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "layout options")
	}

	cacheKey := r.Keyer.LayoutKey(graphHash(g), LayoutKeyOpts(opts))
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var cached layout.Result
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, cache.KeyTypeLayout)
			return &cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, cache.KeyTypeLayout)

	if h == nil {
		h = hierarchy.Analyze(g)
	}
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, h.Len())
	start := time.Now()
	res := layout.AssignHierarchy(h, opts)
	hooks.OnLayoutComplete(ctx, len(res.Layers), time.Since(start), nil)

	if data, err := json.Marshal(res); err == nil {
		r.store(ctx, cacheKey, cache.KeyTypeLayout, data, cache.TTLLayout)
	}
	return res, false, nil
}

// LayoutFunc returns a [view.LayoutFunc] backed by the runner's layout cache.
func (r *Runner) LayoutFunc() view.LayoutFunc {
	return func(ctx context.Context, g graph.Graph, h *hierarchy.Hierarchy, opts layout.Options) (*layout.Result, error) {
		res, _, err := r.layout(ctx, g, h, opts)
		return res, err
	}
}

// reuse hands res to the first load of a view and falls back to
// [Runner.LayoutFunc] for every later one.
func (r *Runner) reuse(res *layout.Result) view.LayoutFunc {
	var used atomic.Bool
	next := r.LayoutFunc()
	return func(ctx context.Context, g graph.Graph, h *hierarchy.Hierarchy, opts layout.Options) (*layout.Result, error) {
		if used.CompareAndSwap(false, true) {
			return res, nil
		}
		return next(ctx, g, h, opts)
	}
}

// Open creates a view over g using the runner's layout cache.
func (r *Runner) Open(ctx context.Context, g graph.Graph, opts view.Options) (*view.View, error) {
	if opts.Policy == "" {
		opts.Policy = visibility.DefaultPolicy
	}
	if opts.LayoutFunc == nil {
		opts.LayoutFunc = r.LayoutFunc()
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	v := view.New(opts)
	if _, err := v.Load(ctx, g); err != nil {
		return nil, err
	}
	return v, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cachedGraph(ctx context.Context, key string) (graph.Graph, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeTree)
		return graph.Graph{}, false
	}
	g, err := graph.ReadGraph(bytes.NewReader(data))
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeTree)
		return graph.Graph{}, false
	}
	observability.Cache().OnCacheHit(ctx, cache.KeyTypeTree)
	return g, true
}

func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *FetchOptions) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func graphHash(g graph.Graph) string {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
