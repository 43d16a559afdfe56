package view

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/gitgraph/pkg/core/hierarchy"
	"github.com/matzehuels/gitgraph/pkg/core/layout"
	"github.com/matzehuels/gitgraph/pkg/core/visibility"
	"github.com/matzehuels/gitgraph/pkg/detail"
	"github.com/matzehuels/gitgraph/pkg/errors"
	"github.com/matzehuels/gitgraph/pkg/graph"
	"github.com/matzehuels/gitgraph/pkg/observability"
	"github.com/matzehuels/gitgraph/pkg/render/flow"
)

// View-level event kinds, handled in addition to the adapter's click and toggle.
const (
	EventExpandAll   flow.EventKind = "expand_all"
	EventCollapseAll flow.EventKind = "collapse_all"
	EventReset       flow.EventKind = "reset"
)

// LayoutFunc positions an analyzed graph. The pipeline supplies a cached
// implementation; the default calls [layout.AssignHierarchy].
type LayoutFunc func(ctx context.Context, g graph.Graph, h *hierarchy.Hierarchy, opts layout.Options) (*layout.Result, error)

// Options configures a View.
type Options struct {
	Layout layout.Options
	Policy visibility.Policy
	// LayoutFunc overrides how positions are computed.
	LayoutFunc LayoutFunc
	Logger     *log.Logger
}

// Update is the outcome of [View.Dispatch].
type Update struct {
	Changed bool           `json:"changed"`
	Scene   flow.Scene     `json:"scene"`
	Detail  *detail.Detail `json:"detail,omitempty"`
}

// state is everything derived from one loaded graph.
type state struct {
	graph    graph.Graph
	adapter  *flow.Adapter
	resolver detail.Resolver
	issues   []hierarchy.Issue
	bounds   layout.Bounds
}

// View is one interactive graph view. It is safe for concurrent use.
type View struct {
	id     string
	opts   Options
	logger *log.Logger

	mu      sync.Mutex
	started uint64 // generation of the newest Load that began
	applied uint64 // generation of the state currently shown
	st      *state
	clicked *string

	lastUsed atomic.Int64
}

// New creates an empty view.
func New(opts Options) *View {
	if opts.Policy == "" {
		opts.Policy = visibility.DefaultPolicy
	}
	opts.Layout = opts.Layout.WithDefaults()
	if opts.LayoutFunc == nil {
		opts.LayoutFunc = assign
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	v := &View{
		id:     uuid.NewString(),
		opts:   opts,
		logger: logger,
	}
	v.st = v.derive(graph.Graph{}, hierarchy.Analyze(graph.Graph{}), &layout.Result{Options: opts.Layout, Positions: layout.Positions{}})
	v.touch()
	return v
}

func assign(_ context.Context, _ graph.Graph, h *hierarchy.Hierarchy, opts layout.Options) (*layout.Result, error) {
	return layout.AssignHierarchy(h, opts), nil
}

// ID returns the view id.
func (v *View) ID() string { return v.id }

// Options returns the options the view was created with.
func (v *View) Options() Options { return v.opts }

// Generation returns the generation of the graph currently shown. It is 0
// until the first successful load.
func (v *View) Generation() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.applied
}

// LastUsed returns when the view last served a request.
func (v *View) LastUsed() time.Time {
	return time.Unix(0, v.lastUsed.Load())
}

func (v *View) touch() { v.lastUsed.Store(time.Now().UnixNano()) }

// Load replaces the view's graph. It reports false without error when a
// newer load started while this one was computing; the result is then
// dropped. The collapsed set is rebuilt from the view's policy.
func (v *View) Load(ctx context.Context, g graph.Graph) (bool, error) {
	v.touch()
	v.mu.Lock()
	v.started++
	gen := v.started
	v.mu.Unlock()

	start := time.Now()
	h := hierarchy.Analyze(g)
	if err := ctx.Err(); err != nil {
		return false, err
	}
	res, err := v.opts.LayoutFunc(ctx, g, h, v.opts.Layout)
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	st := v.derive(g, h, res)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen < v.started {
		v.logger.Debug("discarded stale graph", "view", v.id, "generation", gen, "newest", v.started)
		observability.View().OnDiscard(ctx, v.id, gen)
		return false, nil
	}
	v.st = st
	v.applied = gen
	v.clicked = nil

	dur := time.Since(start)
	v.logger.Debug("loaded graph", "view", v.id, "nodes", h.Len(), "generation", gen, "duration", dur)
	observability.View().OnLoad(ctx, v.id, h.Len(), dur)
	return true, nil
}

func (v *View) derive(g graph.Graph, h *hierarchy.Hierarchy, res *layout.Result) *state {
	ctrl := visibility.New(h, v.opts.Policy)
	st := &state{
		graph:    g,
		resolver: detail.NewGraphResolver(h),
		issues:   hierarchy.Diagnose(g),
		bounds:   res.Bounds(),
	}
	st.adapter = flow.NewAdapter(ctrl, g.Edges, res, flow.WithClickHandler(func(id string) {
		v.clicked = &id
	}))
	return st
}

// Scene returns the current records. Each node's OnToggle dispatches a
// toggle through the view.
func (v *View) Scene() flow.Scene {
	v.touch()
	v.mu.Lock()
	s := v.st.adapter.Scene()
	v.mu.Unlock()
	return v.bind(s)
}

func (v *View) bind(s flow.Scene) flow.Scene {
	for i := range s.Nodes {
		id := s.Nodes[i].ID
		s.Nodes[i].Data.OnToggle = func() {
			_, _ = v.Dispatch(context.Background(), flow.Event{Kind: flow.EventToggle, NodeID: id})
		}
	}
	return s
}

// Dispatch applies a canvas event. Toggles on unknown or leaf nodes are
// silent no-ops. A click on a known node returns its detail.
func (v *View) Dispatch(ctx context.Context, ev flow.Event) (*Update, error) {
	v.touch()
	switch ev.Kind {
	case flow.EventClick, flow.EventToggle:
		if err := errors.ValidateNodeID(ev.NodeID); err != nil {
			return nil, err
		}
	}

	v.mu.Lock()
	st := v.st
	ctrl := st.adapter.Controller()
	changed := false
	var err error
	switch ev.Kind {
	case EventExpandAll:
		ctrl.ExpandAll()
		st.adapter.Refresh()
		changed = true
	case EventCollapseAll:
		ctrl.CollapseAll()
		st.adapter.Refresh()
		changed = true
	case EventReset:
		ctrl.Reset()
		st.adapter.Refresh()
		changed = true
	default:
		v.clicked = nil
		changed, err = st.adapter.Dispatch(ev)
	}
	clicked := v.clicked
	v.clicked = nil
	scene := st.adapter.Scene()
	v.mu.Unlock()

	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "dispatch %s", ev.Kind)
	}

	up := &Update{Changed: changed, Scene: v.bind(scene)}
	switch ev.Kind {
	case flow.EventToggle:
		observability.View().OnToggle(ctx, v.id, ev.NodeID, changed)
		v.logger.Debug("toggle", "view", v.id, "node", ev.NodeID, "changed", changed)
	case flow.EventClick:
		observability.View().OnClick(ctx, v.id, ev.NodeID)
		if clicked != nil {
			d, err := st.resolver.Resolve(ctx, *clicked)
			if err != nil {
				return nil, err
			}
			up.Detail = d
		}
	}
	return up, nil
}

// Detail resolves the detail panel of a node.
func (v *View) Detail(ctx context.Context, id string) (*detail.Detail, error) {
	v.touch()
	if err := errors.ValidateNodeID(id); err != nil {
		return nil, err
	}
	v.mu.Lock()
	r := v.st.resolver
	v.mu.Unlock()
	return r.Resolve(ctx, id)
}

// Graph returns the graph currently shown.
func (v *View) Graph() graph.Graph {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.st.graph
}

// Issues returns the structural diagnostics of the current graph.
func (v *View) Issues() []hierarchy.Issue {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]hierarchy.Issue(nil), v.st.issues...)
}

// Collapsed returns the collapsed node ids in sorted order.
func (v *View) Collapsed() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.st.adapter.Controller().Collapsed()
}

// Bounds returns the bounding box of the current layout.
func (v *View) Bounds() layout.Bounds {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.st.bounds
}
