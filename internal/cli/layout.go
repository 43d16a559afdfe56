package cli

import (
	"context"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitgraph/pkg/core/visibility"
	"github.com/matzehuels/gitgraph/pkg/errors"
	"github.com/matzehuels/gitgraph/pkg/pipeline"
	"github.com/matzehuels/gitgraph/pkg/render/flow"
	"github.com/matzehuels/gitgraph/pkg/view"
)

// viewOpts holds the flags controlling the initial scene.
type viewOpts struct {
	spacingX float64
	spacingY float64
	policy   string
	expand   []string // ids or paths of directories to expand
}

func (c *CLI) addViewFlags(cmd *cobra.Command, o *viewOpts) {
	cmd.Flags().Float64Var(&o.spacingX, "spacing-x", 0, "horizontal spacing between siblings (default from config)")
	cmd.Flags().Float64Var(&o.spacingY, "spacing-y", 0, "vertical spacing between layers (default from config)")
	cmd.Flags().StringVar(&o.policy, "policy", "", "initial collapse policy: nested, none, all (default from config)")
	cmd.Flags().StringSliceVar(&o.expand, "expand", nil, "directory ids or paths to expand (repeatable)")
}

// viewOptions merges flags over the configured defaults.
func (c *CLI) viewOptions(o *viewOpts) (view.Options, error) {
	lo := c.cfg.LayoutOptions()
	if o.spacingX != 0 {
		lo.SpacingX = o.spacingX
	}
	if o.spacingY != 0 {
		lo.SpacingY = o.spacingY
	}
	lo = lo.WithDefaults()
	if err := lo.Validate(); err != nil {
		return view.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "layout options")
	}

	policy := c.cfg.Policy()
	if o.policy != "" {
		p, err := visibility.ParsePolicy(o.policy)
		if err != nil {
			return view.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "--policy")
		}
		policy = p
	}
	return view.Options{Layout: lo, Policy: policy, Logger: c.Logger}, nil
}

// openView lays out ld and expands the requested directories.
func (c *CLI) openView(ctx context.Context, runner *pipeline.Runner, ld *loaded, o *viewOpts) (*view.View, error) {
	vo, err := c.viewOptions(o)
	if err != nil {
		return nil, err
	}
	v, err := runner.Open(ctx, ld.graph, vo)
	if err != nil {
		return nil, err
	}
	for _, target := range o.expand {
		id := resolveNodeID(ld, target)
		if !slices.Contains(v.Collapsed(), id) {
			c.Logger.Debug("expand: not a collapsed directory", "node", target)
			continue
		}
		if _, err := v.Dispatch(ctx, flow.Event{Kind: flow.EventToggle, NodeID: id}); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// resolveNodeID maps a node path to its id. Unknown paths are returned as-is.
func resolveNodeID(ld *loaded, target string) string {
	for _, n := range ld.graph.Nodes {
		if n.ID == target {
			return n.ID
		}
	}
	for _, n := range ld.graph.Nodes {
		if n.Path == target {
			return n.ID
		}
	}
	return target
}

// layoutCommand computes the positioned scene of a graph.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		in     inputOpts
		vo     viewOpts
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json | path | owner/repo]",
		Short: "Compute the positioned scene of a repository graph",
		Long: `Compute node positions and the initial visible set, and write the scene
as JSON: one record per node with its position and hidden flag, and one per
edge.

Examples:
  gitgraph layout graph.json
  gitgraph scan | gitgraph layout - --policy none
  gitgraph layout . --expand internal --spacing-x 180`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := "."
			if len(args) == 1 {
				arg = args[0]
			}
			return c.runLayout(cmd, arg, &in, &vo, output)
		},
	}

	addInputFlags(cmd, &in)
	c.addViewFlags(cmd, &vo)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, arg string, in *inputOpts, vo *viewOpts, output string) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, in.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	ld, err := c.load(ctx, runner, arg, in, cmd.InOrStdin())
	if err != nil {
		return err
	}
	prog := newProgress(loggerFromContext(ctx))
	v, err := c.openView(ctx, runner, ld, vo)
	if err != nil {
		return err
	}
	scene := v.Scene()
	prog.done("computed layout", "nodes", len(scene.Nodes), "visible", len(scene.VisibleNodes()))

	out, err := pipeline.Render(scene, []string{pipeline.FormatJSON}, false)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), output, out[pipeline.FormatJSON])
}
