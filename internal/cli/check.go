package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitgraph/pkg/core/hierarchy"
)

// checkCommand reports structural problems of a graph payload.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		in     inputOpts
		strict bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "check [graph.json | path | owner/repo]",
		Short: "Report structural problems in a repository graph",
		Long: `Report structural problems the layout engine silently recovers from:
dangling edges, duplicate ids, nodes with several parents, unreachable
nodes and cycles.

With --strict the command fails when any problem is found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := "."
			if len(args) == 1 {
				arg = args[0]
			}
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, in.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			ld, err := c.load(ctx, runner, arg, &in, cmd.InOrStdin())
			if err != nil {
				return err
			}
			issues := hierarchy.Diagnose(ld.graph)

			if asJSON {
				if issues == nil {
					issues = []hierarchy.Issue{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(issues); err != nil {
					return err
				}
			} else {
				p := printer{w: cmd.OutOrStdout()}
				if len(issues) == 0 {
					p.success("%s: no problems found", ld.input)
				} else {
					p.warning("%s: %d problem(s) found", ld.input, len(issues))
					p.issues(issues)
				}
				p.stats(len(ld.graph.Nodes), len(ld.graph.Edges), ld.cached)
			}

			if strict && len(issues) > 0 {
				if !asJSON {
					printer{w: cmd.ErrOrStderr()}.fail("--strict: refusing %s", ld.input)
				}
				return fmt.Errorf("%d structural problem(s)", len(issues))
			}
			return nil
		},
	}

	addInputFlags(cmd, &in)
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when problems are found")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print problems as JSON")
	return cmd
}
