package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gitgraph/pkg/graph"
)

// scanCommand lists a repository tree and writes the graph payload.
func (c *CLI) scanCommand() *cobra.Command {
	var (
		opts   inputOpts
		output string
	)

	cmd := &cobra.Command{
		Use:   "scan [path | owner/repo[@ref]]",
		Short: "List a repository tree and write its graph payload",
		Long: `List a repository tree and write its graph payload as JSON.

The argument is a local directory (default ".") or a GitHub repository.
Local directories inside a git checkout are read from the committed tree at
--ref (HEAD by default); other directories are walked on disk, honoring
.gitignore files.

Examples:
  gitgraph scan                         # current directory
  gitgraph scan ./service -o graph.json
  gitgraph scan golang/example@master   # GitHub (uses GITHUB_TOKEN if set)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := "."
			if len(args) == 1 {
				arg = args[0]
			}
			return c.runScan(cmd, arg, &opts, output)
		},
	}

	addInputFlags(cmd, &opts)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func (c *CLI) runScan(cmd *cobra.Command, arg string, opts *inputOpts, output string) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Scanning "+arg+"...")
	spinner.Start()
	prog := newProgress(loggerFromContext(ctx))
	ld, err := c.load(ctx, runner, arg, opts, cmd.InOrStdin())
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("scanned tree", "source", ld.input.String(), "nodes", len(ld.graph.Nodes))

	data, err := graph.MarshalGraph(ld.graph)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd.OutOrStdout(), output, data); err != nil {
		return err
	}

	if output != "" && output != "-" {
		p := printer{w: cmd.ErrOrStderr()}
		p.success("Scanned %s", ld.input)
		p.stats(len(ld.graph.Nodes), len(ld.graph.Edges), ld.cached)
		p.file(output)
		p.nextStep("Browse it", "gitgraph browse "+output)
	}
	return nil
}
