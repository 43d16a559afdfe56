package cli

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitgraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	input    inputOpts
	view     viewOpts
	output   string   // output file (single format) or base path
	formats  []string // json, dot, svg, png, pdf
	detailed bool     // add node ids to labels
}

// renderCommand writes the current scene in one or more formats.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts       renderOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json | path | owner/repo]",
		Short: "Render a repository graph to json, dot, svg, png or pdf",
		Long: `Render the visible part of a repository graph.

Positions are pinned, so the drawing matches the scene produced by
"gitgraph layout" for the same options.

Examples:
  gitgraph render graph.json                     # graph.svg
  gitgraph render . -f svg,dot -o out/tree       # out/tree.svg, out/tree.dot
  gitgraph render golang/example --policy none -f png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := "."
			if len(args) == 1 {
				arg = args[0]
			}
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, arg, &opts)
		},
	}

	addInputFlags(cmd, &opts.input)
	c.addViewFlags(cmd, &opts.view)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node ids in labels")
	return cmd
}

// parseFormats parses the --format flag. Empty selects svg.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

func (c *CLI) runRender(cmd *cobra.Command, arg string, opts *renderOpts) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, opts.input.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	ld, err := c.load(ctx, runner, arg, &opts.input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	v, err := c.openView(ctx, runner, ld, &opts.view)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	artifacts, err := pipeline.Render(v.Scene(), opts.formats, opts.detailed)
	if err != nil {
		return err
	}
	prog.done("rendered", "formats", opts.formats)

	if opts.output == "-" {
		if len(opts.formats) != 1 {
			return fmt.Errorf("--output - requires exactly one format")
		}
		return writeOutput(cmd.OutOrStdout(), "-", artifacts[opts.formats[0]])
	}

	p := printer{w: cmd.ErrOrStderr()}
	p.success("Rendered %s", ld.input)
	p.stats(len(ld.graph.Nodes), len(ld.graph.Edges), ld.cached)
	for _, f := range opts.formats {
		path := outputPath(opts.output, ld.input, f, len(opts.formats) > 1)
		if err := writeOutput(cmd.OutOrStdout(), path, artifacts[f]); err != nil {
			return err
		}
		p.file(path)
	}
	return nil
}

// outputPath returns the file for format. A single format with an explicit
// output uses it verbatim; otherwise output (or a name derived from the
// input) is a base path and the format is the extension.
func outputPath(output string, in input, format string, multi bool) string {
	if output != "" && !multi {
		return output
	}
	base := output
	if base == "" {
		base = defaultBase(in)
	}
	return base + "." + format
}

func defaultBase(in input) string {
	switch in.kind {
	case inputGitHub:
		return in.repo
	case inputGraph:
		if in.path == "-" {
			return appName
		}
		return strings.TrimSuffix(in.path, filepath.Ext(in.path))
	default:
		abs, err := filepath.Abs(in.path)
		if err != nil {
			return appName
		}
		name := filepath.Base(abs)
		if name == "/" || name == "." {
			return appName
		}
		return name
	}
}
