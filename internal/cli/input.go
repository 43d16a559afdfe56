package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitgraph/pkg/errors"
	"github.com/matzehuels/gitgraph/pkg/graph"
	"github.com/matzehuels/gitgraph/pkg/pipeline"
	"github.com/matzehuels/gitgraph/pkg/source/github"
)

// Input kinds accepted by commands that take a graph.
const (
	inputGraph  = "graph"
	inputLocal  = pipeline.SourceLocal
	inputGitHub = pipeline.SourceGitHub
)

// inputOpts holds the flags shared by commands reading a repository tree.
type inputOpts struct {
	source  string   // auto, graph, local or github
	ref     string   // git ref
	exclude []string // extra exclude patterns
	refresh bool     // bypass cached trees
	noCache bool     // disable caching entirely
}

func addInputFlags(cmd *cobra.Command, o *inputOpts) {
	cmd.Flags().StringVar(&o.source, "source", "auto", "input kind: auto, graph, local, github")
	cmd.Flags().StringVar(&o.ref, "ref", "", "git ref (branch, tag or sha); default branch or HEAD if empty")
	cmd.Flags().StringSliceVarP(&o.exclude, "exclude", "x", nil, "glob patterns to exclude (repeatable)")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "bypass the tree cache")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
}

// input is a resolved command argument.
type input struct {
	kind  string
	path  string // graph file or local directory; "-" is stdin
	owner string
	repo  string
	ref   string
}

func (in input) String() string {
	if in.kind == inputGitHub {
		s := in.owner + "/" + in.repo
		if in.ref != "" {
			s += "@" + in.ref
		}
		return s
	}
	return in.path
}

// resolveInput classifies arg. With source "auto", "-" and existing files
// are graph payloads, existing directories are local trees, and anything
// parsing as owner/repo[@ref] or a GitHub URL is a GitHub repository.
func resolveInput(arg, source, ref string) (input, error) {
	switch source {
	case "", "auto":
	case inputGraph, inputLocal:
		return input{kind: source, path: arg, ref: ref}, nil
	case inputGitHub:
		return githubInput(arg, ref)
	default:
		return input{}, errors.New(errors.ErrCodeInvalidInput, "invalid source: %q (must be auto, graph, local or github)", source)
	}

	if arg == "-" {
		return input{kind: inputGraph, path: arg}, nil
	}
	if info, err := os.Stat(arg); err == nil {
		if info.IsDir() {
			return input{kind: inputLocal, path: arg, ref: ref}, nil
		}
		return input{kind: inputGraph, path: arg}, nil
	}
	in, err := githubInput(arg, ref)
	if err != nil {
		return input{}, errors.New(errors.ErrCodeNotFound, "%s: no such file or directory, and not a GitHub repository", arg)
	}
	return in, nil
}

func githubInput(arg, ref string) (input, error) {
	owner, repo, parsedRef, err := github.ParseRepoRef(arg)
	if err != nil {
		return input{}, err
	}
	if ref == "" {
		ref = parsedRef
	}
	return input{kind: inputGitHub, owner: owner, repo: repo, ref: ref}, nil
}

// loaded is a graph together with where it came from.
type loaded struct {
	input  input
	graph  graph.Graph
	cached bool
}

// load reads the graph named by arg. stdin is used for "-".
func (c *CLI) load(ctx context.Context, runner *pipeline.Runner, arg string, o *inputOpts, stdin io.Reader) (*loaded, error) {
	in, err := resolveInput(arg, o.source, o.ref)
	if err != nil {
		return nil, err
	}

	if in.kind == inputGraph {
		var g graph.Graph
		if in.path == "-" {
			g, err = graph.ReadGraph(stdin)
		} else {
			g, err = graph.ReadGraphFile(in.path)
		}
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("read graph", "path", in.path, "nodes", len(g.Nodes))
		return &loaded{input: in, graph: g}, nil
	}

	fetch := pipeline.FetchOptions{
		Source:  in.kind,
		Owner:   in.owner,
		Repo:    in.repo,
		Ref:     in.ref,
		Path:    in.path,
		Exclude: c.excludes(o.exclude),
		Refresh: o.refresh,
		Token:   c.cfg.GitHub.Token,
		Logger:  c.Logger,
	}
	if in.kind == inputLocal {
		abs, err := filepath.Abs(in.path)
		if err == nil {
			fetch.Path = abs
		}
	}

	g, hit, err := runner.FetchWithCacheInfo(ctx, fetch)
	if err != nil {
		return nil, err
	}
	return &loaded{input: in, graph: g, cached: hit}, nil
}

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
