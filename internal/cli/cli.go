// Package cli implements the gitgraph command-line interface.
//
// The CLI fetches repository trees (from a local checkout or GitHub), lays
// them out as a depth-layered hierarchy, and renders or browses the result
// with progressive disclosure: directories below the first level start
// collapsed and expand on demand.
//
// # Commands
//
//   - scan: list a repository tree and write the graph payload
//   - layout: compute the positioned scene of a payload
//   - render: write json, dot, svg, png or pdf outputs
//   - check: report structural problems the layout engine recovers from
//   - browse: interactive terminal browser with a detail pane
//   - serve: HTTP API with interactive views
//   - cache: manage the tree and layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The level can
// also be set with log.level in the config file.
package cli

import (
	"context"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gitgraph/pkg/buildinfo"
	"github.com/matzehuels/gitgraph/pkg/cache"
	"github.com/matzehuels/gitgraph/pkg/config"
	"github.com/matzehuels/gitgraph/pkg/pipeline"
	"github.com/matzehuels/gitgraph/pkg/source/github"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "gitgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), cfg: config.Default()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the loaded configuration.
func (c *CLI) Config() *config.Config { return c.cfg }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "gitgraph lays out repository trees as interactive layered graphs",
		Long: `gitgraph turns a repository file tree into a layered node-link diagram.

Directories below the first level start collapsed; expand them in the
terminal browser, over the HTTP API, or render a snapshot to SVG.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: gitgraph.yaml, gitgraph.toml or user config dir)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration and applies the log level.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	switch {
	case c.verbose:
		c.SetLogLevel(LogDebug)
	default:
		c.SetLogLevel(parseLevel(cfg.Log.Level))
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	c.Logger.Debug("configuration loaded", "cache", cfg.Cache.Backend, "policy", cfg.Layout.CollapsePolicy)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.TreeTTL = c.cfg.Cache.TTL
	if c.cfg.GitHub.BaseURL != "" {
		r.GitHubOptions = append(r.GitHubOptions, github.WithBaseURL(c.cfg.GitHub.BaseURL))
	}
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cc, err := cache.Open(ctx, c.cfg.CacheOptions())
	if err != nil {
		if c.cfg.Cache.Backend == "" || c.cfg.Cache.Backend == cache.BackendFile {
			c.Logger.Warn("file cache unavailable, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return nil, err
	}
	return cc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory from config, falling back to
// the per-user cache dir.
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// excludes merges configured excludes with command-line ones.
func (c *CLI) excludes(extra []string) []string {
	out := slices.Clone(c.cfg.Source.Exclude)
	for _, e := range extra {
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}
