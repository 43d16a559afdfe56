// Package pipeline provides the fetch → layout → view pipeline for gitgraph.
//
// This package implements the stages that the CLI and the HTTP server share.
// By centralizing this logic, every entry point caches, logs and reports
// the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Fetch: list a repository tree (GitHub or a local checkout) and build
//     the graph payload
//  2. Layout: compute depth-layered positions for the graph
//  3. Render: project the visible subset into scene JSON, DOT, SVG, PNG or PDF
//
// Each stage can be run independently or as part of the complete pipeline.
// Fetched trees and layouts are cached through [cache.Cache]; the collapsed
// state of a view is never cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Fetch:   pipeline.FetchOptions{Source: pipeline.SourceGitHub, Owner: "golang", Repo: "example"},
//	    Formats: []string{pipeline.FormatSVG},
//	})
//
// Run individual stages:
//
//	g, err := runner.Fetch(ctx, fetchOpts)
//	res, err := runner.Layout(ctx, g, layout.Options{})
//	v, err := runner.Open(ctx, g, viewOpts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitgraph/pkg/cache"
	"github.com/matzehuels/gitgraph/pkg/core/hierarchy"
	"github.com/matzehuels/gitgraph/pkg/core/layout"
	"github.com/matzehuels/gitgraph/pkg/core/visibility"
	"github.com/matzehuels/gitgraph/pkg/errors"
	"github.com/matzehuels/gitgraph/pkg/graph"
	"github.com/matzehuels/gitgraph/pkg/render/flow"
	"github.com/matzehuels/gitgraph/pkg/source"
	"github.com/matzehuels/gitgraph/pkg/source/github"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Tree sources.
const (
	SourceGitHub = "github"
	SourceLocal  = "local"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// DefaultPNGScale is the rasterization scale for PNG output.
const DefaultPNGScale = 2.0

// ValidSources is the set of supported tree sources.
var ValidSources = map[string]bool{
	SourceGitHub: true,
	SourceLocal:  true,
}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// FetchOptions selects the repository tree to fetch.
// This struct supports JSON serialization for API requests.
type FetchOptions struct {
	Source  string   `json:"source"`
	Owner   string   `json:"owner,omitempty"` // GitHub owner (user/org)
	Repo    string   `json:"repo,omitempty"`  // GitHub repository name
	Ref     string   `json:"ref,omitempty"`   // Git ref (branch/tag/sha); empty means default branch or HEAD
	Path    string   `json:"path,omitempty"`  // Local directory
	Exclude []string `json:"exclude,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Token  string      `json:"-"`
	Logger *log.Logger `json:"-"`
}

// Options contains all configuration for a complete pipeline run.
type Options struct {
	Fetch    FetchOptions      `json:"fetch"`
	Layout   layout.Options    `json:"layout"`
	Policy   visibility.Policy `json:"collapse_policy,omitempty"`
	Formats  []string          `json:"formats,omitempty"`
	Detailed bool              `json:"detailed,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the fetched graph payload.
	Graph graph.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Layout contains the computed positions and layers.
	Layout *layout.Result

	// Scene is the initial visible projection.
	Scene flow.Scene

	// Issues lists structural problems found in the graph.
	Issues []hierarchy.Issue

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayerCount int
	FetchTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FetchHit  bool // Whether the tree came from cache
	LayoutHit bool // Whether positions came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSource checks that a source is valid.
func ValidateSource(src string) error {
	if !ValidSources[src] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid source: %q (must be one of: github, local)", src)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateForFetch checks required fields for fetching and applies defaults.
// An empty source is inferred: owner/repo means GitHub, otherwise local.
func (o *FetchOptions) ValidateForFetch() error {
	if o.Source == "" {
		if o.Owner != "" || o.Repo != "" {
			o.Source = SourceGitHub
		} else {
			o.Source = SourceLocal
		}
	}
	if err := ValidateSource(o.Source); err != nil {
		return err
	}

	switch o.Source {
	case SourceGitHub:
		if err := github.ValidateRepoRef(o.Owner, o.Repo, o.Ref); err != nil {
			return err
		}
	case SourceLocal:
		if o.Path == "" {
			o.Path = "."
		}
		if err := errors.ValidateRef(o.Ref); err != nil {
			return err
		}
	}

	if err := (source.Filter{Exclude: o.Exclude}).Validate(); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Target returns a display name of the fetched tree, e.g. "owner/repo".
func (o *FetchOptions) Target() string {
	if o.Source == SourceGitHub {
		return o.Owner + "/" + o.Repo
	}
	return o.Path
}

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.Fetch.ValidateForFetch(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLayout applies layout defaults and validates spacing and policy.
func (o *Options) ValidateForLayout() error {
	o.Layout = o.Layout.WithDefaults()
	if err := o.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "layout options")
	}
	if o.Policy == "" {
		o.Policy = visibility.DefaultPolicy
	}
	if _, err := visibility.ParsePolicy(string(o.Policy)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "collapse policy")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for layout computation.
func LayoutKeyOpts(opts layout.Options) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{SpacingX: opts.SpacingX, SpacingY: opts.SpacingY}
}

// treeKeyParts returns the tree cache key components.
func (o *FetchOptions) treeKeyParts() (src, target, ref string, opts cache.TreeKeyOpts) {
	return o.Source, o.Target(), o.Ref, cache.TreeKeyOpts{Exclude: o.Exclude}
}

func (o *FetchOptions) String() string {
	if o.Ref != "" {
		return fmt.Sprintf("%s:%s@%s", o.Source, o.Target(), o.Ref)
	}
	return fmt.Sprintf("%s:%s", o.Source, o.Target())
}
