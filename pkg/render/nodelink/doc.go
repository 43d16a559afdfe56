// Package nodelink renders repository scenes as Graphviz node-link diagrams.
//
// # Overview
//
// The input is a [flow.Scene]: positions come from the layout engine and the
// hidden flags from the visibility controller. Only visible records are
// emitted, and every node is pinned at its computed position, so the rendered
// diagram matches what an interactive canvas would show.
//
// # Usage
//
//	dot := nodelink.ToDOT(scene, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # DOT Format
//
// Directories are drawn as folder shapes, files as rounded boxes. Collapsed
// directories are shaded and carry a "+" marker. Layout space grows downward
// while Graphviz's y axis grows upward, so y coordinates are negated.
// An empty scene renders a single label with the empty-state message.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering with the pinned-position engine (neato -n). PDF and PNG
// conversion requires librsvg (rsvg-convert).
package nodelink
