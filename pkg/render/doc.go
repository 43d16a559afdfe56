// Package render holds the output surfaces of the layout engine.
//
// # Subpackages
//
//   - [flow]: canvas records (nodes, edges, events) for interactive views
//   - [nodelink]: Graphviz DOT and SVG of the visible part of a scene
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
package render
