// Package pkg provides the libraries behind gitgraph, a layered graph view
// of repository file trees.
//
// # Overview
//
// gitgraph turns a flat list of repository entries plus parent→child edges
// into positioned canvas records. Directories below the first level start
// collapsed and are revealed on demand. The pkg directory is organized into
// these areas:
//
//  1. [graph] - The input payload (nodes, edges) and its JSON codec
//  2. [core] - Hierarchy analysis, layout and visibility
//  3. [render] - Canvas records, Graphviz DOT and SVG snapshots
//  4. [view] - Stateful interactive views and their registry
//  5. [source] - Tree sources (local directories, git refs, GitHub)
//  6. [pipeline] - Orchestration (fetch → layout → render) with caching
//  7. [server] - The HTTP and websocket API
//
// # Architecture
//
// The typical data flow:
//
//	Local directory / GitHub tree / JSON payload
//	         ↓
//	    [source] package (entries → graph)
//	         ↓
//	    [core/hierarchy] package (parents, depths, diagnostics)
//	         ↓
//	    [core/layout] package (one layer per depth)
//	         ↓
//	    [core/visibility] package (collapsed set → visible set)
//	         ↓
//	    [render/flow] package (node and edge records, events)
//
// # Quick Start
//
// Project a payload with the default collapse policy:
//
//	g, _ := graph.ReadGraphFile("graph.json")
//	v := view.New(view.Options{})
//	v.Load(ctx, g)
//	scene := v.Scene()
//
//	// Reveal a collapsed directory
//	up, _ := v.Dispatch(ctx, flow.Event{Kind: flow.EventToggle, NodeID: "src/pkg"})
//
// ## Infrastructure
//
// [cache] - Tree and layout caching with file, Redis and MongoDB backends.
//
// [config] - Layered configuration (defaults, file, .env, environment).
//
// [observability] - Hooks for fetch, layout and view events.
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
package pkg
