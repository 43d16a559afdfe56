// Package hierarchy derives the tree structure of a repository payload.
//
// Given the flat node list and parent→child edges of a [graph.Graph], the
// package builds an adjacency [Index] (children in edge-insertion order) and a
// [DepthMap] computed by breadth-first search from the synthetic root:
//
//	root              depth 0 (never placed)
//	├── src           depth 1
//	│   └── main.go   depth 2
//	└── README.md     depth 1
//
// # Malformed Input
//
// Nothing in this package returns an error. Edges whose target is unknown, or
// whose source is neither the root nor a known node, are left out of the
// index. A node reached twice keeps the depth of its first visit, so cycles
// and multi-parent nodes terminate. Any node the search never reaches is
// assigned depth 1 and thus shows up as a top-level entry.
//
// [Diagnose] reports these conditions for humans. Its output is informational
// only and never changes what [Analyze] computes.
//
// # Complexity
//
// [Analyze], [ComputeDepths] and [BuildIndex] run in O(N+E).
package hierarchy
