// Package visibility implements progressive disclosure for repository trees.
//
// A [Controller] owns the set of collapsed directories of one graph view.
// The set starts from a [Policy] and changes only through explicit calls such
// as [Controller.Toggle]. Everything else is derived:
//
//   - [ComputeVisible] walks breadth-first from the root's direct children and
//     stops descending at collapsed directories.
//   - [EdgeVisible] keeps an edge iff both endpoints are visible.
//
// Positions are never touched here; collapsing hides nodes, it does not move
// them.
//
// # Policies
//
//	nested  collapse every directory with children below the top level (default)
//	none    start fully expanded
//	all     collapse every directory with children, top level included
//
// # Concurrency
//
// A Controller is not safe for concurrent use. Callers serving several
// goroutines (see package view) must serialize access.
package visibility
