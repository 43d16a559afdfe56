// Package flow projects the layout engine's state into rendering records.
//
// The records mirror what a node-link canvas needs: per node an id, a
// position, a hidden flag and display data; per edge an id of the form
// "{source}-{target}-{index}" and a hidden flag. Edges leaving the synthetic
// root are not rendered, and the index counts rendered edges in input order.
//
// [Project] is the pure form: the scene is a function of the graph and the
// collapsed set. An [Adapter] caches the records of one graph and, after each
// change of the collapsed set, rewrites only the hidden and collapsed flags so
// records keep their identity across interactions.
//
// # Events
//
// The canvas reports two kinds of [Event]:
//
//	toggle  flips the collapsed state of a directory; never counts as a click
//	click   forwarded to the click handler (typically a detail resolver)
//
// # Empty Graphs
//
// A graph without positioned nodes produces a [Scene] with Empty set and
// [EmptyMessage] as its message. Surfaces show that message instead of an
// empty canvas.
package flow
