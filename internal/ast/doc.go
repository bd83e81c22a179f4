// Package ast declares the Python syntax tree produced by the parser.
//
// Node types mirror Python's own ast module one struct per construct. Nodes
// that carry a location embed Loc; its end may be missing (HasEnd false)
// when the tree was parsed without end positions or the node overlaps a
// line rewritten during error recovery.
package ast
