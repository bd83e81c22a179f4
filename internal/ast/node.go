package ast

import "pyrefs/internal/source"

// Node is any syntax tree node.
type Node interface {
	node()
}

// Located is implemented by nodes that carry a source position: statements,
// expressions, patterns, arguments, keywords, aliases, except handlers and
// type parameters. Module, Arguments, Comprehension, WithItem and MatchCase
// have none.
type Located interface {
	Node
	Location() *Loc
}

// Loc is the extent of a node. End is meaningful only when HasEnd is set.
type Loc struct {
	Pos    source.Pos
	End    source.Pos
	HasEnd bool
}

// Location returns l itself; embedding Loc makes a node Located.
func (l *Loc) Location() *Loc { return l }

// Range returns the node extent and whether the end is known.
func (l *Loc) Range() (source.Range, bool) {
	return source.Range{Start: l.Pos, End: l.End}, l.HasEnd
}

// Stmt is a statement node.
type Stmt interface {
	Located
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Located
	exprNode()
}

// Pattern is a match-statement pattern.
type Pattern interface {
	Located
	patternNode()
}

// TypeParam is a PEP 695 type parameter.
type TypeParam interface {
	Located
	typeParamNode()
}

// Module is the root of a parsed file.
type Module struct {
	Body []Stmt
}

func (*Module) node() {}
