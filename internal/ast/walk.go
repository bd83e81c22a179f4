package ast

import "fmt"

// Visitor's Visit is called for each node in depth-first pre-order. If the
// returned visitor w is not nil, Walk visits each child of node with w,
// followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses the tree rooted at node. Children are visited in the order
// of their fields: a function's body comes before its decorators, a dict's
// keys before its values.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	WalkChildren(v, node)
	v.Visit(nil)
}

// WalkChildren walks every direct child of node with v.
func WalkChildren(v Visitor, node Node) {
	switch n := node.(type) {
	case *Module:
		walkStmts(v, n.Body)

	// statements
	case *FunctionDef:
		walkArguments(v, n.Args)
		walkStmts(v, n.Body)
		walkExprs(v, n.Decorators)
		walkExpr(v, n.Returns)
		walkTypeParams(v, n.TypeParams)
	case *ClassDef:
		walkExprs(v, n.Bases)
		for _, kw := range n.Keywords {
			Walk(v, kw)
		}
		walkStmts(v, n.Body)
		walkExprs(v, n.Decorators)
		walkTypeParams(v, n.TypeParams)
	case *Return:
		walkExpr(v, n.Value)
	case *Delete:
		walkExprs(v, n.Targets)
	case *Assign:
		walkExprs(v, n.Targets)
		walkExpr(v, n.Value)
	case *TypeAlias:
		Walk(v, n.Name)
		walkTypeParams(v, n.TypeParams)
		walkExpr(v, n.Value)
	case *AugAssign:
		walkExpr(v, n.Target)
		walkExpr(v, n.Value)
	case *AnnAssign:
		walkExpr(v, n.Target)
		walkExpr(v, n.Annotation)
		walkExpr(v, n.Value)
	case *For:
		walkExpr(v, n.Target)
		walkExpr(v, n.Iter)
		walkStmts(v, n.Body)
		walkStmts(v, n.Orelse)
	case *While:
		walkExpr(v, n.Test)
		walkStmts(v, n.Body)
		walkStmts(v, n.Orelse)
	case *If:
		walkExpr(v, n.Test)
		walkStmts(v, n.Body)
		walkStmts(v, n.Orelse)
	case *With:
		for _, it := range n.Items {
			Walk(v, it)
		}
		walkStmts(v, n.Body)
	case *Match:
		walkExpr(v, n.Subject)
		for _, c := range n.Cases {
			Walk(v, c)
		}
	case *Raise:
		walkExpr(v, n.Exc)
		walkExpr(v, n.Cause)
	case *Try:
		walkStmts(v, n.Body)
		for _, h := range n.Handlers {
			Walk(v, h)
		}
		walkStmts(v, n.Orelse)
		walkStmts(v, n.Finalbody)
	case *Assert:
		walkExpr(v, n.Test)
		walkExpr(v, n.Msg)
	case *Import:
		for _, a := range n.Names {
			Walk(v, a)
		}
	case *ImportFrom:
		for _, a := range n.Names {
			Walk(v, a)
		}
	case *ExprStmt:
		walkExpr(v, n.Value)
	case *Global, *Nonlocal, *Pass, *Break, *Continue:

	// expressions
	case *BoolOp:
		walkExprs(v, n.Values)
	case *NamedExpr:
		walkExpr(v, n.Target)
		walkExpr(v, n.Value)
	case *BinOp:
		walkExpr(v, n.Left)
		walkExpr(v, n.Right)
	case *UnaryOp:
		walkExpr(v, n.Operand)
	case *Lambda:
		walkArguments(v, n.Args)
		walkExpr(v, n.Body)
	case *IfExp:
		walkExpr(v, n.Test)
		walkExpr(v, n.Body)
		walkExpr(v, n.Orelse)
	case *Dict:
		walkExprs(v, n.Keys)
		walkExprs(v, n.Values)
	case *Set:
		walkExprs(v, n.Elts)
	case *ListComp:
		walkExpr(v, n.Elt)
		walkComps(v, n.Generators)
	case *SetComp:
		walkExpr(v, n.Elt)
		walkComps(v, n.Generators)
	case *DictComp:
		walkExpr(v, n.Key)
		walkExpr(v, n.Value)
		walkComps(v, n.Generators)
	case *GeneratorExp:
		walkExpr(v, n.Elt)
		walkComps(v, n.Generators)
	case *Await:
		walkExpr(v, n.Value)
	case *Yield:
		walkExpr(v, n.Value)
	case *YieldFrom:
		walkExpr(v, n.Value)
	case *Compare:
		walkExpr(v, n.Left)
		walkExprs(v, n.Comparators)
	case *Call:
		walkExpr(v, n.Func)
		walkExprs(v, n.Args)
		for _, kw := range n.Keywords {
			Walk(v, kw)
		}
	case *FormattedValue:
		walkExpr(v, n.Value)
		if n.FormatSpec != nil {
			Walk(v, n.FormatSpec)
		}
	case *JoinedStr:
		walkExprs(v, n.Values)
	case *Attribute:
		walkExpr(v, n.Value)
	case *Subscript:
		walkExpr(v, n.Value)
		walkExpr(v, n.Slice)
	case *Starred:
		walkExpr(v, n.Value)
	case *List:
		walkExprs(v, n.Elts)
	case *Tuple:
		walkExprs(v, n.Elts)
	case *Slice:
		walkExpr(v, n.Lower)
		walkExpr(v, n.Upper)
		walkExpr(v, n.Step)
	case *Constant, *Name:

	// helpers
	case *Arguments:
		walkArgs(v, n.PosOnly)
		walkArgs(v, n.Args)
		if n.Vararg != nil {
			Walk(v, n.Vararg)
		}
		walkArgs(v, n.KwOnly)
		walkExprs(v, n.KwDefaults)
		if n.Kwarg != nil {
			Walk(v, n.Kwarg)
		}
		walkExprs(v, n.Defaults)
	case *Arg:
		walkExpr(v, n.Annotation)
	case *Keyword:
		walkExpr(v, n.Value)
	case *Alias:
	case *Comprehension:
		walkExpr(v, n.Target)
		walkExpr(v, n.Iter)
		walkExprs(v, n.Ifs)
	case *ExceptHandler:
		walkExpr(v, n.Type)
		walkStmts(v, n.Body)
	case *WithItem:
		walkExpr(v, n.ContextExpr)
		walkExpr(v, n.OptionalVars)
	case *MatchCase:
		walkPattern(v, n.Pattern)
		walkExpr(v, n.Guard)
		walkStmts(v, n.Body)

	// patterns
	case *MatchValue:
		walkExpr(v, n.Value)
	case *MatchSingleton:
	case *MatchSequence:
		walkPatterns(v, n.Patterns)
	case *MatchMapping:
		walkExprs(v, n.Keys)
		walkPatterns(v, n.Patterns)
	case *MatchClass:
		walkExpr(v, n.Cls)
		walkPatterns(v, n.Patterns)
		walkPatterns(v, n.KwdPatterns)
	case *MatchStar:
	case *MatchAs:
		walkPattern(v, n.Pattern)
	case *MatchOr:
		walkPatterns(v, n.Patterns)

	// type parameters
	case *TypeVar:
		walkExpr(v, n.Bound)
	case *ParamSpec, *TypeVarTuple:

	default:
		panic(fmt.Sprintf("ast.Walk: unexpected node type %T", n))
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses the tree in depth-first order: it starts by calling
// f(node); if f returns true, Inspect invokes f recursively for each of the
// children of node, followed by a call of f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

func walkExpr(v Visitor, e Expr) {
	if e != nil {
		Walk(v, e)
	}
}

func walkExprs(v Visitor, list []Expr) {
	for _, e := range list {
		walkExpr(v, e)
	}
}

func walkStmts(v Visitor, list []Stmt) {
	for _, s := range list {
		Walk(v, s)
	}
}

func walkArgs(v Visitor, list []*Arg) {
	for _, a := range list {
		Walk(v, a)
	}
}

func walkComps(v Visitor, list []*Comprehension) {
	for _, c := range list {
		Walk(v, c)
	}
}

func walkPattern(v Visitor, p Pattern) {
	if p != nil {
		Walk(v, p)
	}
}

func walkPatterns(v Visitor, list []Pattern) {
	for _, p := range list {
		walkPattern(v, p)
	}
}

func walkTypeParams(v Visitor, list []TypeParam) {
	for _, tp := range list {
		Walk(v, tp)
	}
}

func walkArguments(v Visitor, a *Arguments) {
	if a != nil {
		Walk(v, a)
	}
}
