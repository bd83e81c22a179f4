package parser

import (
	"fmt"

	"pyrefs/internal/ast"
	"pyrefs/internal/diag"
)

// setContext marks e as an assignment or deletion target. verb is "assign
// to" or "delete" and shows up in the error for an invalid target.
func (p *Parser) setContext(e ast.Expr, ctx ast.ExprContext, verb string) {
	switch n := e.(type) {
	case *ast.Name:
		if n.ID == "__debug__" {
			p.errorAt(n.Pos, diag.SynInvalidTarget, fmt.Sprintf("cannot %s __debug__", verb))
		}
		n.Ctx = ctx
	case *ast.Attribute:
		n.Ctx = ctx
	case *ast.Subscript:
		n.Ctx = ctx
	case *ast.Starred:
		if ctx == ast.Del {
			p.errorAt(n.Pos, diag.SynInvalidTarget, "cannot delete starred")
		}
		n.Ctx = ctx
		p.setContext(n.Value, ctx, verb)
	case *ast.Tuple:
		n.Ctx = ctx
		for _, el := range n.Elts {
			p.setContext(el, ctx, verb)
		}
	case *ast.List:
		n.Ctx = ctx
		for _, el := range n.Elts {
			p.setContext(el, ctx, verb)
		}
	default:
		l := e.Location()
		p.errorAt(l.Pos, diag.SynInvalidTarget, fmt.Sprintf("cannot %s %s", verb, exprName(e)))
	}
}

// checkSingleTarget validates the target of an annotated ("annotated") or
// augmented ("augmented") assignment and marks it Store.
func (p *Parser) checkSingleTarget(e ast.Expr, kind string) {
	switch n := e.(type) {
	case *ast.Name, *ast.Attribute, *ast.Subscript:
		p.setContext(e, ast.Store, "assign to")
		return
	case *ast.Tuple:
		if kind == "annotated" {
			p.errorAt(n.Pos, diag.SynInvalidTarget, "only single target (not tuple) can be annotated")
		}
	case *ast.List:
		if kind == "annotated" {
			p.errorAt(n.Pos, diag.SynInvalidTarget, "only single target (not list) can be annotated")
		}
	}
	pos := e.Location().Pos
	if kind == "annotated" {
		p.errorAt(pos, diag.SynInvalidTarget, "illegal target for annotation")
	}
	p.errorAt(pos, diag.SynInvalidTarget,
		fmt.Sprintf("'%s' is an illegal expression for augmented assignment", exprName(e)))
}

// exprName names an expression kind the way error messages do.
func exprName(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.Attribute:
		return "attribute"
	case *ast.Subscript:
		return "subscript"
	case *ast.Starred:
		return "starred"
	case *ast.Name:
		return "name"
	case *ast.List:
		return "list"
	case *ast.Tuple:
		return "tuple"
	case *ast.Lambda:
		return "lambda"
	case *ast.Call:
		return "function call"
	case *ast.BoolOp, *ast.BinOp, *ast.UnaryOp:
		return "expression"
	case *ast.GeneratorExp:
		return "generator expression"
	case *ast.Yield, *ast.YieldFrom:
		return "yield expression"
	case *ast.Await:
		return "await expression"
	case *ast.ListComp:
		return "list comprehension"
	case *ast.SetComp:
		return "set comprehension"
	case *ast.DictComp:
		return "dict comprehension"
	case *ast.Dict:
		return "dict literal"
	case *ast.Set:
		return "set display"
	case *ast.JoinedStr, *ast.FormattedValue:
		return "f-string expression"
	case *ast.Constant:
		switch n.Kind {
		case ast.ConstNone:
			return "None"
		case ast.ConstBool:
			if n.Bool {
				return "True"
			}
			return "False"
		case ast.ConstEllipsis:
			return "ellipsis"
		}
		return "literal"
	case *ast.Compare:
		return "comparison"
	case *ast.IfExp:
		return "conditional expression"
	case *ast.NamedExpr:
		return "named expression"
	}
	return "expression"
}
