package lox

import (
	"fmt"
	"strings"
)

// AstPrinter renders an expression tree as a fully-parenthesized
// Lisp-like string, used by the CLI's verbose diagnostics to show what the
// parser produced without needing to run the program.
type AstPrinter struct{}

// Print renders expr.
func (p *AstPrinter) Print(expr Expr) string {
	s, _ := expr.Accept(p)
	return fmt.Sprintf("%v", s)
}

func (p *AstPrinter) parenthesize(name string, exprs ...Expr) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(name)
	for _, e := range exprs {
		b.WriteByte(' ')
		s, _ := e.Accept(p)
		fmt.Fprintf(&b, "%v", s)
	}
	b.WriteByte(')')
	return b.String()
}

func (p *AstPrinter) VisitAssignExpr(expr *AssignExpr) (interface{}, error) {
	return p.parenthesize("= "+expr.Name.Lexeme, expr.Val), nil
}

func (p *AstPrinter) VisitBinaryExpr(expr *BinaryExpr) (interface{}, error) {
	return p.parenthesize(expr.Op.Lexeme, expr.Lhs, expr.Rhs), nil
}

func (p *AstPrinter) VisitCallExpr(expr *CallExpr) (interface{}, error) {
	return p.parenthesize("call", append([]Expr{expr.Callee}, expr.Args...)...), nil
}

func (p *AstPrinter) VisitGetExpr(expr *GetExpr) (interface{}, error) {
	return p.parenthesize("get "+expr.Name.Lexeme, expr.Obj), nil
}

func (p *AstPrinter) VisitGroupExpr(expr *GroupExpr) (interface{}, error) {
	return p.parenthesize("group", expr.Expr), nil
}

func (p *AstPrinter) VisitLiteralExpr(expr *LiteralExpr) (interface{}, error) {
	return stringify(expr.Val), nil
}

func (p *AstPrinter) VisitLogicalExpr(expr *LogicalExpr) (interface{}, error) {
	return p.parenthesize(expr.Op.Lexeme, expr.Lhs, expr.Rhs), nil
}

func (p *AstPrinter) VisitSetExpr(expr *SetExpr) (interface{}, error) {
	return p.parenthesize("set "+expr.Name.Lexeme, expr.Obj, expr.Val), nil
}

func (p *AstPrinter) VisitSuperExpr(expr *SuperExpr) (interface{}, error) {
	return fmt.Sprintf("(super %s)", expr.Method.Lexeme), nil
}

func (p *AstPrinter) VisitThisExpr(expr *ThisExpr) (interface{}, error) {
	return "this", nil
}

func (p *AstPrinter) VisitUnaryExpr(expr *UnaryExpr) (interface{}, error) {
	return p.parenthesize(expr.Op.Lexeme, expr.Expr), nil
}

func (p *AstPrinter) VisitVarExpr(expr *VarExpr) (interface{}, error) {
	return expr.Name.Lexeme, nil
}
