// Package validator implements structural validation of AST documents before
// they are evaluated.
package validator

import (
	"fmt"

	"github.com/thomasrohde/walker/pkg/ast"
	"github.com/thomasrohde/walker/pkg/diagnostics"
)

// Validation is purely structural. Unbound names, constant assignment and
// bad assignment targets are left to the evaluator, which reports them as
// runtime errors at the point they happen.

type validator struct {
	diags []diagnostics.Diagnostic
}

// Validate checks a node tree and returns diagnostics, all with code E_AST.
func Validate(node ast.Stmt) []diagnostics.Diagnostic {
	v := &validator{}
	if node == nil {
		v.addDiag("document has no root node", nil)
		return v.diags
	}
	v.validateStmt(node, node.NodeSpan())
	return v.diags
}

func (v *validator) addDiag(msg string, span *ast.Span) {
	v.diags = append(v.diags, diagnostics.MakeDiag(diagnostics.EAst, msg, span, ""))
}

func (v *validator) addDiagf(span ast.Span, format string, args ...any) {
	s := span
	v.addDiag(fmt.Sprintf(format, args...), &s)
}

func (v *validator) validateStmts(stmts []ast.Stmt, parent ast.Span, where string) {
	for i, stmt := range stmts {
		if stmt == nil {
			v.addDiagf(parent, "%s statement %d is missing", where, i+1)
			continue
		}
		v.validateStmt(stmt, parent)
	}
}

func (v *validator) validateStmt(stmt ast.Stmt, parent ast.Span) {
	switch s := stmt.(type) {
	case *ast.Program:
		v.validateStmts(s.Body, s.Span, "program")

	case *ast.VariablesDeclaration:
		if len(s.Declarations) == 0 {
			v.addDiagf(s.Span, "declaration has no variables")
		}
		seen := make(map[string]bool)
		for _, d := range s.Declarations {
			if d == nil {
				v.addDiagf(s.Span, "declaration has a missing variable")
				continue
			}
			if d.Name == "" {
				v.addDiagf(d.Span, "variable name must not be empty")
			} else if seen[d.Name] {
				v.addDiagf(d.Span, "variable '%s' is declared twice in one declaration", d.Name)
			}
			seen[d.Name] = true
			if d.Value != nil {
				v.validateExpr(d.Value, d.Span)
			}
		}

	case *ast.FunctionDeclaration:
		if s.Name == "" {
			v.addDiagf(s.Span, "function name must not be empty")
		}
		params := make(map[string]bool)
		for _, p := range s.Parameters {
			if p == "" {
				v.addDiagf(s.Span, "function '%s' has an empty parameter name", s.Name)
			} else if params[p] {
				v.addDiagf(s.Span, "duplicate parameter '%s' in function '%s'", p, s.Name)
			}
			params[p] = true
		}
		v.validateStmts(s.Body, s.Span, fmt.Sprintf("function '%s'", s.Name))

	case ast.Expr:
		v.validateExpr(s, parent)
	}
}

func (v *validator) validateExpr(expr ast.Expr, parent ast.Span) {
	if expr == nil {
		v.addDiagf(parent, "missing expression")
		return
	}

	switch e := expr.(type) {
	case *ast.Identifier:
		if e.Symbol == "" {
			v.addDiagf(e.Span, "identifier must not be empty")
		}

	case *ast.AssignmentExpression:
		v.validateExpr(e.Assignee, e.Span)
		v.validateExpr(e.Value, e.Span)

	case *ast.BinaryExpression:
		if e.Operator == "" {
			v.addDiagf(e.Span, "binary expression has no operator")
		}
		v.validateExpr(e.Left, e.Span)
		v.validateExpr(e.Right, e.Span)

	case *ast.CallExpression:
		v.validateExpr(e.Callee, e.Span)
		for _, a := range e.Arguments {
			v.validateExpr(a, e.Span)
		}

	case *ast.ObjectLiteral:
		for _, p := range e.Properties {
			if p == nil {
				v.addDiagf(e.Span, "object has a missing property")
				continue
			}
			if p.Key == "" {
				v.addDiagf(p.Span, "property key must not be empty")
			}
			if !p.Shorthand() {
				v.validateExpr(p.Value, p.Span)
			}
		}
	}
}
