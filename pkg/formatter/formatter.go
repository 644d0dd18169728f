// Package formatter prints AST nodes back to readable source and renders
// runtime values for display.
package formatter

import (
	"strconv"
	"strings"

	"github.com/thomasrohde/walker/pkg/ast"
	"github.com/thomasrohde/walker/pkg/evaluator"
)

const indent = "  "

// maxInline is the widest object literal printed on one line.
const maxInline = 72

// Precedence table for binary operators (higher = tighter binding).
// Operators not listed bind like remainder.
var precedence = map[ast.BinaryOp]int{
	ast.OpAdd: 1, ast.OpSub: 1,
	ast.OpMul: 2, ast.OpDiv: 2, ast.OpMod: 2,
}

func opPrecedence(op ast.BinaryOp) int {
	if p, ok := precedence[op]; ok {
		return p
	}
	return 2
}

func needsParens(child ast.Expr, parentOp ast.BinaryOp, isRight bool) bool {
	switch c := child.(type) {
	case *ast.AssignmentExpression:
		return true
	case *ast.BinaryExpression:
		childPrec := opPrecedence(c.Operator)
		parentPrec := opPrecedence(parentOp)
		if childPrec < parentPrec {
			return true
		}
		// Left-associative: same precedence on the right needs parens
		return childPrec == parentPrec && isRight
	}
	return false
}

// Format pretty-prints a node as source. Programs print one statement per
// line with a trailing newline.
func Format(node ast.Stmt) string {
	if program, ok := node.(*ast.Program); ok {
		if len(program.Body) == 0 {
			return ""
		}
		lines := make([]string, len(program.Body))
		for i, s := range program.Body {
			lines[i] = formatStmt(s, 0)
		}
		return strings.Join(lines, "\n") + "\n"
	}
	return formatStmt(node, 0)
}

func formatStmt(s ast.Stmt, depth int) string {
	prefix := strings.Repeat(indent, depth)
	switch stmt := s.(type) {
	case *ast.VariablesDeclaration:
		keyword := "let "
		if stmt.Constant {
			keyword = "const "
		}
		parts := make([]string, len(stmt.Declarations))
		for i, d := range stmt.Declarations {
			parts[i] = d.Name
			if d.Value != nil {
				parts[i] += " = " + formatExpr(d.Value, depth)
			}
		}
		return prefix + keyword + strings.Join(parts, ", ")

	case *ast.FunctionDeclaration:
		head := prefix + "fn " + stmt.Name + "(" + strings.Join(stmt.Parameters, ", ") + ")"
		if len(stmt.Body) == 0 {
			return head + " {}"
		}
		return head + " {\n" + formatBlock(stmt.Body, depth) + "\n" + prefix + "}"

	case *ast.Program:
		return formatBlock(stmt.Body, depth-1)

	case ast.Expr:
		return prefix + formatExpr(stmt, depth)
	}
	return prefix + "<?>"
}

func formatBlock(stmts []ast.Stmt, depth int) string {
	lines := make([]string, len(stmts))
	for i, s := range stmts {
		lines[i] = formatStmt(s, depth+1)
	}
	return strings.Join(lines, "\n")
}

func formatExpr(e ast.Expr, depth int) string {
	switch expr := e.(type) {
	case *ast.NumericLiteral:
		return evaluator.FormatNumber(expr.Value)

	case *ast.StringLiteral:
		return strconv.Quote(expr.Value)

	case *ast.Identifier:
		return expr.Symbol

	case *ast.AssignmentExpression:
		return formatExpr(expr.Assignee, depth) + " = " + formatExpr(expr.Value, depth)

	case *ast.CallExpression:
		callee := formatExpr(expr.Callee, depth)
		switch expr.Callee.(type) {
		case *ast.BinaryExpression, *ast.AssignmentExpression:
			callee = "(" + callee + ")"
		}
		args := make([]string, len(expr.Arguments))
		for i, a := range expr.Arguments {
			args[i] = formatExpr(a, depth)
		}
		return callee + "(" + strings.Join(args, ", ") + ")"

	case *ast.ObjectLiteral:
		return formatObject(expr, depth)

	case *ast.BinaryExpression:
		leftStr := formatExpr(expr.Left, depth)
		rightStr := formatExpr(expr.Right, depth)
		if needsParens(expr.Left, expr.Operator, false) {
			leftStr = "(" + leftStr + ")"
		}
		if needsParens(expr.Right, expr.Operator, true) {
			rightStr = "(" + rightStr + ")"
		}
		return leftStr + " " + string(expr.Operator) + " " + rightStr
	}
	return "<?>"
}

func formatProperty(p *ast.Property, depth int) string {
	if p.Shorthand() {
		return p.Key
	}
	return formatKey(p.Key) + ": " + formatExpr(p.Value, depth)
}

func formatObject(obj *ast.ObjectLiteral, depth int) string {
	if len(obj.Properties) == 0 {
		return "{}"
	}

	// Try inline first
	inlineParts := make([]string, len(obj.Properties))
	for i, p := range obj.Properties {
		inlineParts[i] = formatProperty(p, depth+1)
	}
	inline := "{ " + strings.Join(inlineParts, ", ") + " }"
	if len(inline) <= maxInline && !strings.Contains(inline, "\n") {
		return inline
	}

	// Multi-line
	inner := strings.Repeat(indent, depth+1)
	outer := strings.Repeat(indent, depth)
	parts := make([]string, len(obj.Properties))
	for i, p := range obj.Properties {
		parts[i] = inner + formatProperty(p, depth+1)
	}
	return "{\n" + strings.Join(parts, ",\n") + "\n" + outer + "}"
}

// formatKey prints identifier-like keys bare and quotes the rest.
func formatKey(key string) string {
	if isIdentifier(key) {
		return key
	}
	return strconv.Quote(key)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
