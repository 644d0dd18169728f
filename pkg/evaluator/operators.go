package evaluator

import (
	"math"

	"github.com/thomasrohde/walker/pkg/ast"
	"github.com/thomasrohde/walker/pkg/diagnostics"
)

func (ev *evaluator) evalBinary(n *ast.BinaryExpression, env *Env) (Value, error) {
	left, err := ev.eval(n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := ev.eval(n.Right, env)
	if err != nil {
		return nil, err
	}
	val, err := BinaryOp(n.Operator, left, right)
	if err != nil {
		return nil, withSpan(err, n.Span)
	}
	return val, nil
}

// BinaryOp applies op to two already evaluated operands. Operand kinds other
// than number and string produce Null.
func BinaryOp(op ast.BinaryOp, left, right Value) (Value, error) {
	switch l := left.(type) {
	case Number:
		switch r := right.(type) {
		case Number:
			return NewNumber(arith(op, l.Value, r.Value)), nil
		case String:
			return mixedOp(op, left, right)
		}

	case String:
		switch r := right.(type) {
		case String:
			if op != ast.OpAdd {
				return nil, newError(diagnostics.EInvalidOperator, nil,
					"operator '%s' is not supported between strings", op)
			}
			return NewString(l.Value + r.Value), nil
		case Number:
			return mixedOp(op, left, right)
		}
	}

	return NewNull(), nil
}

// arith treats every operator other than + - * / as remainder.
func arith(op ast.BinaryOp, l, r float64) float64 {
	switch op {
	case ast.OpAdd:
		return l + r
	case ast.OpSub:
		return l - r
	case ast.OpMul:
		return l * r
	case ast.OpDiv:
		return l / r
	}
	return math.Mod(l, r)
}

func mixedOp(op ast.BinaryOp, left, right Value) (Value, error) {
	if op == ast.OpAdd {
		return NewString(ToText(left) + ToText(right)), nil
	}

	l, r := ToNumber(left), ToNumber(right)
	if math.IsNaN(l) || math.IsNaN(r) {
		return nil, newError(diagnostics.ENumericConversion, nil,
			"cannot apply '%s' to %s and %s: operand is not a valid number",
			op, describeOperand(left), describeOperand(right))
	}

	switch op {
	case ast.OpSub, ast.OpMul, ast.OpDiv:
		return NewNumber(arith(op, l, r)), nil
	}
	return NewString(""), nil
}

func describeOperand(v Value) string {
	if s, ok := v.(String); ok {
		return "string \"" + s.Value + "\""
	}
	return TypeName(v) + " " + ToText(v)
}
