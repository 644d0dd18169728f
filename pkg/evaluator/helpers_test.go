package evaluator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/thomasrohde/walker/pkg/ast"
	"github.com/thomasrohde/walker/pkg/evaluator"
)

// --- AST builders ---

func num(v float64) *ast.NumericLiteral { return &ast.NumericLiteral{Value: v} }

func str(s string) *ast.StringLiteral { return &ast.StringLiteral{Value: s} }

func ident(name string) *ast.Identifier { return &ast.Identifier{Symbol: name} }

func bin(left ast.Expr, op ast.BinaryOp, right ast.Expr) *ast.BinaryExpression {
	return &ast.BinaryExpression{Left: left, Operator: op, Right: right}
}

func assign(target, value ast.Expr) *ast.AssignmentExpression {
	return &ast.AssignmentExpression{Assignee: target, Value: value}
}

func call(callee ast.Expr, args ...ast.Expr) *ast.CallExpression {
	return &ast.CallExpression{Callee: callee, Arguments: args}
}

// prop builds an object property; a nil value makes it shorthand.
func prop(key string, value ast.Expr) *ast.Property {
	return &ast.Property{Key: key, Value: value}
}

func obj(props ...*ast.Property) *ast.ObjectLiteral {
	return &ast.ObjectLiteral{Properties: props}
}

func decl(constant bool, pairs ...any) *ast.VariablesDeclaration {
	d := &ast.VariablesDeclaration{Constant: constant}
	for i := 0; i < len(pairs); i += 2 {
		var value ast.Expr
		if v, ok := pairs[i+1].(ast.Expr); ok {
			value = v
		}
		d.Declarations = append(d.Declarations, &ast.VariableDeclarator{
			Name:  pairs[i].(string),
			Value: value,
		})
	}
	return d
}

func let(name string, value ast.Expr) *ast.VariablesDeclaration {
	return decl(false, name, value)
}

func constDecl(name string, value ast.Expr) *ast.VariablesDeclaration {
	return decl(true, name, value)
}

func fn(name string, params []string, body ...ast.Stmt) *ast.FunctionDeclaration {
	return &ast.FunctionDeclaration{Name: name, Parameters: params, Body: body}
}

func prog(body ...ast.Stmt) *ast.Program {
	return &ast.Program{Body: body}
}

// --- helpers ---

// eval evaluates a program in a fresh root environment.
func eval(t *testing.T, body ...ast.Stmt) (evaluator.Value, error) {
	t.Helper()
	return evaluator.Evaluate(prog(body...), evaluator.NewEnv(nil))
}

// mustEval is like eval but fails the test on any error.
func mustEval(t *testing.T, body ...ast.Stmt) evaluator.Value {
	t.Helper()
	val, err := eval(t, body...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return val
}

// execWith runs a program through Execute with custom options.
func execWith(t *testing.T, opts evaluator.ExecOptions, env *evaluator.Env, body ...ast.Stmt) (*evaluator.ExecResult, error) {
	t.Helper()
	return evaluator.Execute(context.Background(), prog(body...), env, opts)
}

// expectNumber asserts the value is a Number with the expected float64 value.
func expectNumber(t *testing.T, val evaluator.Value, expected float64) {
	t.Helper()
	n, ok := val.(evaluator.Number)
	if !ok {
		t.Fatalf("expected Number, got %T (%v)", val, val)
	}
	if n.Value != expected {
		t.Errorf("got %v, want %v", n.Value, expected)
	}
}

// expectString asserts the value is a String with the expected value.
func expectString(t *testing.T, val evaluator.Value, expected string) {
	t.Helper()
	s, ok := val.(evaluator.String)
	if !ok {
		t.Fatalf("expected String, got %T (%v)", val, val)
	}
	if s.Value != expected {
		t.Errorf("got %q, want %q", s.Value, expected)
	}
}

// expectNull asserts the value is Null.
func expectNull(t *testing.T, val evaluator.Value) {
	t.Helper()
	if _, ok := val.(evaluator.Null); !ok {
		t.Fatalf("expected Null, got %T (%v)", val, val)
	}
}

// expectObject asserts the value is an *Object and returns it.
func expectObject(t *testing.T, val evaluator.Value) *evaluator.Object {
	t.Helper()
	o, ok := val.(*evaluator.Object)
	if !ok {
		t.Fatalf("expected *Object, got %T (%v)", val, val)
	}
	return o
}

// expectRuntimeError asserts the error is a *RuntimeError with the expected code.
func expectRuntimeError(t *testing.T, err error, expectedCode string) *evaluator.RuntimeError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected runtime error with code %s, got nil", expectedCode)
	}
	var rtErr *evaluator.RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected *RuntimeError, got %T: %v", err, err)
	}
	if rtErr.Code != expectedCode {
		t.Errorf("error code = %q, want %q (message: %s)", rtErr.Code, expectedCode, rtErr.Message)
	}
	return rtErr
}

// counter returns a native that counts its calls and returns its first
// argument (or Null).
func counter(calls *int) *evaluator.NativeFunction {
	return evaluator.NewNative("tick", func(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
		*calls++
		if len(args) > 0 {
			return args[0], nil
		}
		return evaluator.NewNull(), nil
	})
}
