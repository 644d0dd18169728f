package formatter_test

import (
	"testing"

	"github.com/thomasrohde/walker/pkg/ast"
	"github.com/thomasrohde/walker/pkg/evaluator"
	"github.com/thomasrohde/walker/pkg/formatter"
)

func num(v float64) *ast.NumericLiteral { return &ast.NumericLiteral{Value: v} }

func ident(name string) *ast.Identifier { return &ast.Identifier{Symbol: name} }

func bin(l ast.Expr, op ast.BinaryOp, r ast.Expr) *ast.BinaryExpression {
	return &ast.BinaryExpression{Left: l, Operator: op, Right: r}
}

func TestFormat_Program(t *testing.T) {
	program := &ast.Program{Body: []ast.Stmt{
		&ast.VariablesDeclaration{Declarations: []*ast.VariableDeclarator{
			{Name: "x", Value: num(1)},
			{Name: "y"},
		}},
		&ast.VariablesDeclaration{Constant: true, Declarations: []*ast.VariableDeclarator{
			{Name: "greeting", Value: &ast.StringLiteral{Value: "hi \"there\""}},
		}},
		&ast.FunctionDeclaration{Name: "add", Parameters: []string{"a", "b"}, Body: []ast.Stmt{
			bin(ident("a"), ast.OpAdd, ident("b")),
		}},
		&ast.FunctionDeclaration{Name: "noop"},
		&ast.CallExpression{Callee: ident("print"), Arguments: []ast.Expr{
			&ast.CallExpression{Callee: ident("add"), Arguments: []ast.Expr{num(1.5), num(2)}},
		}},
		&ast.AssignmentExpression{Assignee: ident("y"), Value: &ast.ObjectLiteral{Properties: []*ast.Property{
			{Key: "x"},
			{Key: "total", Value: num(3)},
			{Key: "two words", Value: num(4)},
		}}},
	}}

	want := `let x = 1, y
const greeting = "hi \"there\""
fn add(a, b) {
  a + b
}
fn noop() {}
print(add(1.5, 2))
y = { x, total: 3, "two words": 4 }
`
	if got := formatter.Format(program); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormat_Precedence(t *testing.T) {
	tests := []struct {
		expr ast.Expr
		want string
	}{
		{bin(bin(num(1), ast.OpAdd, num(2)), ast.OpMul, num(3)), "(1 + 2) * 3"},
		{bin(num(1), ast.OpAdd, bin(num(2), ast.OpMul, num(3))), "1 + 2 * 3"},
		{bin(bin(num(1), ast.OpSub, num(2)), ast.OpSub, num(3)), "1 - 2 - 3"},
		{bin(num(1), ast.OpSub, bin(num(2), ast.OpSub, num(3))), "1 - (2 - 3)"},
		{bin(ident("a"), ast.OpAdd, &ast.AssignmentExpression{Assignee: ident("b"), Value: num(1)}), "a + (b = 1)"},
	}
	for _, tt := range tests {
		if got := formatter.Format(tt.expr); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestFormat_NestedFunctionIndents(t *testing.T) {
	outer := &ast.FunctionDeclaration{Name: "outer", Body: []ast.Stmt{
		&ast.FunctionDeclaration{Name: "inner", Body: []ast.Stmt{num(1)}},
		ident("inner"),
	}}
	want := "fn outer() {\n  fn inner() {\n    1\n  }\n  inner\n}"
	if got := formatter.Format(outer); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormat_LongObjectBreaks(t *testing.T) {
	var props []*ast.Property
	for _, k := range []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"} {
		props = append(props, &ast.Property{Key: k, Value: &ast.StringLiteral{Value: k}})
	}
	got := formatter.Format(&ast.ObjectLiteral{Properties: props})
	if got[:2] != "{\n" || got[len(got)-1] != '}' {
		t.Errorf("expected multi-line object, got:\n%s", got)
	}
}

func TestFormatValue(t *testing.T) {
	inner := evaluator.NewObject(evaluator.KeyValue{Key: "s", Value: evaluator.NewString("q")})
	tests := []struct {
		v    evaluator.Value
		want string
	}{
		{evaluator.NewNull(), "null"},
		{evaluator.NewNumber(7), "7"},
		{evaluator.NewString("x"), `"x"`},
		{evaluator.NewObject(), "{}"},
		{evaluator.NewObject(
			evaluator.KeyValue{Key: "x", Value: evaluator.NewNumber(7)},
			evaluator.KeyValue{Key: "in", Value: inner},
			evaluator.KeyValue{Key: "0", Value: evaluator.NewNull()},
		), `{ x: 7, in: { s: "q" }, "0": null }`},
		{&evaluator.Function{Name: "f"}, "[function f]"},
		{evaluator.NewNative("len", nil), "[native len]"},
	}
	for _, tt := range tests {
		if got := formatter.FormatValue(tt.v); got != tt.want {
			t.Errorf("FormatValue = %q, want %q", got, tt.want)
		}
	}
}

func TestFormatValue_Cycle(t *testing.T) {
	o := evaluator.NewObject()
	o.Set("self", o)
	if got := formatter.FormatValue(o); got != "{ self: [Circular] }" {
		t.Errorf("got %q", got)
	}
}
