package ast_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/thomasrohde/walker/pkg/ast"
)

const jsonProgram = `{
  "kind": "Program",
  "body": [
    {"kind": "VariablesDeclaration", "constant": true, "declarations": [
      {"identifier": "x", "value": {"kind": "NumericLiteral", "value": 7}}
    ]},
    {"kind": "FunctionDeclaration", "name": "add", "parameters": ["a", "b"], "body": [
      {"kind": "BinaryExpression", "operator": "+",
       "left": {"kind": "Identifier", "symbol": "a"},
       "right": {"kind": "Identifier", "symbol": "b"}}
    ]},
    {"kind": "CallExpression",
     "caller": {"kind": "Identifier", "symbol": "add"},
     "arguments": [{"kind": "Identifier", "symbol": "x"}, {"kind": "StringLiteral", "value": "1"}]},
    {"kind": "ObjectLiteral", "properties": [{"key": "x"}, {"key": "y", "value": {"kind": "NumericLiteral", "value": 2}}]},
    {"kind": "AssignmentExpression",
     "assign": {"kind": "Identifier", "symbol": "x"},
     "value": {"kind": "NumericLiteral", "value": 1.5}}
  ]
}`

func TestDecodeProgramJSON(t *testing.T) {
	prog, err := ast.DecodeProgram([]byte(jsonProgram), "main.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Body) != 5 {
		t.Fatalf("got %d statements, want 5", len(prog.Body))
	}

	decl, ok := prog.Body[0].(*ast.VariablesDeclaration)
	if !ok {
		t.Fatalf("statement 0: got %T, want *ast.VariablesDeclaration", prog.Body[0])
	}
	if !decl.Constant || decl.Declarations[0].Name != "x" {
		t.Errorf("declaration: got constant=%v name=%q", decl.Constant, decl.Declarations[0].Name)
	}
	if lit, ok := decl.Declarations[0].Value.(*ast.NumericLiteral); !ok || lit.Value != 7 {
		t.Errorf("initializer: got %#v", decl.Declarations[0].Value)
	}

	fn, ok := prog.Body[1].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("statement 1: got %T", prog.Body[1])
	}
	if fn.Name != "add" || len(fn.Parameters) != 2 || len(fn.Body) != 1 {
		t.Errorf("function: got %+v", fn)
	}

	call, ok := prog.Body[2].(*ast.CallExpression)
	if !ok {
		t.Fatalf("statement 2: got %T", prog.Body[2])
	}
	if len(call.Arguments) != 2 {
		t.Errorf("call arguments: got %d, want 2", len(call.Arguments))
	}

	obj := prog.Body[3].(*ast.ObjectLiteral)
	if !obj.Properties[0].Shorthand() || obj.Properties[1].Shorthand() {
		t.Errorf("shorthand flags wrong: %+v", obj.Properties)
	}

	assign := prog.Body[4].(*ast.AssignmentExpression)
	if id, ok := assign.Assignee.(*ast.Identifier); !ok || id.Symbol != "x" {
		t.Errorf("assignee: got %#v", assign.Assignee)
	}
	if prog.Span.File != "main.json" {
		t.Errorf("span file: got %q", prog.Span.File)
	}
}

func TestDecodeProgramYAML(t *testing.T) {
	src := `
kind: Program
body:
  - kind: VariablesDeclaration
    declarations:
      - identifier: greeting
        value: {kind: StringLiteral, value: hi}
  - kind: BinaryExpression
    operator: "*"
    left: {kind: NumericLiteral, value: 6}
    right: {kind: NumericLiteral, value: 7}
    span: {startLine: 9, startCol: 3, endLine: 9, endCol: 8}
`
	prog, err := ast.DecodeProgram([]byte(src), "main.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Body) != 2 {
		t.Fatalf("got %d statements, want 2", len(prog.Body))
	}
	bin, ok := prog.Body[1].(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("got %T, want *ast.BinaryExpression", prog.Body[1])
	}
	if bin.Operator != ast.OpMul {
		t.Errorf("operator: got %q", bin.Operator)
	}
	if l := bin.Left.(*ast.NumericLiteral); l.Value != 6 {
		t.Errorf("left: got %v", l.Value)
	}
	if bin.Span.StartLine != 9 || bin.Span.StartCol != 3 || bin.Span.File != "main.yaml" {
		t.Errorf("span: got %+v", bin.Span)
	}
	decl := prog.Body[0].(*ast.VariablesDeclaration)
	if decl.Constant {
		t.Error("declaration should default to non-constant")
	}
}

func TestDecodeProgramWrapsSingleNode(t *testing.T) {
	prog, err := ast.DecodeProgram([]byte(`{"kind":"NumericLiteral","value":3}`), "one.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Body) != 1 {
		t.Fatalf("got %d statements, want 1", len(prog.Body))
	}
	if _, ok := prog.Body[0].(*ast.NumericLiteral); !ok {
		t.Errorf("got %T", prog.Body[0])
	}
}

func TestDecodeNodeFromMap(t *testing.T) {
	node, err := ast.DecodeNode(map[string]any{"kind": "Identifier", "symbol": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id, ok := node.(*ast.Identifier); !ok || id.Symbol != "x" {
		t.Errorf("got %#v", node)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"invalid json", `{`, "invalid JSON"},
		{"missing kind", `{"value": 1}`, "missing 'kind'"},
		{"unknown kind", `{"kind": "WhileStatement"}`, `unknown node kind "WhileStatement"`},
		{"bad literal", `{"kind": "NumericLiteral", "value": "1"}`, "numeric 'value'"},
		{"statement as expression", `{"kind": "BinaryExpression", "operator": "+",
			"left": {"kind": "Program", "body": []},
			"right": {"kind": "NumericLiteral", "value": 1}}`, "Program is not an expression"},
		{"missing operand", `{"kind": "BinaryExpression", "operator": "+",
			"left": {"kind": "NumericLiteral", "value": 1}}`, "right: missing expression"},
		{"non-string parameter", `{"kind": "FunctionDeclaration", "name": "f", "parameters": [1]}`, "parameters[0]"},
		{"empty document", `null`, "empty document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ast.Decode([]byte(tt.src), ast.FormatJSON)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var decErr *ast.DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("expected *ast.DecodeError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestDecodeErrorPath(t *testing.T) {
	src := `{"kind": "Program", "body": [
		{"kind": "NumericLiteral", "value": 1},
		{"kind": "CallExpression", "caller": {"kind": "Identifier", "symbol": "f"},
		 "arguments": [{"kind": "Mystery"}]}
	]}`
	_, err := ast.DecodeProgram([]byte(src), "p.json")
	var decErr *ast.DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected *ast.DecodeError, got %v", err)
	}
	if decErr.Path != "body[1].arguments[0]" {
		t.Errorf("path: got %q", decErr.Path)
	}
	if decErr.File != "p.json" {
		t.Errorf("file: got %q", decErr.File)
	}
}

func TestFormatFor(t *testing.T) {
	cases := map[string]ast.Format{
		"a.json":    ast.FormatJSON,
		"a.yaml":    ast.FormatYAML,
		"b.YML":     ast.FormatYAML,
		"noext":     ast.FormatJSON,
		"dir/c.ast": ast.FormatJSON,
	}
	for name, want := range cases {
		if got := ast.FormatFor(name); got != want {
			t.Errorf("FormatFor(%q) = %v, want %v", name, got, want)
		}
	}
}
