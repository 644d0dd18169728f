package ast

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the document encoding of an AST file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the document format from a file name. Anything that is not
// .yaml or .yml is treated as JSON.
func FormatFor(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// DecodeError reports a malformed AST document.
type DecodeError struct {
	File    string
	Path    string
	Message string
}

func (e *DecodeError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "<root>"
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, loc, e.Message)
	}
	return fmt.Sprintf("%s: %s", loc, e.Message)
}

// DecodeProgram decodes an AST document into a Program. A document whose root
// node is not a Program is wrapped into a single-statement program.
func DecodeProgram(data []byte, filename string) (*Program, error) {
	node, err := decodeDocument(data, FormatFor(filename), filename)
	if err != nil {
		return nil, err
	}
	if prog, ok := node.(*Program); ok {
		return prog, nil
	}
	return &Program{Span: node.NodeSpan(), Body: []Stmt{node}}, nil
}

// Decode decodes a single AST node from a document in the given format.
func Decode(data []byte, format Format) (Stmt, error) {
	return decodeDocument(data, format, "")
}

// DecodeNode converts an already-unmarshalled document (as produced by
// encoding/json or yaml.v3 into an `any`) into a node.
func DecodeNode(raw any) (Stmt, error) {
	d := &decoder{}
	return d.stmt(raw, "")
}

func decodeDocument(data []byte, format Format, filename string) (Stmt, error) {
	var raw any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &DecodeError{File: filename, Message: fmt.Sprintf("invalid YAML: %s", err)}
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &DecodeError{File: filename, Message: fmt.Sprintf("invalid JSON: %s", err)}
		}
	}
	if raw == nil {
		return nil, &DecodeError{File: filename, Message: "empty document"}
	}
	d := &decoder{file: filename}
	return d.stmt(raw, "")
}

type decoder struct {
	file string
}

func (d *decoder) errorf(path, format string, args ...any) error {
	return &DecodeError{File: d.file, Path: path, Message: fmt.Sprintf(format, args...)}
}

func (d *decoder) stmt(raw any, path string) (Stmt, error) {
	m, ok := asMap(raw)
	if !ok {
		return nil, d.errorf(path, "expected a node object, got %s", describe(raw))
	}
	kind, _ := m["kind"].(string)
	span := d.span(m)

	switch kind {
	case "Program":
		body, err := d.stmts(m["body"], join(path, "body"))
		if err != nil {
			return nil, err
		}
		return &Program{Span: span, Body: body}, nil

	case "NumericLiteral":
		val, ok := toFloat(m["value"])
		if !ok {
			return nil, d.errorf(path, "NumericLiteral requires a numeric 'value'")
		}
		return &NumericLiteral{Span: span, Value: val}, nil

	case "StringLiteral":
		val, ok := m["value"].(string)
		if !ok {
			return nil, d.errorf(path, "StringLiteral requires a string 'value'")
		}
		return &StringLiteral{Span: span, Value: val}, nil

	case "Identifier":
		sym, ok := m["symbol"].(string)
		if !ok {
			return nil, d.errorf(path, "Identifier requires a string 'symbol'")
		}
		return &Identifier{Span: span, Symbol: sym}, nil

	case "AssignmentExpression":
		assignee, err := d.expr(m["assign"], join(path, "assign"))
		if err != nil {
			return nil, err
		}
		value, err := d.expr(m["value"], join(path, "value"))
		if err != nil {
			return nil, err
		}
		return &AssignmentExpression{Span: span, Assignee: assignee, Value: value}, nil

	case "ObjectLiteral":
		items, ok := asList(m["properties"])
		if !ok {
			return nil, d.errorf(path, "ObjectLiteral requires a 'properties' list")
		}
		props := make([]*Property, 0, len(items))
		for i, item := range items {
			prop, err := d.property(item, index(join(path, "properties"), i))
			if err != nil {
				return nil, err
			}
			props = append(props, prop)
		}
		return &ObjectLiteral{Span: span, Properties: props}, nil

	case "CallExpression":
		callee, err := d.expr(m["caller"], join(path, "caller"))
		if err != nil {
			return nil, err
		}
		items, _ := asList(m["arguments"])
		args := make([]Expr, 0, len(items))
		for i, item := range items {
			arg, err := d.expr(item, index(join(path, "arguments"), i))
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return &CallExpression{Span: span, Callee: callee, Arguments: args}, nil

	case "BinaryExpression":
		left, err := d.expr(m["left"], join(path, "left"))
		if err != nil {
			return nil, err
		}
		right, err := d.expr(m["right"], join(path, "right"))
		if err != nil {
			return nil, err
		}
		op, ok := m["operator"].(string)
		if !ok || op == "" {
			return nil, d.errorf(path, "BinaryExpression requires an 'operator'")
		}
		return &BinaryExpression{Span: span, Left: left, Right: right, Operator: BinaryOp(op)}, nil

	case "VariablesDeclaration":
		constant, _ := m["constant"].(bool)
		items, ok := asList(m["declarations"])
		if !ok {
			return nil, d.errorf(path, "VariablesDeclaration requires a 'declarations' list")
		}
		decls := make([]*VariableDeclarator, 0, len(items))
		for i, item := range items {
			decl, err := d.declarator(item, index(join(path, "declarations"), i))
			if err != nil {
				return nil, err
			}
			decls = append(decls, decl)
		}
		return &VariablesDeclaration{Span: span, Constant: constant, Declarations: decls}, nil

	case "FunctionDeclaration":
		name, ok := m["name"].(string)
		if !ok {
			return nil, d.errorf(path, "FunctionDeclaration requires a string 'name'")
		}
		rawParams, _ := asList(m["parameters"])
		params := make([]string, 0, len(rawParams))
		for i, p := range rawParams {
			s, ok := p.(string)
			if !ok {
				return nil, d.errorf(index(join(path, "parameters"), i), "parameter must be a string")
			}
			params = append(params, s)
		}
		body, err := d.stmts(m["body"], join(path, "body"))
		if err != nil {
			return nil, err
		}
		return &FunctionDeclaration{Span: span, Name: name, Parameters: params, Body: body}, nil

	case "":
		return nil, d.errorf(path, "node is missing 'kind'")
	}

	return nil, d.errorf(path, "unknown node kind %q", kind)
}

func (d *decoder) expr(raw any, path string) (Expr, error) {
	if raw == nil {
		return nil, d.errorf(path, "missing expression")
	}
	node, err := d.stmt(raw, path)
	if err != nil {
		return nil, err
	}
	e, ok := node.(Expr)
	if !ok {
		return nil, d.errorf(path, "%s is not an expression", node.Kind())
	}
	return e, nil
}

func (d *decoder) stmts(raw any, path string) ([]Stmt, error) {
	if raw == nil {
		return []Stmt{}, nil
	}
	items, ok := asList(raw)
	if !ok {
		return nil, d.errorf(path, "expected a list of statements, got %s", describe(raw))
	}
	out := make([]Stmt, 0, len(items))
	for i, item := range items {
		s, err := d.stmt(item, index(path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (d *decoder) property(raw any, path string) (*Property, error) {
	m, ok := asMap(raw)
	if !ok {
		return nil, d.errorf(path, "expected a property object, got %s", describe(raw))
	}
	key, ok := m["key"].(string)
	if !ok {
		return nil, d.errorf(path, "property requires a string 'key'")
	}
	prop := &Property{Span: d.span(m), Key: key}
	if v, present := m["value"]; present && v != nil {
		val, err := d.expr(v, join(path, "value"))
		if err != nil {
			return nil, err
		}
		prop.Value = val
	}
	return prop, nil
}

func (d *decoder) declarator(raw any, path string) (*VariableDeclarator, error) {
	m, ok := asMap(raw)
	if !ok {
		return nil, d.errorf(path, "expected a declarator object, got %s", describe(raw))
	}
	name, ok := m["identifier"].(string)
	if !ok {
		return nil, d.errorf(path, "declarator requires a string 'identifier'")
	}
	decl := &VariableDeclarator{Span: d.span(m), Name: name}
	if v, present := m["value"]; present && v != nil {
		val, err := d.expr(v, join(path, "value"))
		if err != nil {
			return nil, err
		}
		decl.Value = val
	}
	return decl, nil
}

func (d *decoder) span(m map[string]any) Span {
	span := Span{File: d.file}
	raw, ok := asMap(m["span"])
	if !ok {
		return span
	}
	if f, ok := raw["file"].(string); ok && f != "" {
		span.File = f
	}
	span.StartLine = toInt(raw["startLine"])
	span.StartCol = toInt(raw["startCol"])
	span.EndLine = toInt(raw["endLine"])
	span.EndCol = toInt(raw["endCol"])
	return span
}

func asMap(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = v
		}
		return out, true
	}
	return nil, false
}

func asList(raw any) ([]any, bool) {
	l, ok := raw.([]any)
	return l, ok
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func toInt(raw any) int {
	f, _ := toFloat(raw)
	return int(f)
}

func describe(raw any) string {
	if raw == nil {
		return "null"
	}
	switch raw.(type) {
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	if _, ok := toFloat(raw); ok {
		return "number"
	}
	return fmt.Sprintf("%T", raw)
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
