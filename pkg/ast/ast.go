// Package ast defines the node types handed to the evaluator by an external parser.
package ast

// Span represents a source location range.
type Span struct {
	File      string `json:"file" yaml:"file"`
	StartLine int    `json:"startLine" yaml:"startLine"`
	StartCol  int    `json:"startCol" yaml:"startCol"`
	EndLine   int    `json:"endLine" yaml:"endLine"`
	EndCol    int    `json:"endCol" yaml:"endCol"`
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() string
	NodeSpan() Span
}

// BinaryOp represents a binary operator symbol.
type BinaryOp string

const (
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "/"
	OpMod BinaryOp = "%"
)

// --- Stmt is the interface for every node the evaluator can dispatch on ---

type Stmt interface {
	Node
	stmtNode() // sealed marker
}

// --- Expr is a Stmt that may also appear in expression position ---

type Expr interface {
	Stmt
	exprNode() // sealed marker
}

// --- Literals ---

type NumericLiteral struct {
	Span  Span
	Value float64
}

func (n *NumericLiteral) Kind() string   { return "NumericLiteral" }
func (n *NumericLiteral) NodeSpan() Span { return n.Span }
func (n *NumericLiteral) stmtNode()      {}
func (n *NumericLiteral) exprNode()      {}

type StringLiteral struct {
	Span  Span
	Value string
}

func (n *StringLiteral) Kind() string   { return "StringLiteral" }
func (n *StringLiteral) NodeSpan() Span { return n.Span }
func (n *StringLiteral) stmtNode()      {}
func (n *StringLiteral) exprNode()      {}

// --- Identifiers ---

type Identifier struct {
	Span   Span
	Symbol string
}

func (n *Identifier) Kind() string   { return "Identifier" }
func (n *Identifier) NodeSpan() Span { return n.Span }
func (n *Identifier) stmtNode()      {}
func (n *Identifier) exprNode()      {}

// --- Expressions ---

// AssignmentExpression assigns Value to Assignee. Only identifier assignees
// are supported at runtime; the node accepts any expression so producers can
// describe member or destructuring targets.
type AssignmentExpression struct {
	Span     Span
	Assignee Expr
	Value    Expr
}

func (n *AssignmentExpression) Kind() string   { return "AssignmentExpression" }
func (n *AssignmentExpression) NodeSpan() Span { return n.Span }
func (n *AssignmentExpression) stmtNode()      {}
func (n *AssignmentExpression) exprNode()      {}

// Property is a single object literal entry. A nil Value marks the shorthand
// form `{ key }`.
type Property struct {
	Span  Span
	Key   string
	Value Expr
}

func (n *Property) Kind() string   { return "Property" }
func (n *Property) NodeSpan() Span { return n.Span }

// Shorthand reports whether the property omits its value expression.
func (n *Property) Shorthand() bool { return n.Value == nil }

type ObjectLiteral struct {
	Span       Span
	Properties []*Property
}

func (n *ObjectLiteral) Kind() string   { return "ObjectLiteral" }
func (n *ObjectLiteral) NodeSpan() Span { return n.Span }
func (n *ObjectLiteral) stmtNode()      {}
func (n *ObjectLiteral) exprNode()      {}

type CallExpression struct {
	Span      Span
	Callee    Expr
	Arguments []Expr
}

func (n *CallExpression) Kind() string   { return "CallExpression" }
func (n *CallExpression) NodeSpan() Span { return n.Span }
func (n *CallExpression) stmtNode()      {}
func (n *CallExpression) exprNode()      {}

type BinaryExpression struct {
	Span     Span
	Left     Expr
	Right    Expr
	Operator BinaryOp
}

func (n *BinaryExpression) Kind() string   { return "BinaryExpression" }
func (n *BinaryExpression) NodeSpan() Span { return n.Span }
func (n *BinaryExpression) stmtNode()      {}
func (n *BinaryExpression) exprNode()      {}

// --- Statements ---

// VariableDeclarator is one `name = value` entry of a declaration. Value is
// nil when the initializer is omitted.
type VariableDeclarator struct {
	Span  Span
	Name  string
	Value Expr
}

func (n *VariableDeclarator) Kind() string   { return "VariableDeclarator" }
func (n *VariableDeclarator) NodeSpan() Span { return n.Span }

// VariablesDeclaration declares one or more bindings, all sharing the
// Constant flag (`let a, b` vs `const a = 1`).
type VariablesDeclaration struct {
	Span         Span
	Constant     bool
	Declarations []*VariableDeclarator
}

func (n *VariablesDeclaration) Kind() string   { return "VariablesDeclaration" }
func (n *VariablesDeclaration) NodeSpan() Span { return n.Span }
func (n *VariablesDeclaration) stmtNode()      {}

type FunctionDeclaration struct {
	Span       Span
	Name       string
	Parameters []string
	Body       []Stmt
}

func (n *FunctionDeclaration) Kind() string   { return "FunctionDeclaration" }
func (n *FunctionDeclaration) NodeSpan() Span { return n.Span }
func (n *FunctionDeclaration) stmtNode()      {}

// --- Program ---

type Program struct {
	Span Span
	Body []Stmt
}

func (n *Program) Kind() string   { return "Program" }
func (n *Program) NodeSpan() Span { return n.Span }
func (n *Program) stmtNode()      {}
