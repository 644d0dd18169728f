// Package help holds the reference text printed by `walker help`.
package help

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thomasrohde/walker/pkg/stdlib"
)

// Version is the interpreter version reported by the CLI.
const Version = "v0.1"

// QUICKREF is the overview printed by `walker help` with no topic.
var QUICKREF = `walker ` + Version + ` - tree-walking evaluator for JSON/YAML syntax trees

USAGE
  walker run <file> [--trace <out.jsonl>] [--arity null|loose|strict] [--pretty]
  walker check <file>
  walker fmt <file>
  walker repl
  walker trace <file.jsonl> [--json]
  walker config
  walker help [topic] [--index]

A program is a JSON or YAML document of nodes tagged by "kind".
Its value is the value of the last statement.

TOPICS (walker help <topic>, prefixes work)
  syntax       node kinds and their fields
  types        Null, Number, String, Object, functions
  stdlib       native functions by group
  config       .walker.yaml settings
  budget       time and call-depth limits
  arity        missing and extra arguments
  diagnostics  error codes and exit codes
  examples     small complete programs
`

// Topics maps topic names to their reference text.
var Topics = map[string]string{
	"syntax": `NODE KINDS
  Program              { body: [stmt...] }
  NumericLiteral       { value: number }
  StringLiteral        { value: string }
  Identifier           { symbol: string }
  BinaryExpression     { left, right, operator: + - * / % }
  AssignmentExpression { assign: Identifier, value }
  CallExpression       { caller, arguments: [expr...] }
  ObjectLiteral        { properties: [{ key, value? }] }
  VariablesDeclaration { constant: bool, declarations: [{ identifier, value? }] }
  FunctionDeclaration  { name, parameters: [string...], body: [stmt...] }

Every node may carry span: { file, startLine, startCol, endLine, endCol }.
A property without value is shorthand for the variable of the same name.
Arguments are evaluated left to right before the callee.
`,
	"types": `TYPES
  null      absent value; missing declarator values and Null-returning natives
  number    64-bit float; printed like JavaScript (1, 0.5, 1e+21, NaN)
  string    UTF-8 text
  object    ordered string-keyed record; mutable, shared by reference
  function  user function closing over its defining scope
  native    host function

There are no booleans: predicates return 1 or 0.
Mixed number/string operands: + concatenates, - * / convert the string
to a number (E_NUMERIC_CONVERSION if it is not numeric).
Operand pairs with no rule, such as object + number, yield null.
`,
	"stdlib": "", // filled in init from the native registry
	"config": `CONFIGURATION
  Looked up in ./.walker.yaml, then ~/.walker/config.yaml.

  arity: null            # null | loose | strict
  budget:
    timeMs: 5000         # 0 disables
    maxCallDepth: 2048   # 0 disables
  natives:
    allow: [io, time, core, math, string, object, scope]
    deny: []             # group or function names; deny wins
  log:
    level: info          # logrus level
    format: text         # text | json

  walker config prints the effective configuration.
`,
	"budget": `BUDGETS
  timeMs        wall-clock limit for a run, checked before every statement
  maxCallDepth  deepest allowed chain of user function calls

Exceeding either stops the run with E_BUDGET (exit 3).
Canceling a run (Ctrl-C) stops it with E_CANCELED.
walker run --trace out.jsonl records every call; walker trace summarizes it.
`,
	"arity": `ARITY POLICIES
  null    missing parameters are bound to null, extra arguments ignored (default)
  loose   missing parameters stay unbound; reading one resolves through the
          enclosing scopes or fails with E_BINDING
  strict  any mismatch fails with E_ARITY
`,
	"diagnostics": `DIAGNOSTICS
  E_AST                 malformed or invalid syntax tree      exit 2
  E_CONFIG              invalid configuration                 exit 1
  E_IO                  file could not be read or written     exit 1
  E_BINDING             unknown name                          exit 4
  E_CONST_ASSIGN        assignment to a constant              exit 4
  E_ASSIGN_TARGET       assignment target is not a name       exit 4
  E_INVALID_OPERATOR    operator not defined for the operands exit 4
  E_NUMERIC_CONVERSION  string operand is not numeric         exit 4
  E_NOT_CALLABLE        call of a non-function                exit 4
  E_ARITY               wrong argument count (strict)         exit 4
  E_NATIVE              native function failed                exit 4
  E_BUDGET              time or call-depth budget exceeded    exit 3
  E_CANCELED            run interrupted                       exit 3
  E_INTERNAL            evaluator bug                         exit 6
`,
	"examples": `EXAMPLES
Closure counter (YAML):

  kind: Program
  body:
    - kind: FunctionDeclaration
      name: makeCounter
      parameters: []
      body:
        - kind: VariablesDeclaration
          declarations: [{ identifier: n, value: { kind: NumericLiteral, value: 0 } }]
        - kind: FunctionDeclaration
          name: inc
          parameters: []
          body:
            - kind: AssignmentExpression
              assign: { kind: Identifier, symbol: n }
              value:
                kind: BinaryExpression
                operator: "+"
                left: { kind: Identifier, symbol: n }
                right: { kind: NumericLiteral, value: 1 }
    - kind: VariablesDeclaration
      constant: true
      declarations:
        - identifier: next
          value: { kind: CallExpression, caller: { kind: Identifier, symbol: makeCounter }, arguments: [] }
    - kind: CallExpression
      caller: { kind: Identifier, symbol: next }
      arguments: []

walker fmt prints it as:

  fn makeCounter() {
    let n = 0
    fn inc() {
      n = n + 1
    }
  }
  const next = makeCounter()
  next()
`,
}

// TopicList is the display order of Topics.
var TopicList = []string{"syntax", "types", "stdlib", "config", "budget", "arity", "diagnostics", "examples"}

func init() {
	Topics["stdlib"] = StdlibIndex()
}

// MatchTopic resolves name exactly, or as a unique prefix of a topic.
func MatchTopic(name string) (string, string, error) {
	if content, ok := Topics[name]; ok {
		return name, content, nil
	}
	var matches []string
	for _, topic := range TopicList {
		if name != "" && strings.HasPrefix(topic, name) {
			matches = append(matches, topic)
		}
	}
	switch len(matches) {
	case 0:
		return "", "", fmt.Errorf("unknown help topic %q (topics: %s)", name, strings.Join(TopicList, ", "))
	case 1:
		return matches[0], Topics[matches[0]], nil
	}
	return "", "", fmt.Errorf("ambiguous help topic %q matches %s", name, strings.Join(matches, ", "))
}

// StdlibIndex lists the default natives grouped by group.
func StdlibIndex() string {
	reg := stdlib.NewRegistry()
	stdlib.RegisterDefaults(reg)
	groups := reg.Groups()

	names := make([]string, 0, len(groups))
	for g := range groups {
		names = append(names, g)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("NATIVE FUNCTIONS\n")
	total := 0
	for _, g := range names {
		fmt.Fprintf(&b, "\n[%s]\n", g)
		for _, fn := range groups[g] {
			fmt.Fprintf(&b, "  %-10s %s\n", fn.Name, fn.Doc)
			total++
		}
	}
	fmt.Fprintf(&b, "\nTotal: %d functions\n", total)
	return b.String()
}
