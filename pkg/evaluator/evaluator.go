package evaluator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thomasrohde/walker/pkg/ast"
	"github.com/thomasrohde/walker/pkg/diagnostics"
)

// TraceEventType identifies the type of a trace event.
type TraceEventType string

const (
	TraceRunStart        TraceEventType = "run_start"
	TraceRunEnd          TraceEventType = "run_end"
	TraceFnCallStart     TraceEventType = "fn_call_start"
	TraceFnCallEnd       TraceEventType = "fn_call_end"
	TraceNativeCallStart TraceEventType = "native_call_start"
	TraceNativeCallEnd   TraceEventType = "native_call_end"
	TraceBudgetExceeded  TraceEventType = "budget_exceeded"
)

// TraceEvent represents a single trace event emitted during evaluation.
type TraceEvent struct {
	Timestamp string         `json:"ts"`
	RunID     string         `json:"runId"`
	Event     TraceEventType `json:"event"`
	Span      *ast.Span      `json:"span,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// ArityPolicy decides how a call binds arguments to parameters.
type ArityPolicy int

const (
	// ArityFillNull binds parameters without an argument to Null and ignores
	// extra arguments.
	ArityFillNull ArityPolicy = iota
	// ArityLoose leaves parameters without an argument unbound and ignores
	// extra arguments.
	ArityLoose
	// ArityStrict requires exactly one argument per parameter.
	ArityStrict
)

func (p ArityPolicy) String() string {
	switch p {
	case ArityLoose:
		return "loose"
	case ArityStrict:
		return "strict"
	default:
		return "null"
	}
}

// ParseArityPolicy parses the textual form used in configuration.
func ParseArityPolicy(s string) (ArityPolicy, error) {
	switch s {
	case "", "null":
		return ArityFillNull, nil
	case "loose":
		return ArityLoose, nil
	case "strict":
		return ArityStrict, nil
	}
	return ArityFillNull, fmt.Errorf("unknown arity policy %q (want loose, null or strict)", s)
}

// ExecOptions configures evaluation.
type ExecOptions struct {
	Arity  ArityPolicy
	Budget Budget
	Trace  func(event TraceEvent)
	RunID  string
}

// ExecResult holds the result of a program execution.
type ExecResult struct {
	Value Value
	Stats BudgetTracker
}

type evaluator struct {
	ctx        context.Context
	opts       ExecOptions
	tracker    BudgetTracker
	startClock int64
}

func newEvaluator(ctx context.Context, opts ExecOptions) *evaluator {
	if ctx == nil {
		ctx = context.Background()
	}
	return &evaluator{
		ctx:        ctx,
		opts:       opts,
		tracker:    BudgetTracker{StartMs: time.Now().UnixMilli()},
		startClock: clockNow(),
	}
}

// Evaluate computes the value of node in env with default options.
func Evaluate(node ast.Stmt, env *Env) (Value, error) {
	return EvaluateContext(context.Background(), node, env, ExecOptions{})
}

// EvaluateContext computes the value of node in env.
func EvaluateContext(ctx context.Context, node ast.Stmt, env *Env, opts ExecOptions) (Value, error) {
	ev := newEvaluator(ctx, opts)
	return ev.eval(node, env)
}

// Execute runs a program in env and reports the result with usage stats.
// A nil env runs the program in a fresh root environment.
func Execute(ctx context.Context, program *ast.Program, env *Env, opts ExecOptions) (*ExecResult, error) {
	if env == nil {
		env = NewEnv(nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Budget.TimeMs != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(*opts.Budget.TimeMs)*time.Millisecond)
		defer cancel()
	}
	ev := newEvaluator(ctx, opts)

	span := program.Span
	ev.emit(TraceRunStart, &span, nil)

	val, err := ev.eval(program, env)

	ev.emit(TraceRunEnd, &span, map[string]any{
		"calls":       ev.tracker.Calls,
		"nativeCalls": ev.tracker.NativeCalls,
		"statements":  ev.tracker.Statements,
		"maxDepth":    ev.tracker.MaxDepth,
	})

	if err != nil {
		return &ExecResult{Stats: ev.tracker}, err
	}
	return &ExecResult{Value: val, Stats: ev.tracker}, nil
}

func (ev *evaluator) emit(event TraceEventType, span *ast.Span, data map[string]any) {
	if ev.opts.Trace != nil {
		ev.opts.Trace(TraceEvent{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			RunID:     ev.opts.RunID,
			Event:     event,
			Span:      span,
			Data:      data,
		})
	}
}

func (ev *evaluator) eval(node ast.Stmt, env *Env) (Value, error) {
	switch n := node.(type) {
	case *ast.NumericLiteral:
		return NewNumber(n.Value), nil

	case *ast.StringLiteral:
		return NewString(n.Value), nil

	case *ast.Identifier:
		return ev.evalIdentifier(n, env)

	case *ast.ObjectLiteral:
		return ev.evalObject(n, env)

	case *ast.CallExpression:
		return ev.evalCall(n, env)

	case *ast.AssignmentExpression:
		return ev.evalAssignment(n, env)

	case *ast.BinaryExpression:
		return ev.evalBinary(n, env)

	case *ast.VariablesDeclaration:
		return ev.evalVariablesDeclaration(n, env)

	case *ast.FunctionDeclaration:
		return ev.evalFunctionDeclaration(n, env)

	case *ast.Program:
		return ev.evalProgram(n, env)
	}

	return nil, unknownNode(node)
}

func unknownNode(node ast.Stmt) *InternalError {
	if node == nil {
		return &InternalError{NodeKind: "<nil>", Message: "cannot evaluate a nil node"}
	}
	kind := fmt.Sprintf("%T", node)
	return &InternalError{NodeKind: kind, Message: fmt.Sprintf("unknown AST node %s", kind)}
}

func (ev *evaluator) evalIdentifier(n *ast.Identifier, env *Env) (Value, error) {
	val, err := env.Lookup(n.Symbol)
	if err != nil {
		return nil, withSpan(err, n.Span)
	}
	return val, nil
}

func (ev *evaluator) evalAssignment(n *ast.AssignmentExpression, env *Env) (Value, error) {
	target, ok := n.Assignee.(*ast.Identifier)
	if !ok {
		span := n.Span
		return nil, newError(diagnostics.EAssignTarget, &span,
			"invalid assignment target: %s", kindOf(n.Assignee))
	}
	val, err := ev.eval(n.Value, env)
	if err != nil {
		return nil, err
	}
	if _, err := env.Assign(target.Symbol, val); err != nil {
		return nil, withSpan(err, n.Span)
	}
	return val, nil
}

func (ev *evaluator) evalObject(n *ast.ObjectLiteral, env *Env) (Value, error) {
	obj := &Object{Pairs: make([]KeyValue, 0, len(n.Properties))}

	for _, prop := range n.Properties {
		var (
			val Value
			err error
		)
		if prop.Shorthand() {
			val, err = env.Lookup(prop.Key)
			err = withSpan(err, prop.Span)
		} else {
			val, err = ev.eval(prop.Value, env)
		}
		if err != nil {
			return nil, err
		}
		obj.Set(prop.Key, val)
	}

	return obj, nil
}

func (ev *evaluator) evalCall(n *ast.CallExpression, env *Env) (Value, error) {
	// Arguments are evaluated before the callee.
	args := make([]Value, 0, len(n.Arguments))
	for _, arg := range n.Arguments {
		val, err := ev.eval(arg, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	callee, err := ev.eval(n.Callee, env)
	if err != nil {
		return nil, err
	}

	span := n.Span
	switch fn := callee.(type) {
	case *NativeFunction:
		return ev.callNative(fn, args, env, span)
	case *Function:
		return ev.callFunction(fn, args, span)
	}

	return nil, newError(diagnostics.ENotCallable, &span,
		"%s is not callable (got %s)", describeCallee(n.Callee), TypeName(callee))
}

func (ev *evaluator) callNative(fn *NativeFunction, args []Value, env *Env, span ast.Span) (Value, error) {
	if fn.Call == nil {
		return nil, newError(diagnostics.ENative, &span, "native '%s' has no implementation", fn.Name)
	}
	ev.tracker.NativeCalls++
	ev.emit(TraceNativeCallStart, &span, map[string]any{"native": fn.Name, "args": len(args)})

	result, err := fn.Call(args, env)

	ev.emit(TraceNativeCallEnd, &span, map[string]any{"native": fn.Name})

	if err != nil {
		var rtErr *RuntimeError
		var inErr *InternalError
		if errors.As(err, &rtErr) || errors.As(err, &inErr) {
			return nil, withSpan(err, span)
		}
		return nil, &RuntimeError{
			Code:    diagnostics.ENative,
			Message: fmt.Sprintf("native '%s' failed: %s", fn.Name, err),
			Span:    &span,
			Cause:   err,
		}
	}
	if result == nil {
		return NewNull(), nil
	}
	return result, nil
}

func (ev *evaluator) callFunction(fn *Function, args []Value, span ast.Span) (Value, error) {
	if err := ev.enterCall(span); err != nil {
		return nil, err
	}
	defer ev.exitCall()

	// The call scope hangs off the declaration scope, not the caller's.
	parent := fn.Env
	if parent == nil {
		parent = NewEnv(nil)
	}
	scope := parent.Child()
	if err := ev.bindParams(fn, args, scope, span); err != nil {
		return nil, err
	}

	ev.emit(TraceFnCallStart, &span, map[string]any{"fn": fn.Name, "args": len(args), "depth": ev.tracker.Depth})
	result, err := ev.evalBlock(fn.Body, scope)
	ev.emit(TraceFnCallEnd, &span, map[string]any{"fn": fn.Name})

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (ev *evaluator) bindParams(fn *Function, args []Value, scope *Env, span ast.Span) error {
	switch ev.opts.Arity {
	case ArityStrict:
		if len(args) != len(fn.Parameters) {
			return newError(diagnostics.EArity, &span,
				"function '%s' expects %d argument(s), got %d", fn.Name, len(fn.Parameters), len(args))
		}
	case ArityLoose:
		for i, param := range fn.Parameters {
			if i >= len(args) {
				break
			}
			scope.Define(param, args[i], false)
		}
		return nil
	}

	for i, param := range fn.Parameters {
		var val Value = NewNull()
		if i < len(args) {
			val = args[i]
		}
		scope.Define(param, val, false)
	}
	return nil
}

func (ev *evaluator) enterCall(span ast.Span) error {
	ev.tracker.Calls++
	if limit := ev.opts.Budget.MaxCallDepth; limit != nil && ev.tracker.Depth+1 > *limit {
		ev.emit(TraceBudgetExceeded, &span, map[string]any{"budget": "maxCallDepth"})
		return newError(diagnostics.EBudget, &span, "call depth budget exceeded (max %d)", *limit)
	}
	ev.tracker.Depth++
	if ev.tracker.Depth > ev.tracker.MaxDepth {
		ev.tracker.MaxDepth = ev.tracker.Depth
	}
	return nil
}

func (ev *evaluator) exitCall() {
	ev.tracker.Depth--
}

// evalBlock evaluates statements in order; the last value is the result.
func (ev *evaluator) evalBlock(stmts []ast.Stmt, env *Env) (Value, error) {
	var last Value = NewNull()
	for _, stmt := range stmts {
		if err := ev.step(); err != nil {
			return nil, err
		}
		val, err := ev.eval(stmt, env)
		if err != nil {
			return nil, err
		}
		last = val
	}
	return last, nil
}

func (ev *evaluator) step() error {
	ev.tracker.Statements++

	if err := ev.ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ev.opts.Budget.TimeMs != nil {
			return ev.timeBudgetError()
		}
		return &RuntimeError{
			Code:    diagnostics.ECanceled,
			Message: fmt.Sprintf("evaluation canceled: %s", err),
			Cause:   err,
		}
	}

	if ev.opts.Budget.TimeMs != nil {
		limit := time.Duration(*ev.opts.Budget.TimeMs) * time.Millisecond
		if clockSince(ev.startClock) >= limit {
			return ev.timeBudgetError()
		}
	}
	return nil
}

func (ev *evaluator) timeBudgetError() error {
	ev.emit(TraceBudgetExceeded, nil, map[string]any{"budget": "timeMs"})
	return newError(diagnostics.EBudget, nil, "time budget exceeded (%dms)", *ev.opts.Budget.TimeMs)
}

func kindOf(n ast.Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Kind()
}

func describeCallee(callee ast.Expr) string {
	if id, ok := callee.(*ast.Identifier); ok {
		return fmt.Sprintf("'%s'", id.Symbol)
	}
	return kindOf(callee)
}
