// Package runtime provides the top-level orchestrator: decode, validate,
// install natives and evaluate.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/thomasrohde/walker/pkg/ast"
	"github.com/thomasrohde/walker/pkg/config"
	"github.com/thomasrohde/walker/pkg/diagnostics"
	"github.com/thomasrohde/walker/pkg/evaluator"
	"github.com/thomasrohde/walker/pkg/formatter"
	"github.com/thomasrohde/walker/pkg/stdlib"
	"github.com/thomasrohde/walker/pkg/validator"
)

// Result holds the outcome of a program execution.
type Result struct {
	RunID string
	Value evaluator.Value
	Stats evaluator.BudgetTracker
}

// Runtime wires together all components for program execution.
type Runtime struct {
	stdlib *stdlib.Registry
	config *config.Config
	arity  *evaluator.ArityPolicy
	runID  string
	trace  func(event evaluator.TraceEvent)
	out    io.Writer
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithStdlib sets the native function registry.
func WithStdlib(r *stdlib.Registry) Option {
	return func(rt *Runtime) {
		rt.stdlib = r
	}
}

// WithConfig sets the configuration used for arity, budgets and natives.
func WithConfig(cfg *config.Config) Option {
	return func(rt *Runtime) {
		rt.config = cfg
	}
}

// WithArity overrides the configured arity policy.
func WithArity(p evaluator.ArityPolicy) Option {
	return func(rt *Runtime) {
		rt.arity = &p
	}
}

// WithRunID sets a fixed run ID for trace events. Without it every run gets
// a fresh UUID.
func WithRunID(id string) Option {
	return func(rt *Runtime) {
		rt.runID = id
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(event evaluator.TraceEvent)) Option {
	return func(rt *Runtime) {
		rt.trace = fn
	}
}

// WithOutput redirects print.
func WithOutput(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.out = w
	}
}

// New creates a new Runtime with the given options.
// By default the full native library is registered and the built-in
// configuration applies.
func New(opts ...Option) *Runtime {
	reg := stdlib.NewRegistry()
	stdlib.RegisterDefaults(reg)

	rt := &Runtime{
		stdlib: reg,
		config: config.Default(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.out != nil {
		rt.stdlib.SetOutput(rt.out)
	}
	return rt
}

// Run decodes, validates, and executes an AST document.
func (rt *Runtime) Run(ctx context.Context, source []byte, filename string) (*Result, error) {
	program, err := rt.load(source, filename)
	if err != nil {
		return nil, err
	}

	runID := rt.nextRunID()
	result, err := evaluator.Execute(ctx, program, rt.RootEnv(), rt.execOptions(runID))
	if err != nil {
		if result != nil {
			return &Result{RunID: runID, Stats: result.Stats}, err
		}
		return nil, err
	}
	return &Result{RunID: runID, Value: result.Value, Stats: result.Stats}, nil
}

// Check decodes and validates an AST document without executing it.
func (rt *Runtime) Check(source []byte, filename string) []diagnostics.Diagnostic {
	_, err := rt.load(source, filename)
	var diagErr *DiagnosticError
	if errors.As(err, &diagErr) {
		return diagErr.Diagnostics
	}
	return nil
}

// Format decodes an AST document and prints it as source.
func (rt *Runtime) Format(source []byte, filename string) (string, error) {
	program, err := ast.DecodeProgram(source, filename)
	if err != nil {
		return "", decodeFailure(err)
	}
	return formatter.Format(program), nil
}

// RootEnv creates a root environment with the natives the configuration
// allows.
func (rt *Runtime) RootEnv() *evaluator.Env {
	env := evaluator.NewEnv(nil)
	rt.stdlib.Install(env, func(fn stdlib.Fn) bool {
		return rt.config.NativeAllowed(fn.Group, fn.Name)
	})
	return env
}

// Config returns the effective configuration.
func (rt *Runtime) Config() *config.Config {
	return rt.config
}

func (rt *Runtime) load(source []byte, filename string) (*ast.Program, error) {
	program, err := ast.DecodeProgram(source, filename)
	if err != nil {
		return nil, decodeFailure(err)
	}
	if diags := validator.Validate(program); len(diags) > 0 {
		return nil, &DiagnosticError{Diagnostics: diags}
	}
	return program, nil
}

func (rt *Runtime) nextRunID() string {
	if rt.runID != "" {
		return rt.runID
	}
	return uuid.NewString()
}

// execOptions constructs evaluator options from the runtime's configuration.
func (rt *Runtime) execOptions(runID string) evaluator.ExecOptions {
	arity := rt.config.ArityPolicy()
	if rt.arity != nil {
		arity = *rt.arity
	}
	return evaluator.ExecOptions{
		Arity:  arity,
		Budget: rt.config.ExecBudget(),
		Trace:  rt.trace,
		RunID:  runID,
	}
}

func decodeFailure(err error) error {
	var decErr *ast.DecodeError
	if !errors.As(err, &decErr) {
		return err
	}
	var span *ast.Span
	if decErr.File != "" {
		span = &ast.Span{File: decErr.File}
	}
	msg := decErr.Message
	if decErr.Path != "" {
		msg = decErr.Path + ": " + msg
	}
	return &DiagnosticError{Diagnostics: []diagnostics.Diagnostic{
		diagnostics.MakeDiag(diagnostics.EAst, msg, span, ""),
	}}
}

// DiagnosticError wraps decode or validation diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}

// Diagnostics converts any error returned by this package into diagnostics
// for presentation.
func Diagnostics(err error) []diagnostics.Diagnostic {
	var (
		diagErr *DiagnosticError
		rtErr   *evaluator.RuntimeError
		inErr   *evaluator.InternalError
		cfgErr  *config.Error
	)
	switch {
	case err == nil:
		return nil
	case errors.As(err, &diagErr):
		return diagErr.Diagnostics
	case errors.As(err, &rtErr):
		return []diagnostics.Diagnostic{rtErr.Diagnostic()}
	case errors.As(err, &inErr):
		return []diagnostics.Diagnostic{inErr.Diagnostic()}
	case errors.As(err, &cfgErr):
		return []diagnostics.Diagnostic{cfgErr.Diagnostic()}
	}
	return []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.EIO, err.Error(), nil, "")}
}
