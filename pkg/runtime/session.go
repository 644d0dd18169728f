package runtime

import (
	"context"

	"github.com/thomasrohde/walker/pkg/ast"
	"github.com/thomasrohde/walker/pkg/evaluator"
	"github.com/thomasrohde/walker/pkg/validator"
)

// Session evaluates nodes one at a time against a persistent root
// environment, so bindings survive between inputs.
type Session struct {
	rt    *Runtime
	env   *evaluator.Env
	runID string
}

// NewSession starts a session with a fresh root environment.
func (rt *Runtime) NewSession() *Session {
	return &Session{rt: rt, env: rt.RootEnv(), runID: rt.nextRunID()}
}

// Eval decodes one JSON node and evaluates it in the session environment.
func (s *Session) Eval(ctx context.Context, line []byte) (evaluator.Value, error) {
	node, err := ast.Decode(line, ast.FormatJSON)
	if err != nil {
		return nil, decodeFailure(err)
	}
	if diags := validator.Validate(node); len(diags) > 0 {
		return nil, &DiagnosticError{Diagnostics: diags}
	}
	return evaluator.EvaluateContext(ctx, node, s.env, s.rt.execOptions(s.runID))
}

// Env returns the session's root environment.
func (s *Session) Env() *evaluator.Env {
	return s.env
}

// Reset discards every binding made in the session.
func (s *Session) Reset() {
	s.env = s.rt.RootEnv()
}

// RunID identifies the session in trace events.
func (s *Session) RunID() string {
	return s.runID
}
