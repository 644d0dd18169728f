package evaluator

import (
	"errors"
	"fmt"

	"github.com/thomasrohde/walker/pkg/ast"
	"github.com/thomasrohde/walker/pkg/diagnostics"
)

// Sentinel errors matched by RuntimeError through errors.Is.
var (
	ErrBinding                     = errors.New("binding error")
	ErrConstAssignment             = errors.New("assignment to constant")
	ErrUnsupportedAssignmentTarget = errors.New("unsupported assignment target")
	ErrInvalidOperator             = errors.New("invalid operator")
	ErrInvalidNumericConversion    = errors.New("invalid numeric conversion")
	ErrNotCallable                 = errors.New("value is not callable")
	ErrArity                       = errors.New("wrong number of arguments")
	ErrNative                      = errors.New("native function failed")
	ErrBudget                      = errors.New("budget exceeded")
	ErrCanceled                    = errors.New("evaluation canceled")
)

var sentinelByCode = map[string]error{
	diagnostics.EBinding:           ErrBinding,
	diagnostics.EConstAssign:       ErrConstAssignment,
	diagnostics.EAssignTarget:      ErrUnsupportedAssignmentTarget,
	diagnostics.EInvalidOperator:   ErrInvalidOperator,
	diagnostics.ENumericConversion: ErrInvalidNumericConversion,
	diagnostics.ENotCallable:       ErrNotCallable,
	diagnostics.EArity:             ErrArity,
	diagnostics.ENative:            ErrNative,
	diagnostics.EBudget:            ErrBudget,
	diagnostics.ECanceled:          ErrCanceled,
}

// RuntimeError is a recoverable evaluation failure.
type RuntimeError struct {
	Code    string
	Message string
	Span    *ast.Span
	Cause   error
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// Unwrap exposes the sentinel for the error code and, for native failures,
// the error returned by the native.
func (e *RuntimeError) Unwrap() []error {
	var errs []error
	if s, ok := sentinelByCode[e.Code]; ok {
		errs = append(errs, s)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Diagnostic converts the error for presentation.
func (e *RuntimeError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(e.Code, e.Message, e.Span, diagnostics.HintFor(e.Code))
}

// InternalError reports an invariant violation inside the evaluator, such as
// a node kind it has no rule for. It is not part of the recoverable taxonomy:
// hosts should stop the current run and report it.
type InternalError struct {
	NodeKind string
	Message  string
	Span     *ast.Span
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Message)
}

// Diagnostic converts the error for presentation.
func (e *InternalError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(diagnostics.EInternal, e.Error(), e.Span, "")
}

func newError(code string, span *ast.Span, format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	}
}

// withSpan fills in the location of an error raised below the node that knows it.
func withSpan(err error, span ast.Span) error {
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) && rtErr.Span == nil {
		s := span
		rtErr.Span = &s
	}
	return err
}
