// Package diagnostics defines diagnostic codes and formatting for decode,
// validation, and runtime errors.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/thomasrohde/walker/pkg/ast"
)

// Diagnostic code constants.
const (
	EAst               = "E_AST"
	EBinding           = "E_BINDING"
	EConstAssign       = "E_CONST_ASSIGN"
	EAssignTarget      = "E_ASSIGN_TARGET"
	EInvalidOperator   = "E_INVALID_OPERATOR"
	ENumericConversion = "E_NUMERIC_CONVERSION"
	ENotCallable       = "E_NOT_CALLABLE"
	EArity             = "E_ARITY"
	ENative            = "E_NATIVE"
	EBudget            = "E_BUDGET"
	ECanceled          = "E_CANCELED"
	EInternal          = "E_INTERNAL"
	EConfig            = "E_CONFIG"
	EIO                = "E_IO"
)

// Diagnostic represents a decode, validation, or runtime diagnostic.
type Diagnostic struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Span    *ast.Span `json:"span,omitempty"`
	Hint    string    `json:"hint,omitempty"`
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(code, message string, span *ast.Span, hint string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: message,
		Span:    span,
		Hint:    hint,
	}
}

// HintFor returns a short remediation hint for well-known runtime codes.
func HintFor(code string) string {
	switch code {
	case EBinding:
		return "declare the name with let or const before using it"
	case EConstAssign:
		return "declare the binding with let if it must change"
	case EAssignTarget:
		return "only plain identifiers can be assigned"
	case ENumericConversion:
		return "both operands must convert to a number for - * /"
	case ENotCallable:
		return "only functions and natives can be called"
	}
	return ""
}

// FormatDiagnostic formats a single diagnostic for display.
func FormatDiagnostic(d Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(d)
		return string(b)
	}
	loc := "<unknown>"
	if d.Span != nil {
		loc = fmt.Sprintf("%s:%d:%d", d.Span.File, d.Span.StartLine, d.Span.StartCol)
	}
	out := fmt.Sprintf("error[%s]: %s\n  --> %s", d.Code, d.Message, loc)
	if d.Hint != "" {
		out += fmt.Sprintf("\n  hint: %s", d.Hint)
	}
	return out
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, true)
	}
	return strings.Join(parts, "\n\n")
}
