package stdlib

import (
	"fmt"
	"strings"

	"github.com/thomasrohde/walker/pkg/evaluator"
	"github.com/thomasrohde/walker/pkg/formatter"
)

// print(...values) → null
func (r *Registry) stdlibPrint(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	parts := make([]string, len(args))
	for i, v := range args {
		parts[i] = displayString(v)
	}
	if _, err := fmt.Fprintln(r.out, strings.Join(parts, " ")); err != nil {
		return nil, fmt.Errorf("print: %w", err)
	}
	return evaluator.NewNull(), nil
}

// now() → number
func (r *Registry) stdlibNow(_ []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	return evaluator.NewNumber(float64(r.clock().UnixMilli())), nil
}

// displayString prints top-level strings bare and everything else in
// display form.
func displayString(v evaluator.Value) string {
	if s, ok := v.(evaluator.String); ok {
		return s.Value
	}
	return formatter.FormatValue(v)
}
