package stdlib

import (
	"fmt"

	"github.com/thomasrohde/walker/pkg/evaluator"
)

// parseJSON(s) → any
func stdlibParseJSON(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	s, err := stringArg("parseJSON", args, 0)
	if err != nil {
		return nil, err
	}
	result, err := evaluator.ParseJSONToValue([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("parseJSON: %w", err)
	}
	return result, nil
}

// toJSON(v) → string
func stdlibToJSON(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	b, err := evaluator.ValueToJSON(arg(args, 0))
	if err != nil {
		return nil, fmt.Errorf("toJSON: %w", err)
	}
	return evaluator.NewString(string(b)), nil
}
