package stdlib

import (
	"fmt"
	"math"

	"github.com/thomasrohde/walker/pkg/evaluator"
)

// max(...numbers) → number
func stdlibMathMax(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	return extreme("max", args, func(a, b float64) bool { return a > b })
}

// min(...numbers) → number
func stdlibMathMin(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	return extreme("min", args, func(a, b float64) bool { return a < b })
}

func extreme(name string, args []evaluator.Value, better func(a, b float64) bool) (evaluator.Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%s: at least one number is required", name)
	}
	best, err := numberArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(args); i++ {
		n, err := numberArg(name, args, i)
		if err != nil {
			return nil, err
		}
		if better(n, best) {
			best = n
		}
	}
	return evaluator.NewNumber(best), nil
}

func unaryMath(name string, op func(float64) float64) evaluator.NativeFunc {
	return func(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
		n, err := numberArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		return evaluator.NewNumber(op(n)), nil
	}
}

// mathRound rounds halves toward +Inf, so round(-2.5) is -2.
func mathRound(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return n
	}
	return math.Floor(n + 0.5)
}

// pow(base, exp) → number
func stdlibMathPow(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	base, err := numberArg("pow", args, 0)
	if err != nil {
		return nil, err
	}
	exp, err := numberArg("pow", args, 1)
	if err != nil {
		return nil, err
	}
	return evaluator.NewNumber(math.Pow(base, exp)), nil
}
