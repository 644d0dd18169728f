package stdlib

import (
	"strings"

	"github.com/thomasrohde/walker/pkg/evaluator"
)

func stringTransform(name string, args []evaluator.Value, op func(string) string) (evaluator.Value, error) {
	s, err := stringArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	return evaluator.NewString(op(s)), nil
}

// upper(s) → string
func stdlibUpper(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	return stringTransform("upper", args, strings.ToUpper)
}

// lower(s) → string
func stdlibLower(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	return stringTransform("lower", args, strings.ToLower)
}

// trim(s) → string
func stdlibTrim(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	return stringTransform("trim", args, strings.TrimSpace)
}

// split(s, sep) → object keyed "0".."n-1"
func stdlibSplit(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	s, err := stringArg("split", args, 0)
	if err != nil {
		return nil, err
	}
	sep, err := stringArg("split", args, 1)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(s, sep)
	items := make([]evaluator.Value, len(parts))
	for i, p := range parts {
		items[i] = evaluator.NewString(p)
	}
	return indexed(items), nil
}

// replace(s, from, to) → string
func stdlibReplace(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	s, err := stringArg("replace", args, 0)
	if err != nil {
		return nil, err
	}
	from, err := stringArg("replace", args, 1)
	if err != nil {
		return nil, err
	}
	to, err := stringArg("replace", args, 2)
	if err != nil {
		return nil, err
	}
	return evaluator.NewString(strings.ReplaceAll(s, from, to)), nil
}
