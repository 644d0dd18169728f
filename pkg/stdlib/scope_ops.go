package stdlib

import (
	"github.com/thomasrohde/walker/pkg/evaluator"
)

// These natives read the environment of the call site, which is how host
// functions see the caller's bindings.

// defined(name) → 1 | 0
func stdlibDefined(args []evaluator.Value, env *evaluator.Env) (evaluator.Value, error) {
	name, err := stringArg("defined", args, 0)
	if err != nil {
		return nil, err
	}
	return boolValue(env.Has(name)), nil
}

// lookup(name) → any
func stdlibLookup(args []evaluator.Value, env *evaluator.Env) (evaluator.Value, error) {
	name, err := stringArg("lookup", args, 0)
	if err != nil {
		return nil, err
	}
	return env.Lookup(name)
}

// scope() → object of every binding visible from the caller, innermost first.
// Natives are left out.
func stdlibScope(_ []evaluator.Value, env *evaluator.Env) (evaluator.Value, error) {
	result := evaluator.NewObject()
	seen := make(map[string]bool)
	for frame := env; frame != nil; frame = frame.Parent() {
		for _, name := range frame.Names() {
			if seen[name] {
				continue
			}
			seen[name] = true
			val, _ := frame.Get(name)
			if _, native := val.(*evaluator.NativeFunction); native {
				continue
			}
			result.Set(name, val)
		}
	}
	return result, nil
}
