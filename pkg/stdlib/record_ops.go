package stdlib

import (
	"fmt"

	"github.com/thomasrohde/walker/pkg/evaluator"
)

// keys(o) → object of key strings
func stdlibKeys(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	obj, err := objectArg("keys", args, 0)
	if err != nil {
		return nil, err
	}
	items := make([]evaluator.Value, obj.Len())
	for i, kv := range obj.Pairs {
		items[i] = evaluator.NewString(kv.Key)
	}
	return indexed(items), nil
}

// values(o) → object of values
func stdlibValues(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	obj, err := objectArg("values", args, 0)
	if err != nil {
		return nil, err
	}
	items := make([]evaluator.Value, obj.Len())
	for i, kv := range obj.Pairs {
		items[i] = kv.Value
	}
	return indexed(items), nil
}

// has(o, key) → 1 | 0
func stdlibHas(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	obj, err := objectArg("has", args, 0)
	if err != nil {
		return nil, err
	}
	key, err := stringArg("has", args, 1)
	if err != nil {
		return nil, err
	}
	_, ok := obj.Get(key)
	return boolValue(ok), nil
}

// merge(...objects) → new object (later objects win on conflicts)
func stdlibMerge(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	result := evaluator.NewObject()
	for i := range args {
		obj, ok := args[i].(*evaluator.Object)
		if !ok {
			return nil, fmt.Errorf("merge: argument %d must be an object, got %s", i+1, evaluator.TypeName(args[i]))
		}
		for _, kv := range obj.Pairs {
			result.Set(kv.Key, kv.Value)
		}
	}
	return result, nil
}
