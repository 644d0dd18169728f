package stdlib

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/thomasrohde/walker/pkg/evaluator"
)

// RegisterDefaults adds all library functions.
func RegisterDefaults(r *Registry) {
	// IO & time
	r.Register(Fn{Name: "print", Group: "io", Doc: "print(...values) writes values separated by spaces", Execute: r.stdlibPrint})
	r.Register(Fn{Name: "now", Group: "time", Doc: "now() returns epoch milliseconds", Execute: r.stdlibNow})

	// Core
	r.Register(Fn{Name: "typeof", Group: "core", Doc: "typeof(v) returns the type name of v", Execute: stdlibTypeof})
	r.Register(Fn{Name: "str", Group: "core", Doc: "str(v) converts v to a string", Execute: stdlibStr})
	r.Register(Fn{Name: "num", Group: "core", Doc: "num(v) converts v to a number (NaN if invalid)", Execute: stdlibNum})
	r.Register(Fn{Name: "len", Group: "core", Doc: "len(v) returns the length of a string or object", Execute: stdlibLen})
	r.Register(Fn{Name: "eq", Group: "core", Doc: "eq(a, b) returns 1 if a and b are deeply equal, else 0", Execute: stdlibEq})
	r.Register(Fn{Name: "parseJSON", Group: "core", Doc: "parseJSON(s) parses a JSON document", Execute: stdlibParseJSON})
	r.Register(Fn{Name: "toJSON", Group: "core", Doc: "toJSON(v) renders v as JSON", Execute: stdlibToJSON})

	// Math
	r.Register(Fn{Name: "max", Group: "math", Doc: "max(...numbers) returns the largest number", Execute: stdlibMathMax})
	r.Register(Fn{Name: "min", Group: "math", Doc: "min(...numbers) returns the smallest number", Execute: stdlibMathMin})
	r.Register(Fn{Name: "abs", Group: "math", Doc: "abs(n) returns |n|", Execute: unaryMath("abs", math.Abs)})
	r.Register(Fn{Name: "floor", Group: "math", Doc: "floor(n) rounds down", Execute: unaryMath("floor", math.Floor)})
	r.Register(Fn{Name: "ceil", Group: "math", Doc: "ceil(n) rounds up", Execute: unaryMath("ceil", math.Ceil)})
	r.Register(Fn{Name: "round", Group: "math", Doc: "round(n) rounds half up", Execute: unaryMath("round", mathRound)})
	r.Register(Fn{Name: "sqrt", Group: "math", Doc: "sqrt(n) returns the square root", Execute: unaryMath("sqrt", math.Sqrt)})
	r.Register(Fn{Name: "pow", Group: "math", Doc: "pow(base, exp) raises base to exp", Execute: stdlibMathPow})

	// String ops
	r.Register(Fn{Name: "upper", Group: "string", Doc: "upper(s) returns s in upper case", Execute: stdlibUpper})
	r.Register(Fn{Name: "lower", Group: "string", Doc: "lower(s) returns s in lower case", Execute: stdlibLower})
	r.Register(Fn{Name: "trim", Group: "string", Doc: "trim(s) strips surrounding whitespace", Execute: stdlibTrim})
	r.Register(Fn{Name: "split", Group: "string", Doc: "split(s, sep) returns an object keyed 0..n-1", Execute: stdlibSplit})
	r.Register(Fn{Name: "replace", Group: "string", Doc: "replace(s, from, to) replaces every occurrence", Execute: stdlibReplace})

	// Object ops
	r.Register(Fn{Name: "keys", Group: "object", Doc: "keys(o) returns the keys of o keyed 0..n-1", Execute: stdlibKeys})
	r.Register(Fn{Name: "values", Group: "object", Doc: "values(o) returns the values of o keyed 0..n-1", Execute: stdlibValues})
	r.Register(Fn{Name: "has", Group: "object", Doc: "has(o, key) returns 1 if o has key, else 0", Execute: stdlibHas})
	r.Register(Fn{Name: "merge", Group: "object", Doc: "merge(...objects) returns a new object; later keys win", Execute: stdlibMerge})
	r.Register(Fn{Name: "get", Group: "object", Doc: "get(o, path) reads a dotted path, Null if absent", Execute: stdlibGet})
	r.Register(Fn{Name: "put", Group: "object", Doc: "put(o, path, v) writes a dotted path in place and returns o", Execute: stdlibPut})

	// Scope
	r.Register(Fn{Name: "defined", Group: "scope", Doc: "defined(name) returns 1 if name is visible to the caller", Execute: stdlibDefined})
	r.Register(Fn{Name: "lookup", Group: "scope", Doc: "lookup(name) returns the value bound to name in the caller's scope", Execute: stdlibLookup})
	r.Register(Fn{Name: "scope", Group: "scope", Doc: "scope() returns the caller's visible bindings as an object", Execute: stdlibScope})
}

// arg returns the i-th argument, or Null when it was not passed.
func arg(args []evaluator.Value, i int) evaluator.Value {
	if i < len(args) && args[i] != nil {
		return args[i]
	}
	return evaluator.NewNull()
}

func numberArg(fn string, args []evaluator.Value, i int) (float64, error) {
	n, ok := arg(args, i).(evaluator.Number)
	if !ok {
		return 0, fmt.Errorf("%s: argument %d must be a number, got %s", fn, i+1, evaluator.TypeName(arg(args, i)))
	}
	return n.Value, nil
}

func stringArg(fn string, args []evaluator.Value, i int) (string, error) {
	s, ok := arg(args, i).(evaluator.String)
	if !ok {
		return "", fmt.Errorf("%s: argument %d must be a string, got %s", fn, i+1, evaluator.TypeName(arg(args, i)))
	}
	return s.Value, nil
}

func objectArg(fn string, args []evaluator.Value, i int) (*evaluator.Object, error) {
	o, ok := arg(args, i).(*evaluator.Object)
	if !ok {
		return nil, fmt.Errorf("%s: argument %d must be an object, got %s", fn, i+1, evaluator.TypeName(arg(args, i)))
	}
	return o, nil
}

func boolValue(b bool) evaluator.Value {
	if b {
		return evaluator.NewNumber(1)
	}
	return evaluator.NewNumber(0)
}

// indexed builds the object form of a sequence: keys "0".."n-1".
func indexed(items []evaluator.Value) *evaluator.Object {
	obj := &evaluator.Object{Pairs: make([]evaluator.KeyValue, 0, len(items))}
	for i, item := range items {
		obj.Set(fmt.Sprint(i), item)
	}
	return obj
}

// typeof(v) → string
func stdlibTypeof(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	return evaluator.NewString(evaluator.TypeName(arg(args, 0))), nil
}

// str(v) → string
func stdlibStr(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	return evaluator.NewString(evaluator.ToText(arg(args, 0))), nil
}

// num(v) → number
func stdlibNum(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	return evaluator.NewNumber(evaluator.ToNumber(arg(args, 0))), nil
}

// len(v) → number of characters or properties
func stdlibLen(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	switch v := arg(args, 0).(type) {
	case evaluator.String:
		return evaluator.NewNumber(float64(utf8.RuneCountInString(v.Value))), nil
	case *evaluator.Object:
		return evaluator.NewNumber(float64(v.Len())), nil
	}
	return evaluator.NewNumber(0), nil
}

// eq(a, b) → 1 | 0
func stdlibEq(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	return boolValue(evaluator.DeepEqual(arg(args, 0), arg(args, 1))), nil
}
