// Package evaluator implements the tree-walking runtime: values, lexical
// environments, and the recursive node dispatcher.
package evaluator

import (
	"github.com/thomasrohde/walker/pkg/ast"
)

// Value is the interface for all runtime values.
// Use the sealed marker method to restrict implementations to this package.
type Value interface {
	value() // sealed marker
}

// Null represents the absence of a value.
type Null struct{}

func (Null) value() {}

// Number represents a 64-bit floating point number.
type Number struct {
	Value float64
}

func (Number) value() {}

// String represents an immutable text value.
type String struct {
	Value string
}

func (String) value() {}

// KeyValue is a key-value pair in an object.
type KeyValue struct {
	Key   string
	Value Value
}

// Object is a mutable mapping of string keys to values. It is the only
// mutable value kind and is always handled by pointer so every holder sees
// in-place updates. Insertion order is kept for stable display only.
//
// Objects are not safe for concurrent use.
type Object struct {
	Pairs []KeyValue
	index map[string]int // lazy index for lookups
}

func (*Object) value() {}

// Function is a user-defined callable. Env is the scope active at the
// declaration site; calls run in a child of it.
type Function struct {
	Name       string
	Parameters []string
	Body       []ast.Stmt
	Env        *Env
}

func (*Function) value() {}

// NativeFunc is the calling contract for host-provided functions. env is the
// caller's environment and may be read or mutated.
type NativeFunc func(args []Value, env *Env) (Value, error)

// NativeFunction is a host-provided callable.
type NativeFunction struct {
	Name string
	Call NativeFunc
}

func (*NativeFunction) value() {}

// NewNull creates a null value.
func NewNull() Value {
	return Null{}
}

// NewNumber creates a numeric value.
func NewNumber(n float64) Value {
	return Number{Value: n}
}

// NewString creates a string value.
func NewString(s string) Value {
	return String{Value: s}
}

// NewObject creates an object from key-value pairs. Later duplicates
// overwrite earlier ones.
func NewObject(pairs ...KeyValue) *Object {
	obj := &Object{Pairs: make([]KeyValue, 0, len(pairs))}
	for _, kv := range pairs {
		obj.Set(kv.Key, kv.Value)
	}
	return obj
}

// NewNative wraps a Go function as a native function value.
func NewNative(name string, fn NativeFunc) *NativeFunction {
	return &NativeFunction{Name: name, Call: fn}
}

func (o *Object) ensureIndex() {
	if o.index == nil {
		o.index = make(map[string]int, len(o.Pairs))
		for i, kv := range o.Pairs {
			o.index[kv.Key] = i
		}
	}
}

// Get retrieves a value by key.
func (o *Object) Get(key string) (Value, bool) {
	o.ensureIndex()
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.Pairs[i].Value, true
}

// Set sets a value by key, keeping the original position of existing keys.
func (o *Object) Set(key string, val Value) {
	o.ensureIndex()
	if i, ok := o.index[key]; ok {
		o.Pairs[i].Value = val
		return
	}
	o.index[key] = len(o.Pairs)
	o.Pairs = append(o.Pairs, KeyValue{Key: key, Value: val})
}

// Delete removes a key. It reports whether the key was present.
func (o *Object) Delete(key string) bool {
	o.ensureIndex()
	i, ok := o.index[key]
	if !ok {
		return false
	}
	o.Pairs = append(o.Pairs[:i], o.Pairs[i+1:]...)
	o.index = nil
	return true
}

// Keys returns all keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.Pairs))
	for i, kv := range o.Pairs {
		keys[i] = kv.Key
	}
	return keys
}

// Len returns the number of properties.
func (o *Object) Len() int {
	return len(o.Pairs)
}

// TypeName returns the runtime type name of a value.
func TypeName(v Value) string {
	switch v.(type) {
	case Null:
		return "null"
	case Number:
		return "number"
	case String:
		return "string"
	case *Object:
		return "object"
	case *Function:
		return "function"
	case *NativeFunction:
		return "nativeFunction"
	default:
		return "unknown"
	}
}

// DeepEqual recursively compares two values. Functions compare by identity.
func DeepEqual(a, b Value) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok

	case Number:
		bv, ok := b.(Number)
		return ok && av.Value == bv.Value

	case String:
		bv, ok := b.(String)
		return ok && av.Value == bv.Value

	case *Object:
		bv, ok := b.(*Object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, kv := range av.Pairs {
			bVal, found := bv.Get(kv.Key)
			if !found || !DeepEqual(kv.Value, bVal) {
				return false
			}
		}
		return true

	case *Function:
		bv, ok := b.(*Function)
		return ok && av == bv

	case *NativeFunction:
		bv, ok := b.(*NativeFunction)
		return ok && av == bv
	}

	return false
}
