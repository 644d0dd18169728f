package evaluator

import (
	"sort"

	"github.com/thomasrohde/walker/pkg/diagnostics"
)

type binding struct {
	value    Value
	constant bool
}

// Env is a scope frame for variable bindings.
// It supports parent-chained lookup for lexical scoping. A child only points
// at its parent, so a frame stays alive as long as any child frame or any
// Function closing over it does.
//
// Env is not safe for concurrent use.
type Env struct {
	bindings map[string]*binding
	parent   *Env
}

// NewEnv creates a new environment with an optional parent scope.
func NewEnv(parent *Env) *Env {
	return &Env{
		bindings: make(map[string]*binding),
		parent:   parent,
	}
}

// Child creates a new child scope whose parent is this environment.
func (e *Env) Child() *Env {
	return NewEnv(e)
}

// Parent returns the enclosing scope, or nil for a root environment.
func (e *Env) Parent() *Env {
	return e.parent
}

// Define binds name in this frame, replacing any binding of the same name in
// this frame. Bindings in enclosing frames are shadowed, not touched.
func (e *Env) Define(name string, val Value, constant bool) Value {
	e.bindings[name] = &binding{value: val, constant: constant}
	return val
}

// Assign updates the nearest binding of name in the scope chain.
func (e *Env) Assign(name string, val Value) (Value, error) {
	scope := e.resolve(name)
	if scope == nil {
		return nil, newError(diagnostics.EBinding, nil, "cannot assign to '%s': not defined", name)
	}
	b := scope.bindings[name]
	if b.constant {
		return nil, newError(diagnostics.EConstAssign, nil, "cannot assign to constant '%s'", name)
	}
	b.value = val
	return val, nil
}

// Lookup resolves name through the scope chain.
func (e *Env) Lookup(name string) (Value, error) {
	scope := e.resolve(name)
	if scope == nil {
		return nil, newError(diagnostics.EBinding, nil, "'%s' is not defined", name)
	}
	return scope.bindings[name].value, nil
}

// Get looks up a variable by name, traversing parent scopes.
func (e *Env) Get(name string) (Value, bool) {
	scope := e.resolve(name)
	if scope == nil {
		return nil, false
	}
	return scope.bindings[name].value, true
}

// Has checks whether a variable is defined in this scope or any parent.
func (e *Env) Has(name string) bool {
	return e.resolve(name) != nil
}

// IsConstant reports whether the nearest binding of name is constant.
func (e *Env) IsConstant(name string) bool {
	scope := e.resolve(name)
	return scope != nil && scope.bindings[name].constant
}

// Names returns the names bound directly in this frame, sorted.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.bindings))
	for name := range e.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Env) resolve(name string) *Env {
	for scope := e; scope != nil; scope = scope.parent {
		if _, ok := scope.bindings[name]; ok {
			return scope
		}
	}
	return nil
}
