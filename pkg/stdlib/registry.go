// Package stdlib provides the native function library installed into the
// root environment of a run.
package stdlib

import (
	"io"
	"os"
	"sort"
	"time"

	"github.com/thomasrohde/walker/pkg/evaluator"
)

// Fn represents a native library function.
type Fn struct {
	Name    string
	Group   string
	Doc     string
	Execute evaluator.NativeFunc
}

// Registry holds registered native functions and the host resources they
// reach: the writer behind print and the clock behind now.
type Registry struct {
	fns   map[string]*Fn
	out   io.Writer
	clock func() time.Time
}

// NewRegistry creates a new empty registry writing to stdout.
func NewRegistry() *Registry {
	return &Registry{
		fns:   make(map[string]*Fn),
		out:   os.Stdout,
		clock: time.Now,
	}
}

// SetOutput redirects print.
func (r *Registry) SetOutput(w io.Writer) {
	r.out = w
}

// SetClock replaces the clock used by now.
func (r *Registry) SetClock(clock func() time.Time) {
	r.clock = clock
}

// Register adds a function to the registry, replacing one of the same name.
func (r *Registry) Register(fn Fn) {
	r.fns[fn.Name] = &fn
}

// Get retrieves a function by name.
func (r *Registry) Get(name string) *Fn {
	return r.fns[name]
}

// All returns all registered functions.
func (r *Registry) All() map[string]*Fn {
	return r.fns
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Groups returns the registered functions keyed by group, each list sorted by
// name.
func (r *Registry) Groups() map[string][]*Fn {
	groups := make(map[string][]*Fn)
	for _, name := range r.Names() {
		fn := r.fns[name]
		groups[fn.Group] = append(groups[fn.Group], fn)
	}
	return groups
}

// Install defines every function accepted by allow as a constant native in
// env and returns how many were installed. A nil allow installs everything.
func (r *Registry) Install(env *evaluator.Env, allow func(Fn) bool) int {
	n := 0
	for _, name := range r.Names() {
		fn := r.fns[name]
		if allow != nil && !allow(*fn) {
			continue
		}
		env.Define(fn.Name, evaluator.NewNative(fn.Name, fn.Execute), true)
		n++
	}
	return n
}
