package evaluator_test

import (
	"errors"
	"testing"

	"github.com/thomasrohde/walker/pkg/diagnostics"
	"github.com/thomasrohde/walker/pkg/evaluator"
)

func TestEnv_DefineAndLookup(t *testing.T) {
	env := evaluator.NewEnv(nil)
	got := env.Define("x", evaluator.NewNumber(1), false)
	expectNumber(t, got, 1)

	val, err := env.Lookup("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectNumber(t, val, 1)
}

func TestEnv_LookupWalksParents(t *testing.T) {
	root := evaluator.NewEnv(nil)
	root.Define("x", evaluator.NewString("root"), false)
	leaf := root.Child().Child().Child()

	val, err := leaf.Lookup("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectString(t, val, "root")
}

func TestEnv_ShadowingLeavesParentIntact(t *testing.T) {
	root := evaluator.NewEnv(nil)
	root.Define("x", evaluator.NewNumber(1), false)
	child := root.Child()
	child.Define("x", evaluator.NewNumber(2), false)

	inner, _ := child.Lookup("x")
	outer, _ := root.Lookup("x")
	expectNumber(t, inner, 2)
	expectNumber(t, outer, 1)
}

func TestEnv_UnboundAtEveryDepth(t *testing.T) {
	env := evaluator.NewEnv(nil)
	for depth := 0; depth < 5; depth++ {
		if _, err := env.Lookup("nowhere"); !errors.Is(err, evaluator.ErrBinding) {
			t.Errorf("depth %d: err = %v, want ErrBinding", depth, err)
		}
		env = env.Child()
	}
}

func TestEnv_AssignUpdatesNearestFrame(t *testing.T) {
	root := evaluator.NewEnv(nil)
	root.Define("x", evaluator.NewNumber(1), false)
	mid := root.Child()
	mid.Define("x", evaluator.NewNumber(2), false)
	leaf := mid.Child()

	if _, err := leaf.Assign("x", evaluator.NewNumber(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	midVal, _ := mid.Lookup("x")
	rootVal, _ := root.Lookup("x")
	expectNumber(t, midVal, 3)
	expectNumber(t, rootVal, 1)
	if len(leaf.Names()) != 0 {
		t.Errorf("assign created a local binding: %v", leaf.Names())
	}
}

func TestEnv_AssignUnbound(t *testing.T) {
	_, err := evaluator.NewEnv(nil).Child().Assign("x", evaluator.NewNull())
	expectRuntimeError(t, err, diagnostics.EBinding)
}

func TestEnv_AssignConstant(t *testing.T) {
	root := evaluator.NewEnv(nil)
	root.Define("k", evaluator.NewNumber(1), true)

	_, err := root.Child().Assign("k", evaluator.NewNumber(2))
	expectRuntimeError(t, err, diagnostics.EConstAssign)

	val, _ := root.Lookup("k")
	expectNumber(t, val, 1)
	if !root.IsConstant("k") {
		t.Error("IsConstant(k) = false")
	}
}

func TestEnv_RedefineConstantInSameFrame(t *testing.T) {
	env := evaluator.NewEnv(nil)
	env.Define("k", evaluator.NewNumber(1), true)
	env.Define("k", evaluator.NewNumber(2), false)

	if env.IsConstant("k") {
		t.Error("redefinition should replace the constant flag")
	}
	if _, err := env.Assign("k", evaluator.NewNumber(3)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEnv_GetHasNames(t *testing.T) {
	root := evaluator.NewEnv(nil)
	root.Define("b", evaluator.NewNull(), false)
	root.Define("a", evaluator.NewNull(), false)
	child := root.Child()

	if _, ok := child.Get("a"); !ok {
		t.Error("Get(a) through parent failed")
	}
	if _, ok := child.Get("zzz"); ok {
		t.Error("Get(zzz) should fail")
	}
	if !child.Has("b") || child.Has("c") {
		t.Error("Has reported wrong result")
	}
	if names := root.Names(); len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names() = %v, want [a b]", names)
	}
	if child.Parent() != root || root.Parent() != nil {
		t.Error("Parent links wrong")
	}
}
