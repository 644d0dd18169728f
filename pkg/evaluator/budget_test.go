package evaluator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/thomasrohde/walker/pkg/diagnostics"
	"github.com/thomasrohde/walker/pkg/evaluator"
)

func TestBudget_MaxCallDepth(t *testing.T) {
	opts := evaluator.ExecOptions{Budget: evaluator.Budget{MaxCallDepth: evaluator.Int64(10)}}
	res, err := execWith(t, opts, nil,
		fn("loop", nil, call(ident("loop"))),
		call(ident("loop")),
	)
	expectRuntimeError(t, err, diagnostics.EBudget)
	if !errors.Is(err, evaluator.ErrBudget) {
		t.Error("errors.Is(err, ErrBudget) = false")
	}
	if res == nil || res.Stats.MaxDepth != 10 {
		t.Errorf("stats = %+v, want MaxDepth 10", res)
	}
}

func TestBudget_DepthWithinLimit(t *testing.T) {
	opts := evaluator.ExecOptions{Budget: evaluator.Budget{MaxCallDepth: evaluator.Int64(3)}}
	res, err := execWith(t, opts, nil,
		fn("c", nil, num(3)),
		fn("b", nil, call(ident("c"))),
		fn("a", nil, call(ident("b"))),
		call(ident("a")),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectNumber(t, res.Value, 3)
	if res.Stats.Calls != 3 || res.Stats.MaxDepth != 3 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestBudget_TimeExceeded(t *testing.T) {
	opts := evaluator.ExecOptions{Budget: evaluator.Budget{TimeMs: evaluator.Int64(0)}}
	_, err := execWith(t, opts, nil, num(1))
	expectRuntimeError(t, err, diagnostics.EBudget)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := evaluator.Execute(ctx, prog(num(1)), nil, evaluator.ExecOptions{})
	expectRuntimeError(t, err, diagnostics.ECanceled)
	if !errors.Is(err, context.Canceled) {
		t.Error("cancellation cause not in error chain")
	}
}

func TestExecute_Stats(t *testing.T) {
	calls := 0
	env := evaluator.NewEnv(nil)
	env.Define("tick", counter(&calls), true)

	res, err := execWith(t, evaluator.ExecOptions{}, env,
		fn("f", nil, call(ident("tick")), call(ident("tick"))),
		call(ident("f")),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stats.Calls != 1 || res.Stats.NativeCalls != 2 {
		t.Errorf("stats = %+v, want 1 call and 2 native calls", res.Stats)
	}
	// two top-level statements plus two in the body
	if res.Stats.Statements != 4 {
		t.Errorf("statements = %d, want 4", res.Stats.Statements)
	}
}

func TestTrace_Events(t *testing.T) {
	var events []evaluator.TraceEvent
	opts := evaluator.ExecOptions{
		RunID: "run-1",
		Trace: func(ev evaluator.TraceEvent) { events = append(events, ev) },
	}
	calls := 0
	env := evaluator.NewEnv(nil)
	env.Define("tick", counter(&calls), true)

	_, err := execWith(t, opts, env,
		fn("f", []string{"x"}, call(ident("tick"), ident("x"))),
		call(ident("f"), num(1)),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []evaluator.TraceEventType{
		evaluator.TraceRunStart,
		evaluator.TraceFnCallStart,
		evaluator.TraceNativeCallStart,
		evaluator.TraceNativeCallEnd,
		evaluator.TraceFnCallEnd,
		evaluator.TraceRunEnd,
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(want), events)
	}
	for i, ev := range events {
		if ev.Event != want[i] {
			t.Errorf("event %d = %s, want %s", i, ev.Event, want[i])
		}
		if ev.RunID != "run-1" {
			t.Errorf("event %d runId = %q", i, ev.RunID)
		}
	}
	if events[1].Data["fn"] != "f" {
		t.Errorf("fn_call_start data = %v", events[1].Data)
	}
	if events[2].Data["native"] != "tick" {
		t.Errorf("native_call_start data = %v", events[2].Data)
	}
}

func TestTrace_BudgetExceeded(t *testing.T) {
	var last evaluator.TraceEvent
	opts := evaluator.ExecOptions{
		Budget: evaluator.Budget{MaxCallDepth: evaluator.Int64(1)},
		Trace:  func(ev evaluator.TraceEvent) { last = ev },
	}
	var seen bool
	inner := opts.Trace
	opts.Trace = func(ev evaluator.TraceEvent) {
		if ev.Event == evaluator.TraceBudgetExceeded {
			seen = true
		}
		inner(ev)
	}

	_, err := execWith(t, opts, nil,
		fn("a", nil, call(ident("a"))),
		call(ident("a")),
	)
	expectRuntimeError(t, err, diagnostics.EBudget)
	if !seen {
		t.Error("no budget_exceeded event")
	}
	if last.Event != evaluator.TraceRunEnd {
		t.Errorf("last event = %s, want run_end", last.Event)
	}
}

func TestEvaluateContext_Options(t *testing.T) {
	opts := evaluator.ExecOptions{Arity: evaluator.ArityStrict}
	env := evaluator.NewEnv(nil)
	_, err := evaluator.EvaluateContext(context.Background(), prog(
		fn("f", []string{"a"}),
		call(ident("f")),
	), env, opts)
	expectRuntimeError(t, err, diagnostics.EArity)
}
