package evaluator_test

import (
	"math"
	"testing"

	"github.com/thomasrohde/walker/pkg/evaluator"
)

func TestObjectOrderPreserved(t *testing.T) {
	o := evaluator.NewObject(
		evaluator.KeyValue{Key: "b", Value: evaluator.NewNumber(2)},
		evaluator.KeyValue{Key: "a", Value: evaluator.NewNumber(1)},
		evaluator.KeyValue{Key: "c", Value: evaluator.NewNumber(3)},
	)
	keys := o.Keys()
	want := []string{"b", "a", "c"}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("key %d = %q, want %q", i, keys[i], k)
		}
	}
}

func TestObjectGetSetDelete(t *testing.T) {
	o := evaluator.NewObject()
	o.Set("x", evaluator.NewNumber(1))
	o.Set("y", evaluator.NewNumber(2))
	o.Set("x", evaluator.NewNumber(10))

	if o.Keys()[0] != "x" {
		t.Errorf("overwrite moved key: %v", o.Keys())
	}
	x, _ := o.Get("x")
	expectNumber(t, x, 10)

	if !o.Delete("x") || o.Delete("x") {
		t.Error("Delete reported wrong presence")
	}
	if _, ok := o.Get("x"); ok {
		t.Error("x still present after delete")
	}
	y, ok := o.Get("y")
	if !ok {
		t.Fatal("y lost after delete")
	}
	expectNumber(t, y, 2)
	if o.Len() != 1 {
		t.Errorf("Len = %d, want 1", o.Len())
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		value evaluator.Value
		want  string
	}{
		{evaluator.NewNull(), "null"},
		{evaluator.NewNumber(1), "number"},
		{evaluator.NewString("s"), "string"},
		{evaluator.NewObject(), "object"},
		{&evaluator.Function{Name: "f"}, "function"},
		{evaluator.NewNative("n", nil), "nativeFunction"},
	}
	for _, tt := range tests {
		if got := evaluator.TypeName(tt.value); got != tt.want {
			t.Errorf("TypeName(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestDeepEqual(t *testing.T) {
	f := &evaluator.Function{Name: "f"}
	nested := func(n float64) evaluator.Value {
		return evaluator.NewObject(
			evaluator.KeyValue{Key: "a", Value: evaluator.NewNumber(n)},
			evaluator.KeyValue{Key: "b", Value: evaluator.NewObject(
				evaluator.KeyValue{Key: "c", Value: evaluator.NewString("x")},
			)},
		)
	}
	reordered := evaluator.NewObject(
		evaluator.KeyValue{Key: "b", Value: evaluator.NewObject(
			evaluator.KeyValue{Key: "c", Value: evaluator.NewString("x")},
		)},
		evaluator.KeyValue{Key: "a", Value: evaluator.NewNumber(1)},
	)

	tests := []struct {
		a, b evaluator.Value
		want bool
	}{
		{evaluator.NewNumber(1), evaluator.NewNumber(1), true},
		{evaluator.NewNumber(1), evaluator.NewString("1"), false},
		{evaluator.NewNull(), evaluator.NewNull(), true},
		{nested(1), nested(1), true},
		{nested(1), nested(2), false},
		{nested(1), reordered, true},
		{f, f, true},
		{f, &evaluator.Function{Name: "f"}, false},
		{evaluator.NewNumber(math.NaN()), evaluator.NewNumber(math.NaN()), false},
	}
	for i, tt := range tests {
		if got := evaluator.DeepEqual(tt.a, tt.b); got != tt.want {
			t.Errorf("case %d: DeepEqual = %v, want %v", i, got, tt.want)
		}
	}
}

func TestValueToJSON(t *testing.T) {
	o := evaluator.NewObject(
		evaluator.KeyValue{Key: "z", Value: evaluator.NewNumber(3)},
		evaluator.KeyValue{Key: "a", Value: evaluator.NewNumber(1.5)},
		evaluator.KeyValue{Key: "s", Value: evaluator.NewString("hi")},
		evaluator.KeyValue{Key: "n", Value: evaluator.NewNull()},
		evaluator.KeyValue{Key: "nan", Value: evaluator.NewNumber(math.NaN())},
		evaluator.KeyValue{Key: "f", Value: &evaluator.Function{Name: "go"}},
		evaluator.KeyValue{Key: "o", Value: evaluator.NewObject()},
	)
	want := `{"z":3,"a":1.5,"s":"hi","n":null,"nan":null,"f":"[function go]","o":{}}`
	if got := evaluator.ValueToJSONString(o); got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}
}

func TestParseJSONToValue(t *testing.T) {
	val, err := evaluator.ParseJSONToValue([]byte(`{"b": [10, "x"], "a": true, "c": false, "d": null}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o := expectObject(t, val)
	if keys := o.Keys(); len(keys) != 4 || keys[0] != "b" || keys[1] != "a" {
		t.Errorf("keys = %v, want [b a c d]", keys)
	}

	list, _ := o.Get("b")
	items := expectObject(t, list)
	first, _ := items.Get("0")
	second, _ := items.Get("1")
	expectNumber(t, first, 10)
	expectString(t, second, "x")

	a, _ := o.Get("a")
	c, _ := o.Get("c")
	d, _ := o.Get("d")
	expectNumber(t, a, 1)
	expectNumber(t, c, 0)
	expectNull(t, d)
}

func TestParseJSONToValue_Errors(t *testing.T) {
	for _, input := range []string{`{"a":`, `1 2`, ``} {
		if _, err := evaluator.ParseJSONToValue([]byte(input)); err == nil {
			t.Errorf("ParseJSONToValue(%q): expected error", input)
		}
	}
}

func TestValueToJSON_Cycle(t *testing.T) {
	o := evaluator.NewObject()
	o.Set("self", o)
	if _, err := evaluator.ValueToJSON(o); err == nil {
		t.Error("expected error for cyclic object")
	}

	shared := evaluator.NewObject()
	twice := evaluator.NewObject(
		evaluator.KeyValue{Key: "a", Value: shared},
		evaluator.KeyValue{Key: "b", Value: shared},
	)
	if got := evaluator.ValueToJSONString(twice); got != `{"a":{},"b":{}}` {
		t.Errorf("shared object: got %s", got)
	}
}
