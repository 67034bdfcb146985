package vau

import "testing"

func TestNewRuntimeChainsGlobalBeneathCore(t *testing.T) {
	rt := NewRuntime()
	if rt.Core == nil || rt.Global == nil {
		t.Fatal("expected non-nil Core and Global")
	}
	if !rt.Core.Frozen {
		t.Fatal("expected the core environment to be Frozen")
	}
	if rt.Global.Frozen {
		t.Fatal("expected Global to be mutable")
	}
	if _, ok := rt.Global.Lookup("car"); ok {
		t.Fatal("car should live in Core, not be redundantly copied into Global")
	}
	if _, env := Resolve(rt.Global, "car"); env != rt.Core {
		t.Fatal("expected car to resolve through to Core")
	}
}

func TestEvalSourceThreadsBindingsAcrossForms(t *testing.T) {
	rt := NewRuntime()
	result, err := rt.EvalSource("($define! x 10) (($lambda (y) (cons x (cons y ()))) 20)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Print(result); got != "(10 20)" {
		t.Errorf("got %q", got)
	}
}

func TestEvalSourceOfEmptyProgram(t *testing.T) {
	rt := NewRuntime()
	result, err := rt.EvalSource("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Print(result); got != string(Unspecified) {
		t.Errorf("got %q", got)
	}
}

func TestEvalSourcePropagatesParseErrors(t *testing.T) {
	rt := NewRuntime()
	_, err := rt.EvalSource("(a b")
	if err == nil {
		t.Fatal("expected a parse error")
	}
}
