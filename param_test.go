package vau

import "testing"

func TestBindParameterSimpleList(t *testing.T) {
	env := NewEnv(nil)
	formal := NewBranch(NewLeaf("a"), NewLeaf("b"))
	operand := NewBranch(NewHostTerm(int64(1)), NewHostTerm(int64(2)))

	if err := BindParameter(env, formal, operand); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, ok := env.Lookup("a")
	if !ok {
		t.Fatal("expected a to be bound")
	}
	if v, _ := a.AsHost(); v.(int64) != 1 {
		t.Errorf("a = %#v", a)
	}
	b, _ := env.Lookup("b")
	if v, _ := b.AsHost(); v.(int64) != 2 {
		t.Errorf("b = %#v", b)
	}
}

func TestBindParameterArityMismatch(t *testing.T) {
	env := NewEnv(nil)
	formal := NewBranch(NewLeaf("a"), NewLeaf("b"))
	operand := NewBranch(NewHostTerm(int64(1)))

	err := BindParameter(env, formal, operand)
	if err == nil {
		t.Fatal("expected an arity error")
	}
	se, ok := err.(*InvalidSyntaxError)
	if !ok {
		t.Fatalf("expected *InvalidSyntaxError wrapping *ArityMismatchError, got %T: %v", err, err)
	}
	if _, ok := se.Cause.(*ArityMismatchError); !ok {
		t.Fatalf("expected *ArityMismatchError as the cause, got %T: %v", se.Cause, se.Cause)
	}
}

func TestBindParameterRestCapturesTail(t *testing.T) {
	env := NewEnv(nil)
	formal := NewBranch(NewLeaf("a"), NewLeaf(".rest"))
	operand := NewBranch(NewHostTerm(int64(1)), NewHostTerm(int64(2)), NewHostTerm(int64(3)))

	if err := BindParameter(env, formal, operand); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rest, ok := env.Lookup("rest")
	if !ok {
		t.Fatal("expected rest to be bound")
	}
	if !rest.IsList() || len(rest.Container) != 2 {
		t.Fatalf("rest = %#v", rest)
	}
}

func TestBindParameterIgnoreDiscardsBinding(t *testing.T) {
	env := NewEnv(nil)
	formal := NewBranch(NewLeaf(IgnoreToken), NewLeaf("b"))
	operand := NewBranch(NewHostTerm(int64(1)), NewHostTerm(int64(2)))

	if err := BindParameter(env, formal, operand); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := env.Lookup(IgnoreToken); ok {
		t.Fatal("#ignore must never be bound")
	}
}

func TestBindParameterNonListOperandErrors(t *testing.T) {
	env := NewEnv(nil)
	formal := NewBranch(NewLeaf("a"), NewLeaf("b"))
	operand := NewHostTerm(int64(5))

	err := BindParameter(env, formal, operand)
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := err.(*ParameterMismatchError); !ok {
		t.Fatalf("expected *ParameterMismatchError, got %T: %v", err, err)
	}
}

func TestBindParameterInsufficientTermsForRest(t *testing.T) {
	env := NewEnv(nil)
	formal := NewBranch(NewLeaf("a"), NewLeaf("b"), NewLeaf(".rest"))
	operand := NewBranch(NewHostTerm(int64(1)))

	err := BindParameter(env, formal, operand)
	se, ok := err.(*InvalidSyntaxError)
	if !ok {
		t.Fatalf("expected *InvalidSyntaxError wrapping *InsufficientTermsError, got %T: %v", err, err)
	}
	if _, ok := se.Cause.(*InsufficientTermsError); !ok {
		t.Fatalf("expected *InsufficientTermsError as the cause, got %T: %v", se.Cause, se.Cause)
	}
}
