package vau

import "testing"

func evalString(t *testing.T, src string) *Term {
	t.Helper()
	rt := NewRuntime()
	result, err := rt.EvalSource(src)
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
	return result
}

func evalStringExpectErr(t *testing.T, src string) error {
	t.Helper()
	rt := NewRuntime()
	_, err := rt.EvalSource(src)
	if err == nil {
		t.Fatalf("eval %q: expected an error", src)
	}
	return err
}

func TestQuoteReturnsOperandUnevaluated(t *testing.T) {
	result := evalString(t, "(quote (a b c))")
	if got := Print(result); got != "(a b c)" {
		t.Errorf("got %q", got)
	}
}

func TestDefineAndLookup(t *testing.T) {
	result := evalString(t, "($sequence ($define! x 5) x)")
	v, ok := resolveValue(result).AsHost()
	if !ok || v.(int64) != 5 {
		t.Errorf("got %#v", result)
	}
}

func TestLambdaApplication(t *testing.T) {
	result := evalString(t, "($sequence ($define! add ($lambda (a b) (cons a (cons b ())))) (add 1 2))")
	if got := Print(result); got != "(1 2)" {
		t.Errorf("got %q", got)
	}
}

func TestIfTrueAndFalseBranches(t *testing.T) {
	if got := Print(evalString(t, "($if #t 1 2)")); got != "1" {
		t.Errorf("got %q", got)
	}
	if got := Print(evalString(t, "($if #f 1 2)")); got != "2" {
		t.Errorf("got %q", got)
	}
}

func TestVauOperativeSeesUnevaluatedOperands(t *testing.T) {
	result := evalString(t, "(($vau (x) #ignore x) (a b))")
	if got := Print(result); got != "(a b)" {
		t.Errorf("got %q", got)
	}
}

func TestWrapUnwrapRoundTrip(t *testing.T) {
	result := evalString(t, "($sequence ($define! f ($lambda (x) x)) ((wrap (unwrap f)) 9))")
	if got := Print(result); got != "9" {
		t.Errorf("got %q", got)
	}
}

func TestConsCarCdr(t *testing.T) {
	if got := Print(evalString(t, "(car (cons 1 (cons 2 ())))")); got != "1" {
		t.Errorf("got %q", got)
	}
	if got := Print(evalString(t, "(cdr (cons 1 (cons 2 ())))")); got != "(2)" {
		t.Errorf("got %q", got)
	}
}

func TestListAndListStar(t *testing.T) {
	if got := Print(evalString(t, "(list 1 2 3)")); got != "(1 2 3)" {
		t.Errorf("got %q", got)
	}
	if got := Print(evalString(t, "(list* 1 2 (list 3 4))")); got != "(1 2 3 4)" {
		t.Errorf("got %q", got)
	}
}

func TestEqAndNullAndPairPredicates(t *testing.T) {
	if got := Print(evalString(t, "(eq? 1 1)")); got != "#t" {
		t.Errorf("got %q", got)
	}
	if got := Print(evalString(t, "(null? ())")); got != "#t" {
		t.Errorf("got %q", got)
	}
	if got := Print(evalString(t, "(pair? (list 1))")); got != "#t" {
		t.Errorf("got %q", got)
	}
}

func TestOperativeAndApplicativePredicates(t *testing.T) {
	if got := Print(evalString(t, "(operative? $vau)")); got != "#t" {
		t.Errorf("got %q", got)
	}
	if got := Print(evalString(t, "(applicative? car)")); got != "#t" {
		t.Errorf("got %q", got)
	}
}

func TestUnboundIdentifierErrors(t *testing.T) {
	err := evalStringExpectErr(t, "nope")
	if _, ok := err.(*BadIdentifierError); !ok {
		t.Fatalf("expected *BadIdentifierError, got %T: %v", err, err)
	}
}

func TestApplyingNonCombinerErrors(t *testing.T) {
	err := evalStringExpectErr(t, "(5 6)")
	if _, ok := err.(*ListReductionFailureError); !ok {
		t.Fatalf("expected *ListReductionFailureError, got %T: %v", err, err)
	}
}

func TestEvalNativeRunsInCapturedEnvironment(t *testing.T) {
	result := evalString(t, "(($vau (x) env (eval (quote 1) env)) 0)")
	if got := Print(result); got != "1" {
		t.Errorf("got %q", got)
	}
}
