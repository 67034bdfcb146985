// combiner.go — the built-in combiner library: §1's "built-in combiner
// library" collaborator, concretized with the minimal set needed to
// exercise and test the reduction core end-to-end ($vau, $lambda,
// wrap/unwrap, $if, $sequence, $define!, eval, and the structural/
// predicate natives over terms). Grounded on the teacher's
// builtin_core.go register-by-name idiom: one function, one registration
// call, one short doc comment per native.
package vau

// Operative is the one irreducible primitive combiner: invoking it binds
// formals against the unevaluated operand tree, binds eformal (if not
// #ignore) to the calling dynamic environment, and reduces a fresh copy of
// body in a new environment child of closureEnv. Every other combiner in
// this file is definable in terms of $vau (as in Kernel) and is provided
// directly only for efficiency, the same tradeoff the teacher makes for
// natives that are technically expressible in the language itself.
type Operative struct {
	formals     *Term
	eformalName TokenValue
	body        *Term
	closureEnv  *Env
}

// Invoke implements ContextHandler for Operative.
func (op *Operative) Invoke(ctx *Context, t *Term, env *Env) ReductionStatus {
	callEnv := NewEnv(op.closureEnv)

	operandsTerm := NewBranch(t.Container[1:]...)
	if err := BindParameterInContext(ctx, callEnv, op.formals, operandsTerm); err != nil {
		fail(err)
	}
	if op.eformalName != "" && op.eformalName != IgnoreToken {
		callEnv.Bind(op.eformalName, newEnvTerm(env))
	}

	// body is a per-invocation deep copy: reduction mutates terms in
	// place, and op.body is reused across every call to this operative.
	t.Assign(op.body.CopyDeep())
	return ReduceOnce(t, callEnv, ctx)
}

////////////////////////////////////////////////////////////////////////////////
//                         ENVIRONMENT-AS-VALUE, HELPERS
////////////////////////////////////////////////////////////////////////////////

// envValue is the host payload backing a first-class environment value, as
// produced by $vau's eformal binding and consumed by eval's second operand.
type envValue struct{ env *Env }

func newEnvTerm(e *Env) *Term { return NewHostTerm(&envValue{env: e}) }

func asEnvTerm(t *Term) (*Env, bool) {
	if h, ok := t.AsHost(); ok {
		if ev, ok := h.(*envValue); ok {
			return ev.env, true
		}
	}
	return nil, false
}

// resolveValue follows t through a surrounding reference, returning the
// term that actually carries the value. Used throughout the structural
// natives below, since an evaluated operand is commonly a reference into
// an environment binding rather than the value itself.
func resolveValue(t *Term) *Term {
	if ref, ok := t.AsReference(); ok {
		return ref.Resolve()
	}
	return t
}

func boolTerm(b bool) *Term { return NewHostTerm(b) }

func isTruthy(t *Term) bool {
	v := resolveValue(t)
	if h, ok := v.AsHost(); ok {
		if b, ok := h.(bool); ok {
			return b
		}
	}
	return true
}

// sameValue implements eq?'s identity comparison: same underlying Term,
// equal interned token, equal host scalar, or both the empty list.
func sameValue(a, b *Term) bool {
	av, bv := resolveValue(a), resolveValue(b)
	if av == bv {
		return true
	}
	if at, ok := av.IsToken(); ok {
		if bt, ok := bv.IsToken(); ok {
			return at == bt
		}
		return false
	}
	if ah, ok := av.AsHost(); ok {
		if bh, ok := bv.AsHost(); ok {
			return ah == bh
		}
		return false
	}
	if av.IsList() && bv.IsList() {
		return len(av.Container) == 0 && len(bv.Container) == 0
	}
	return false
}

func requireArity(t *Term, n int) []*Term {
	operands := t.Container[1:]
	if len(operands) != n {
		fail(&ArityMismatchError{Expected: n, Got: len(operands)})
	}
	return operands
}

////////////////////////////////////////////////////////////////////////////////
//                                CORE PRELUDE
////////////////////////////////////////////////////////////////////////////////

// NewCoreEnv builds a fresh, Frozen environment bound with every native
// combiner this expansion supplies. runtime.go chains a mutable global
// environment beneath it, mirroring the teacher's Core/Global split.
func NewCoreEnv() *Env {
	core := NewEnv(nil)
	core.Frozen = true

	bindNative := func(name TokenValue, h ContextHandler) {
		core.Bind(name, NewHandlerTerm(h))
	}
	bindApplicative := func(name TokenValue, fn func(ctx *Context, t *Term, env *Env) ReductionStatus) {
		bindNative(name, &FormContextHandler{Under: FuncHandler(fn)})
	}

	bindNative("$vau", FuncHandler(vauOperative))
	bindNative("$lambda", FuncHandler(lambdaOperative))
	bindNative("$if", FuncHandler(ifOperative))
	bindNative("$sequence", FuncHandler(sequenceOperative))
	bindNative("$define!", FuncHandler(defineOperative))
	bindNative("wrap", &FormContextHandler{Under: FuncHandler(wrapNative)})
	bindNative("unwrap", &FormContextHandler{Under: FuncHandler(unwrapNative)})
	bindNative("eval", &FormContextHandler{Under: FuncHandler(evalNative)})
	bindNative("quote", &Operative{
		formals:     NewBranch(NewLeaf("x")),
		eformalName: IgnoreToken,
		body:        NewLeaf("x"),
		closureEnv:  core,
	})

	bindApplicative("cons", consNative)
	bindApplicative("car", carNative)
	bindApplicative("cdr", cdrNative)
	bindApplicative("list", listNative)
	bindApplicative("list*", listStarNative)
	bindApplicative("eq?", eqNative)
	bindApplicative("null?", nullNative)
	bindApplicative("pair?", pairNative)
	bindApplicative("symbol?", symbolNative)
	bindApplicative("operative?", operativeNative)
	bindApplicative("applicative?", applicativeNative)

	return core
}

////////////////////////////////////////////////////////////////////////////////
//                          OPERATIVES ($vau, $if, …)
////////////////////////////////////////////////////////////////////////////////

// vauOperative implements ($vau formals eformal body): constructs and
// returns a new Operative closing over the defining environment.
func vauOperative(ctx *Context, t *Term, env *Env) ReductionStatus {
	operands := requireArity(t, 3)
	formals, eformalTerm, body := operands[0], operands[1], operands[2]

	eformalName := IgnoreToken
	if tok, ok := eformalTerm.IsToken(); ok {
		eformalName = tok
	} else {
		fail(&FormalParameterTypeError{Msg: "the dynamic-environment formal of $vau must be a symbol or #ignore"})
	}

	op := &Operative{formals: formals, eformalName: eformalName, body: body, closureEnv: env}
	t.Assign(NewHandlerTerm(op))
	return Retained
}

// lambdaOperative implements ($lambda formals body) as sugar for
// (wrap ($vau formals #ignore body)), inlined directly rather than
// meta-evaluating the expansion.
func lambdaOperative(ctx *Context, t *Term, env *Env) ReductionStatus {
	operands := requireArity(t, 2)
	formals, body := operands[0], operands[1]

	op := &Operative{formals: formals, eformalName: IgnoreToken, body: body, closureEnv: env}
	t.Assign(NewHandlerTerm(&FormContextHandler{Under: op}))
	return Retained
}

// ifOperative implements ($if test then else): evaluates test, then
// tail-reduces whichever branch it selects.
func ifOperative(ctx *Context, t *Term, env *Env) ReductionStatus {
	operands := requireArity(t, 3)
	test, then, els := operands[0], operands[1], operands[2]

	ctx.SetupFront(func(c *Context) ReductionStatus {
		branch := then
		if !isTruthy(test) {
			branch = els
		}
		t.Assign(branch)
		return ReduceOnce(t, env, c)
	})
	return ReduceOnce(test, env, ctx)
}

// sequenceOperative implements ($sequence expr...) as a thin wrapper over
// ReduceOrdered.
func sequenceOperative(ctx *Context, t *Term, env *Env) ReductionStatus {
	t.Assign(NewBranch(t.Container[1:]...))
	return ReduceOrdered(t, env, ctx)
}

// defineOperative implements ($define! formal expr): evaluates expr, then
// binds it into the dynamic environment via the same parameter binder a
// combiner invocation uses, so sigils work identically in both places.
func defineOperative(ctx *Context, t *Term, env *Env) ReductionStatus {
	operands := requireArity(t, 2)
	formal, expr := operands[0], operands[1]

	ctx.SetupFront(func(c *Context) ReductionStatus {
		if err := BindParameterInContext(c, env, formal, expr); err != nil {
			fail(err)
		}
		t.SetToken(Unspecified)
		return Retained
	})
	return ReduceOnce(expr, env, ctx)
}

////////////////////////////////////////////////////////////////////////////////
//                       APPLICATIVES (wrap, unwrap, eval)
////////////////////////////////////////////////////////////////////////////////

// wrapNative implements wrap's already-evaluated-operand body: given a
// combiner, return an applicative that forces its own operands once before
// invoking it.
func wrapNative(ctx *Context, t *Term, env *Env) ReductionStatus {
	operands := requireArity(t, 1)
	h, ok := resolveValue(operands[0]).AsHandler()
	if !ok {
		fail(&FormalParameterTypeError{Msg: "wrap's operand must be a combiner"})
	}
	t.Assign(NewHandlerTerm(&FormContextHandler{Under: h}))
	return Retained
}

// unwrapNative recovers the underlying operative from an applicative.
func unwrapNative(ctx *Context, t *Term, env *Env) ReductionStatus {
	operands := requireArity(t, 1)
	h, ok := resolveValue(operands[0]).AsHandler()
	if !ok {
		fail(&FormalParameterTypeError{Msg: "unwrap's operand must be a combiner"})
	}
	form, ok := h.(*FormContextHandler)
	if !ok {
		fail(&ParameterMismatchError{Msg: "unwrap's operand is already an operative"})
	}
	t.Assign(NewHandlerTerm(form.Under))
	return Retained
}

// evalNative implements (eval expr env): reduces a fresh copy of expr's
// (already-evaluated) value in the environment named by env.
func evalNative(ctx *Context, t *Term, env *Env) ReductionStatus {
	operands := requireArity(t, 2)
	exprVal := resolveValue(operands[0])
	targetEnv, ok := asEnvTerm(resolveValue(operands[1]))
	if !ok {
		fail(&FormalParameterTypeError{Msg: "eval's second operand must be an environment"})
	}
	t.Assign(exprVal.CopyDeep())
	return ReduceOnce(t, targetEnv, ctx)
}

////////////////////////////////////////////////////////////////////////////////
//                     STRUCTURAL / PREDICATE NATIVES
////////////////////////////////////////////////////////////////////////////////

// consNative implements (cons a lst): prepend a onto lst's children.
func consNative(ctx *Context, t *Term, env *Env) ReductionStatus {
	operands := requireArity(t, 2)
	head, tail := operands[0], resolveValue(operands[1])
	if !tail.IsList() {
		fail(&ParameterMismatchError{Msg: "cons's second operand must be a list"})
	}
	children := append([]*Term{head}, tail.Container...)
	result := NewBranch(children...)
	result.Tags |= Temporary
	t.Assign(result)
	return Retained
}

// carNative implements (car lst): the first element.
func carNative(ctx *Context, t *Term, env *Env) ReductionStatus {
	operands := requireArity(t, 1)
	lst := resolveValue(operands[0])
	if !lst.IsList() || len(lst.Container) == 0 {
		fail(&ParameterMismatchError{Msg: "car's operand must be a non-empty list"})
	}
	t.Assign(lst.Container[0])
	return Retained
}

// cdrNative implements (cdr lst): every element but the first.
func cdrNative(ctx *Context, t *Term, env *Env) ReductionStatus {
	operands := requireArity(t, 1)
	lst := resolveValue(operands[0])
	if !lst.IsList() || len(lst.Container) == 0 {
		fail(&ParameterMismatchError{Msg: "cdr's operand must be a non-empty list"})
	}
	result := NewBranch(lst.Container[1:]...)
	result.Tags |= Temporary
	t.Assign(result)
	return Retained
}

// listNative implements (list a b ...): its own already-evaluated operand
// list, returned as-is.
func listNative(ctx *Context, t *Term, env *Env) ReductionStatus {
	result := NewBranch(t.Container[1:]...)
	result.Tags |= Temporary
	t.Assign(result)
	return Retained
}

// listStarNative implements (list* a b ... lst): like list, but the last
// operand must be a list and is spliced rather than appended as an element.
func listStarNative(ctx *Context, t *Term, env *Env) ReductionStatus {
	operands := t.Container[1:]
	if len(operands) == 0 {
		fail(&ArityMismatchError{Expected: 1, Got: 0})
	}
	tail := resolveValue(operands[len(operands)-1])
	if !tail.IsList() {
		fail(&ParameterMismatchError{Msg: "list*'s final operand must be a list"})
	}
	children := append([]*Term{}, operands[:len(operands)-1]...)
	children = append(children, tail.Container...)
	result := NewBranch(children...)
	result.Tags |= Temporary
	t.Assign(result)
	return Retained
}

func eqNative(ctx *Context, t *Term, env *Env) ReductionStatus {
	operands := requireArity(t, 2)
	t.Assign(boolTerm(sameValue(operands[0], operands[1])))
	return Retained
}

func nullNative(ctx *Context, t *Term, env *Env) ReductionStatus {
	operands := requireArity(t, 1)
	v := resolveValue(operands[0])
	t.Assign(boolTerm(v.IsList() && len(v.Container) == 0))
	return Retained
}

func pairNative(ctx *Context, t *Term, env *Env) ReductionStatus {
	operands := requireArity(t, 1)
	v := resolveValue(operands[0])
	t.Assign(boolTerm(v.IsList() && len(v.Container) > 0))
	return Retained
}

func symbolNative(ctx *Context, t *Term, env *Env) ReductionStatus {
	operands := requireArity(t, 1)
	_, ok := resolveValue(operands[0]).IsToken()
	t.Assign(boolTerm(ok))
	return Retained
}

func operativeNative(ctx *Context, t *Term, env *Env) ReductionStatus {
	operands := requireArity(t, 1)
	h, ok := resolveValue(operands[0]).AsHandler()
	if !ok {
		t.Assign(boolTerm(false))
		return Retained
	}
	_, isApplicative := h.(*FormContextHandler)
	t.Assign(boolTerm(!isApplicative))
	return Retained
}

func applicativeNative(ctx *Context, t *Term, env *Env) ReductionStatus {
	operands := requireArity(t, 1)
	h, ok := resolveValue(operands[0]).AsHandler()
	if !ok {
		t.Assign(boolTerm(false))
		return Retained
	}
	_, isApplicative := h.(*FormContextHandler)
	t.Assign(boolTerm(isApplicative))
	return Retained
}
