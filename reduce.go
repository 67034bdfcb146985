// reduce.go — the reduction engine: components D through G of the design
// (leaf reduction, branch reduction, combined-branch dispatch, ordered
// subterm evaluation), plus the public ReduceOnce dispatcher of §6.
package vau

import (
	"fmt"
	"unicode"
)

// ReduceOnce is the public entry point for reducing one term: it runs
// ctx's pluggable dispatch callable (ctx.ReduceOnce), defaulting to
// DefaultReduceOnce when none was installed.
func ReduceOnce(t *Term, env *Env, ctx *Context) ReductionStatus {
	if ctx.ReduceOnce != nil {
		return ctx.ReduceOnce(t, env, ctx)
	}
	return DefaultReduceOnce(t, env, ctx)
}

// DefaultReduceOnce selects ReduceLeaf when t's value slot is populated,
// else ReduceBranch.
func DefaultReduceOnce(t *Term, env *Env, ctx *Context) ReductionStatus {
	if t.kind != valueNone {
		return ReduceLeaf(t, env, ctx)
	}
	return ReduceBranch(t, env, ctx)
}

////////////////////////////////////////////////////////////////////////////////
//                              D. LEAF REDUCTION
////////////////////////////////////////////////////////////////////////////////

// EnsureLValueReference strips Unique from ref, enforcing the invariant
// that a reference stored through leaf resolution never carries Unique
// (spec.md §3's invariant list).
func EnsureLValueReference(ref TermReference) TermReference {
	return TermReference{Tags: GetLValueTagsOf(ref.Tags), Referent: ref.Referent, Home: ref.Home}
}

func hasNonSignChar(id string) bool {
	for _, r := range id {
		if r != '+' && r != '-' {
			return true
		}
	}
	return false
}

// ReduceLeaf resolves an identifier leaf against env, per §4.4.
func ReduceLeaf(t *Term, env *Env, ctx *Context) ReductionStatus {
	namePtr := TermToNamePtr(t)
	if namePtr == nil || *namePtr == "" {
		return Retained
	}
	id := *namePtr

	f := rune(id[0])
	if (len(id) > 1 && (f == '#' || f == '+' || f == '-') && hasNonSignChar(string(id))) || unicode.IsDigit(f) {
		if f != '#' {
			fail(&InvalidSyntaxError{Msg: fmt.Sprintf("Unsupported literal prefix found in literal '%s'.", id)})
		}
		fail(&InvalidSyntaxError{Msg: fmt.Sprintf("Invalid literal '%s' found.", id)})
	}

	bound, owner := Resolve(env, id)
	if bound == nil {
		fail(&BadIdentifierError{Name: id})
	}

	if ref, ok := bound.AsReference(); ok {
		t.SetReference(EnsureLValueReference(ref))
	} else {
		tags := owner.MakeTermTags(bound) &^ Unique
		t.SetReference(TermReference{Tags: tags, Referent: bound, Home: owner.Handle()})
	}
	return Neutral
}

////////////////////////////////////////////////////////////////////////////////
//                             E. BRANCH REDUCTION
////////////////////////////////////////////////////////////////////////////////

// ReduceBranch implements §4.5: singleton-spine collapse, empty-head
// elision, and scheduling of head evaluation followed by combined-branch
// dispatch.
func ReduceBranch(t *Term, env *Env, ctx *Context) ReductionStatus {
	if !t.IsBranch() {
		return Retained
	}

	if len(t.Container) == 1 {
		// Walk down the left spine while each intermediate has exactly one
		// child, to avoid unbounded scheduler growth on deeply nested
		// singletons like (((x))).
		cur := t.Container[0]
		for len(cur.Container) == 1 {
			cur = cur.Container[0]
		}
		t.Assign(cur)
		ctx.SetNextTermRef(t)
		ctx.SetupFront(func(c *Context) ReductionStatus {
			return ReduceOnce(t, env, c)
		})
		return Partial
	}

	if t.Container[0].IsEmpty() {
		t.Container = t.Container[1:]
	}

	ctx.SetNextTermRef(t)

	sub := t.Container[0]

	ctx.SetupFront(func(c *Context) ReductionStatus {
		c.SetNextTermRef(t)
		return ReduceCombinedBranch(t, env, c)
	})
	ctx.SetupFront(func(c *Context) ReductionStatus {
		return ReduceOnce(sub, env, c)
	})
	return Partial
}

////////////////////////////////////////////////////////////////////////////////
//                      F. COMBINED-BRANCH / COMBINER RETURN
////////////////////////////////////////////////////////////////////////////////

// ReduceCombinedBranch implements §4.6: resolve the head to a combiner and
// re-enter it, or raise ListReductionFailure.
func ReduceCombinedBranch(t *Term, env *Env, ctx *Context) ReductionStatus {
	fm := t.Container[0]

	if ref, ok := fm.AsReference(); ok {
		t.Tags &^= Temporary
		if h, ok := ref.Resolve().AsHandler(); ok {
			return combinerReturnThunk(h, t, env, ctx)
		}
	} else {
		t.Tags |= Temporary
		if h, ok := fm.AsHandler(); ok {
			return combinerReturnThunk(h, t, env, ctx)
		}
	}

	fail(&ListReductionFailureError{Operator: describeTerm(fm), Arity: len(t.Container) - 1})
	panic("unreachable")
}

func describeTerm(t *Term) string {
	if tok, ok := t.IsToken(); ok {
		return string(tok)
	}
	if t.IsBranch() {
		return "a combination"
	}
	return "a non-combiner value"
}

// combinerReturnThunk cooperates with the TCO action (§4.8): it clears the
// current term's value slot, records h as the attached/last function, sets
// the next-term pointer to t, and relays into a continuation invoking the
// handler with ctx. At most one owning argument is ever passed in the
// original collaborator's signature; here h always arrives already
// decoupled from its source term (Go interface values copy cheaply, so
// there is no separate borrow/move overload to enforce statically).
func combinerReturnThunk(h ContextHandler, t *Term, env *Env, ctx *Context) ReductionStatus {
	act := EnsureTCOAction(ctx, t)

	t.Clear()
	act.LastFunction = nil
	lf := act.AttachFunction(h)

	ctx.SetNextTermRef(t)
	return RelaySwitched(ctx, func(c *Context) ReductionStatus {
		return lf.Invoke(c, t, env)
	})
}

////////////////////////////////////////////////////////////////////////////////
//                           G. ORDERED SUBTERM EVALUATION
////////////////////////////////////////////////////////////////////////////////

// Unspecified is the value an empty $sequence reduces to.
var Unspecified = TokenValue("#inert")

// ReduceOrdered realizes left-to-right sequencing, §4.7.
func ReduceOrdered(t *Term, env *Env, ctx *Context) ReductionStatus {
	if t.IsBranch() {
		return reduceSequenceOrderedAsync(t, env, ctx, 0)
	}
	t.SetToken(Unspecified)
	return Retained
}

func reduceSequenceOrderedAsync(t *Term, env *Env, ctx *Context, i int) ReductionStatus {
	if i == len(t.Container)-1 {
		ctx.SetupFront(func(c *Context) ReductionStatus {
			t.Assign(t.Container[i])
			return ReduceOnce(t, env, c)
		})
		return Partial
	}

	ctx.SetupFront(func(c *Context) ReductionStatus {
		t.Container = append(t.Container[:i], t.Container[i+1:]...)
		return reduceSequenceOrderedAsync(t, env, c, i)
	})
	cur := t.Container[i]
	ctx.SetupFront(func(c *Context) ReductionStatus {
		return ReduceOnce(cur, env, c)
	})
	return Partial
}

// reduceChildrenOrderedAsync is the operand-list variant of ordered
// evaluation: it reduces children[first:last] in order, continuations
// scheduled tail-first so the reductions occur left to right.
func reduceChildrenOrderedAsync(children []*Term, first, last int, env *Env, ctx *Context) ReductionStatus {
	if first == last {
		return Retained
	}
	return reduceChildrenOrderedAsyncUnchecked(children, first, last, env, ctx)
}

func reduceChildrenOrderedAsyncUnchecked(children []*Term, first, last int, env *Env, ctx *Context) ReductionStatus {
	cur := children[first]
	next := first + 1

	if next < last {
		ctx.SetupFront(func(c *Context) ReductionStatus {
			return reduceChildrenOrderedAsync(children, next, last, env, c)
		})
	}
	ctx.SetupFront(func(c *Context) ReductionStatus {
		return ReduceOnce(cur, env, c)
	})
	return Partial
}

////////////////////////////////////////////////////////////////////////////////
//                    FormContextHandler — wrap/CallN (§4.7)
////////////////////////////////////////////////////////////////////////////////

// FormContextHandler adapts an underlying handler so that invoking it first
// forces n passes of left-to-right operand-list reduction (n=1 is the
// ordinary applicative "wrap"; n=0 recovers the bare operative). This
// permits wrap-style derivations that force evaluation an integer number of
// times, per §4.7.
type FormContextHandler struct {
	Under ContextHandler
}

// CallN evaluates operands n times before invoking the underlying handler.
// env is the caller's dynamic environment, threaded through rather than
// stored on f: a single wrap value is typically shared and may be invoked
// recursively or against several call sites, so per-call state must live
// in the call's own closures, not in mutable handler fields.
func (f *FormContextHandler) CallN(n int, t *Term, env *Env, ctx *Context) ReductionStatus {
	if n == 0 || len(t.Container) < 2 {
		ctx.SetNextTermRef(t)
		return f.Under.Invoke(ctx, t, env)
	}

	operands := t.Container[1:]
	ctx.SetupFront(func(c *Context) ReductionStatus {
		return f.CallN(n-1, t, env, c)
	})
	return reduceChildrenOrderedAsyncUnchecked(operands, 0, len(operands), env, ctx)
}

// Invoke makes FormContextHandler itself a ContextHandler with n=1 (the
// common "wrap" case): evaluate operands once, then invoke Under.
func (f *FormContextHandler) Invoke(ctx *Context, t *Term, env *Env) ReductionStatus {
	return f.CallN(1, t, env, ctx)
}
