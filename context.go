// context.go — the reduction trampoline contract of §4.2, plus the TCO
// action of §4.8.
//
// The concrete scheduling data structure behind the front-queue is declared
// an external collaborator by spec.md §1; this module supplies the concrete
// implementation a buildable repository needs, backed by
// github.com/edwingeng/deque (grounded on ninja-go/build.go's
// `finished_ deque.Deque` and ninja-go/graph.go's PushBack/PopFront usage —
// here used front-only, to get the LIFO order SetupFront requires).
package vau

import (
	"github.com/edwingeng/deque"
	abool "github.com/tevino/abool/v2"
)

// ReductionStatus is the outcome of one reduction step.
type ReductionStatus int

const (
	// Retained: the term is already fully reduced; no further work.
	Retained ReductionStatus = iota
	// Neutral: this step did its work and no further reduction of this
	// term is mandated, but the term was mutated in place.
	Neutral
	// Partial: more work was queued onto the front-queue; the trampoline
	// must keep draining it.
	Partial
	// Regular: a reduction occurred and the caller should keep reducing
	// (an immediate, non-queued continuation of work, as opposed to
	// Partial's queued continuation).
	Regular
)

func (s ReductionStatus) String() string {
	switch s {
	case Retained:
		return "Retained"
	case Neutral:
		return "Neutral"
	case Partial:
		return "Partial"
	case Regular:
		return "Regular"
	default:
		return "ReductionStatus(?)"
	}
}

// CheckReducible reports whether s mandates a further reduction step.
func CheckReducible(s ReductionStatus) bool {
	return s == Partial || s == Regular
}

// Continuation is a unit of deferred work pushed onto a Context's
// front-queue, or installed directly via RelaySwitched/RelayDirect.
type Continuation func(ctx *Context) ReductionStatus

// ContextHandler is the capability every combiner value satisfies: invoke
// it with a context, the term it heads, and the dynamic environment it was
// invoked in, get back a reduction status. Operatives, applicatives
// wrapping another handler, and native procedures are all just values
// implementing this one method (Design Note: Polymorphism of handlers).
//
// env is threaded explicitly for the same reason ReduceOnceFunc takes it:
// invocation needs the caller's dynamic environment (an operative's
// eformal binds exactly this), and a Go closure can capture it directly
// rather than keeping it as mutable Context state.
type ContextHandler interface {
	Invoke(ctx *Context, term *Term, env *Env) ReductionStatus
}

// FuncHandler adapts a plain function to ContextHandler, the idiom native
// combiners in combiner.go use (mirrors the teacher's NativeImpl pattern).
type FuncHandler func(ctx *Context, term *Term, env *Env) ReductionStatus

func (f FuncHandler) Invoke(ctx *Context, term *Term, env *Env) ReductionStatus { return f(ctx, term, env) }

// ReduceOnceFunc is the pluggable dispatch signature; Context.ReduceOnce
// defaults to DefaultReduceOnce.
//
// The environment is threaded explicitly as a parameter rather than kept as
// hidden mutable state on Context (the original collaborator this core was
// adapted from keeps a "current record" pointer on its Context and
// switches it in place). A trampoline's continuations are Go closures, so
// each one can simply capture the *Env it needs directly; that is more
// robust than save/restore bookkeeping across queue hops and is the
// idiomatic Go shape (explicit data over ambient mutable state).
type ReduceOnceFunc func(t *Term, env *Env, ctx *Context) ReductionStatus

// Context is the per-evaluation state described in spec.md §3.
type Context struct {
	// ReduceOnce is the pluggable dispatch callable. Nil means
	// DefaultReduceOnce.
	ReduceOnce ReduceOnceFunc

	// NextTerm is the term the next continuation will operate on.
	NextTerm *Term

	// LastStatus is the most recent reduction's status.
	LastStatus ReductionStatus

	// Strict upgrades the quiet-discard case of §9/§13 (a sigil-stripped
	// formal whose stripped name is empty) from silent to a recorded
	// diagnostic.
	Strict bool
	// Diagnostics accumulates strict-mode warnings; never errors.
	Diagnostics []string

	queue   deque.Deque
	running *abool.AtomicBool
	tco     *TCOAction
}

// NewContext returns a ready-to-run Context with an empty front-queue.
func NewContext() *Context {
	return &Context{queue: deque.NewDeque(), running: abool.NewBool(false)}
}

// SetupFront enqueues a continuation at the head of the queue, giving LIFO
// execution: the last continuation scheduled via SetupFront runs first.
func (ctx *Context) SetupFront(f Continuation) {
	ctx.queue.PushFront(f)
}

// SetNextTermRef declares the term the next continuation will operate on.
func (ctx *Context) SetNextTermRef(t *Term) {
	ctx.NextTerm = t
}

// RelaySwitched installs k as a front-queued, tail-position continuation
// and returns Partial: the caller's own stack frame unwinds immediately,
// and k runs on a later trampoline turn rather than being called inline.
// This, not a direct call, is what keeps a chain of tail calls (the whole
// point of the TCO action in §4.8) from growing the host call stack —
// SetupFront/RelaySwitched are both genuine suspension points (§5).
func RelaySwitched(ctx *Context, k Continuation) ReductionStatus {
	ctx.SetupFront(k)
	return Partial
}

// RelayDirect is RelaySwitched after first pointing NextTerm at t.
func RelayDirect(ctx *Context, k Continuation, t *Term) ReductionStatus {
	ctx.SetNextTermRef(t)
	return RelaySwitched(ctx, k)
}

// Run drives the trampoline to completion starting at root in env: it
// performs the first reduction step, then drains the front-queue
// (continuations may enqueue more continuations) until the queue is empty,
// whatever the last status reports. A single Context
// must not be driven by two goroutines concurrently; Run asserts this with
// an atomic guard rather than silently racing (§5: "single-threaded within
// one context").
func (ctx *Context) Run(root *Term, env *Env) (status ReductionStatus, err error) {
	if !ctx.running.SetToIf(false, true) {
		panic("vau: Context.Run called reentrantly on a single-threaded context")
	}
	defer ctx.running.UnSet()
	defer func() {
		if r := recover(); r != nil {
			err = recoverRtErr(r)
		}
	}()

	ctx.SetNextTermRef(root)
	ctx.LastStatus = ReduceOnce(root, env, ctx)
	// The queue, not LastStatus, drives termination: a continuation that
	// schedules further work is responsible for that work running to
	// completion even if some intermediate step along the way reports a
	// terminal status for its own subterm (e.g. the last operand in an
	// operand list is already fully reduced while earlier siblings still
	// have queued continuations pending).
	for !ctx.queue.Empty() {
		v := ctx.queue.Front()
		ctx.queue.PopFront()
		cont := v.(Continuation)
		ctx.LastStatus = cont(ctx)
	}
	return ctx.LastStatus, nil
}

// Warn records a strict-mode diagnostic. Outside Strict mode it is a no-op,
// matching the quiet-discard default spec.md §9 observes in the source this
// core was adapted from (see SPEC_FULL.md §13 and DESIGN.md for the decision
// record).
func (ctx *Context) Warn(msg string) {
	if ctx.Strict {
		ctx.Diagnostics = append(ctx.Diagnostics, msg)
	}
}

////////////////////////////////////////////////////////////////////////////////
//                                TCO ACTION
////////////////////////////////////////////////////////////////////////////////

// TCOAction is the concrete tail-call action §4.8 declares an external
// contract. One is lazily attached per Context.
type TCOAction struct {
	// LastFunction is reset to nil per combiner entry by
	// CombinerReturnThunk, then set by AttachFunction.
	LastFunction ContextHandler
}

// AttachFunction retains h for the duration of the current tail call and
// records it as LastFunction, then returns it.
func (a *TCOAction) AttachFunction(h ContextHandler) ContextHandler {
	a.LastFunction = h
	return h
}

// EnsureTCOAction returns ctx's active TCO action, creating it on first use.
// term is accepted for symmetry with the original collaborator's signature
// (a per-term action table is a valid alternative implementation; this one
// uses a single per-context action, since terms are reduced one at a time
// within a context per §5).
func EnsureTCOAction(ctx *Context, _ *Term) *TCOAction {
	if ctx.tco == nil {
		ctx.tco = &TCOAction{}
	}
	return ctx.tco
}
