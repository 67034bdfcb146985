// param.go — the parameter matcher (components H) and binder (I) of §4.9,
// §4.10, and §4.11: walking a formal-parameter tree against an operand
// tree and binding names under sigil-controlled reference/ownership rules.
package vau

import (
	"fmt"
	"strings"
)

// paramMatcher is GParameterMatcher, parameterized at construction time by
// checked (a traits toggle, rather than a pair of generic strategy types:
// Go's interfaces make the two traits just a bool-guarded recover) rather
// than a compile-time strategy split.
type paramMatcher struct {
	env     *Env
	ctx     *Context // nil unless a caller wants strict-mode diagnostics
	checked bool

	// queue is the FIFO thunk chain Match drains instead of recursing
	// directly into subterm lists, bounding host-stack usage to O(1) in
	// the depth of the formal tree.
	queue []func()

	hasReferenceArg bool
}

func (m *paramMatcher) enqueue(job func()) { m.queue = append(m.queue, job) }

func (m *paramMatcher) drain() {
	for len(m.queue) > 0 {
		job := m.queue[0]
		m.queue = m.queue[1:]
		job()
	}
}

func (m *paramMatcher) warn(msg string) {
	if m.ctx != nil {
		m.ctx.Warn(msg)
	}
}

////////////////////////////////////////////////////////////////////////////////
//                                  ENTRY POINTS
////////////////////////////////////////////////////////////////////////////////

// BindParameter is the checked entry point of §6's external-interface
// table: it matches formal against operand and populates env, returning a
// *ParameterMismatchError, or any other mismatch nested inside an
// *InvalidSyntaxError naming the failing parameter tree.
func BindParameter(env *Env, formal, operand *Term) error {
	return bindParameterImpl(env, nil, true, formal, operand)
}

// BindParameterInContext is BindParameter with ctx supplied, so that the
// empty-after-sigil-stripping case (§9/§13's open question; decided as
// quiet discard by default) surfaces a diagnostic when ctx.Strict is set.
// Combiners that already have a Context on hand ($vau, $lambda, $define!)
// use this instead of the bare BindParameter.
func BindParameterInContext(ctx *Context, env *Env, formal, operand *Term) error {
	return bindParameterImpl(env, ctx, true, formal, operand)
}

// BindParameterWellFormed is the unchecked variant: it asserts instead of
// raising a Go error, for use once a formal tree is known pre-validated
// (e.g. it was already accepted once by BindParameter and is being
// re-applied). A panic escaping this call is a genuine bug, not a modeled
// failure, and is left uncaught.
func BindParameterWellFormed(env *Env, formal, operand *Term) {
	m := &paramMatcher{env: env, checked: false}
	m.enqueue(func() { m.match(formal, operand, Temporary, nil) })
	m.drain()
}

func bindParameterImpl(env *Env, ctx *Context, checked bool, formal, operand *Term) (err error) {
	m := &paramMatcher{env: env, ctx: ctx, checked: checked}

	if checked {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			re, ok := r.(rtErr)
			if !ok {
				panic(r)
			}
			if _, isMismatch := re.err.(*ParameterMismatchError); isMismatch {
				err = re.err
				return
			}
			err = &InvalidSyntaxError{
				Msg:   fmt.Sprintf("while matching formal parameter tree %s against %s", Print(formal), describeTerm(operand)),
				Cause: re.err,
			}
		}()
	}

	// The entry operand tree belongs to the caller but is about to be
	// consumed by binding, so the initial call treats it as Temporary.
	m.enqueue(func() { m.match(formal, operand, Temporary, nil) })
	m.drain()
	return nil
}

////////////////////////////////////////////////////////////////////////////////
//                          H. PARAMETER MATCHER — Match
////////////////////////////////////////////////////////////////////////////////

// match dispatches on the shape of formal: a list, a reference leaf (a
// meta-level "&x" formal matched against the same operand one level down),
// or a token (bound via bindLeaf). Anything else is not a valid formal
// shape.
func (m *paramMatcher) match(formal, operand *Term, operandTags TermTags, home *envHandle) {
	switch {
	case formal.IsList():
		m.matchList(formal, operand, operandTags, home)
	default:
		if ref, ok := formal.AsReference(); ok {
			m.hasReferenceArg = true
			deref := ref.Referent
			m.enqueue(func() { m.match(deref, operand, operandTags, home) })
			return
		}
		if name, ok := formal.IsToken(); ok {
			m.bindLeaf(name, operand, operandTags, home)
			return
		}
		fail(&FormalParameterTypeError{
			Msg: fmt.Sprintf("formal parameter element %s is neither a symbol, #ignore, nor a list", describeTerm(formal)),
		})
	}
}

// matchList handles the case where formal is itself a list: rest-marker
// detection, arity checking against the resolved operand list, and
// element-by-element recursion via the thunk queue.
func (m *paramMatcher) matchList(formal, operand *Term, operandTags TermTags, home *envHandle) {
	children := formal.Container

	hasRest := false
	var restTok TokenValue
	if n := len(children); n > 0 {
		last := children[n-1]
		if tok, ok := last.IsToken(); ok {
			if strings.HasPrefix(string(tok), ".") {
				hasRest = true
				restTok = tok
				children = children[:n-1]
			}
		} else if m.checked && !last.IsList() {
			fail(&FormalParameterTypeError{
				Msg: fmt.Sprintf("trailing formal element %s is neither a symbol nor a list", describeTerm(last)),
			})
		}
	}

	nd, ndTags, ndHome := m.resolveOperand(operand, operandTags, home)
	if !nd.IsList() {
		fail(&ParameterMismatchError{Msg: fmt.Sprintf("expected a list operand, got %s", describeTerm(nd))})
	}

	np := len(children)
	no := len(nd.Container)

	if np == 0 {
		if hasRest {
			m.enqueue(func() { m.bindTrailing(restTok, nd.Container, 0, no, ndTags, ndHome) })
			return
		}
		if no != 0 {
			fail(&ParameterMismatchError{Msg: "formal parameter list is empty but operand list is not"})
		}
		return
	}

	if hasRest {
		if no < np {
			fail(&InsufficientTermsError{Required: np, Got: no})
		}
	} else if no != np {
		fail(&ArityMismatchError{Expected: np, Got: no})
	}

	for i := 0; i < np; i++ {
		formalChild, operandChild := children[i], nd.Container[i]
		m.enqueue(func() { m.match(formalChild, operandChild, ndTags, ndHome) })
	}
	if hasRest {
		m.enqueue(func() { m.bindTrailing(restTok, nd.Container, np, no, ndTags, ndHome) })
	}
}

// resolveOperand follows operand through a surrounding reference, if any,
// recomputing binding tags by stripping Unique|Temporary from operandTags
// and re-applying the reference's own tags via PropagateTo.
func (m *paramMatcher) resolveOperand(operand *Term, operandTags TermTags, home *envHandle) (*Term, TermTags, *envHandle) {
	if ref, ok := operand.AsReference(); ok {
		tags := PropagateTo(operandTags&^(Unique|Temporary), ref.Tags)
		return ref.Resolve(), tags, ref.Home
	}
	return operand, operandTags, home
}

////////////////////////////////////////////////////////////////////////////////
//                       I. PARAMETER BINDER — BindParameterObject
////////////////////////////////////////////////////////////////////////////////

// stripSigil splits a formal identifier into its leading &, %, or @ sigil
// (0 if none) and the remaining name.
func stripSigil(tok TokenValue) (sigil byte, name string) {
	s := string(tok)
	if s == "" {
		return 0, ""
	}
	switch s[0] {
	case '&', '%', '@':
		return s[0], s[1:]
	default:
		return 0, s
	}
}

// bindLeaf is the matcher's leaf-bind callback (§4.11): strip the sigil,
// and if a name remains that is not #ignore, hand off to
// bindParameterObject.
func (m *paramMatcher) bindLeaf(id TokenValue, operand *Term, operandTags TermTags, home *envHandle) {
	sigil, name := stripSigil(id)
	if name == "" {
		m.warn(fmt.Sprintf("formal parameter %q binds nothing once its sigil is stripped", string(id)))
		return
	}
	if TokenValue(name) == IgnoreToken {
		return
	}
	bindParameterObject(m.env, TokenValue(name), sigil, sigil == '&', operandTags, operand, home)
}

// bindTrailing is the matcher's rest-bind callback (§4.11): strip the
// leading '.' and any sigil from the rest identifier, then either splice
// the operand's remaining children into a fresh list directly (the owned
// case) or bind each element through bindParameterObject individually (the
// aliasing case).
func (m *paramMatcher) bindTrailing(restTok TokenValue, operandChildren []*Term, first, last int, operandTags TermTags, home *envHandle) {
	raw := strings.TrimPrefix(string(restTok), ".")
	sigil, name := stripSigil(TokenValue(raw))
	if name == "" {
		m.warn(fmt.Sprintf("rest parameter %q binds nothing once its sigil is stripped", string(restTok)))
		return
	}
	if TokenValue(name) == IgnoreToken {
		return
	}

	owned := (operandTags&(Unique|Nonmodifying) == Unique) || operandTags.Has(Temporary)

	if owned {
		rest := append([]*Term(nil), operandChildren[first:last]...)
		listTerm := NewBranch(rest...)
		if sigil != 0 {
			listTerm.Tags |= Temporary
		}
		m.env.Bind(TokenValue(name), listTerm)
		return
	}

	rest := make([]*Term, 0, last-first)
	for _, c := range operandChildren[first:last] {
		elemEnv := NewEnv(nil)
		bindParameterObject(elemEnv, "it", sigil, sigil == '&', operandTags, c, home)
		bound, _ := elemEnv.Lookup("it")
		rest = append(rest, bound)
	}
	listTerm := NewBranch(rest...)

	if sigil == '&' {
		wrapper := NewReferenceTerm(TermReference{Tags: GetLValueTagsOf(listTerm.Tags), Referent: listTerm, Home: home})
		m.env.Bind(TokenValue(name), NewBranch(wrapper))
		return
	}

	listTerm.Tags |= Temporary
	m.env.Bind(TokenValue(name), listTerm)
}

// bindParameterObject implements §4.10's algorithm: given the sigil that
// named this binding, whether the sigil itself asked for a reference-typed
// bind (refTemp), the tags and value of operand, and the environment that
// owns operand (home), it decides between binding by non-owning reference
// (@), mutable reference (&), move, or copy, and performs the Env.Bind.
func bindParameterObject(env *Env, name TokenValue, sigil byte, refTemp bool, operandTags TermTags, operand *Term, home *envHandle) {
	if sigil == '@' {
		if operandTags.Has(Temporary) {
			fail(&InvalidReferenceError{
				Msg: fmt.Sprintf("cannot take a persistent reference (@) to the temporary bound to %q", string(name)),
			})
		}
		ref := TermReference{Tags: operandTags & Nonmodifying, Referent: operand, Home: home}
		env.Bind(name, NewReferenceTerm(ref))
		return
	}

	canModify := !operandTags.Has(Nonmodifying)
	temp := operandTags.Has(Temporary)

	if p, ok := operand.AsReference(); ok {
		if sigil != 0 {
			refTags := p.Tags
			if refTemp {
				refTags = BindReferenceTags(p.Tags)
			}
			refTags = PropagateTo(refTags, operandTags)
			// A TermReference carries no container of its own (the leaf
			// invariant), so the move and copy cases of the algorithm
			// this binder implements collapse to the same freshly
			// constructed reference here, regardless of can_modify/temp.
			env.Bind(name, NewReferenceTerm(TermReference{Tags: refTags, Referent: p.Referent, Home: p.Home}))
			return
		}
		if p.IsMovable() {
			env.Bind(name, p.Referent)
		} else {
			env.Bind(name, p.Referent.CopyShallow())
		}
		return
	}

	switch {
	case (canModify || sigil == '%') && temp:
		if sigil != 0 {
			operand.Tags |= Temporary
		}
		env.Bind(name, operand)
	case sigil == '&':
		tags := GetLValueTagsOf(operand.Tags | operandTags)
		env.Bind(name, NewReferenceTerm(TermReference{Tags: tags, Referent: operand, Home: home}))
	default:
		env.Bind(name, operand.CopyShallow())
	}
}
