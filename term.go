// term.go — the Term tree and TermReference, the two structures the whole
// evaluator rewrites in place.
//
// A Term has three mutable fields: an ordered sequence of child terms (the
// container), a value slot (at most one of a token, a term reference, a
// combiner handler, or an opaque host object), and a tag set. The container
// and value slot are mutually exclusive in the sense the data model
// describes: a leaf has a populated value slot and an empty container; a
// branch has a non-empty container; a branched list is a branch whose value
// slot is empty.
package vau

// termValueKind discriminates which field of a Term's value slot is active,
// mirroring the teacher runtime's tagged-union approach to dynamic values
// (ValueTag/Value in the ancestor codebase this package was adapted from)
// rather than a bare interface{} with type switches everywhere.
type termValueKind uint8

const (
	valueNone termValueKind = iota
	valueToken
	valueReference
	valueHandler
	valueHost
)

// Term is a node in the evaluation tree.
type Term struct {
	Container []*Term
	Tags      TermTags

	kind    termValueKind
	token   TokenValue
	ref     TermReference
	handler ContextHandler
	host    any
}

// TokenValue is an identifier string produced by the reader. #ignore is a
// reserved token recognized by the parameter binder. The reader accepts any
// lexeme the lexer scans as a symbol; it does not check it with IsVauSymbol.
type TokenValue string

// IgnoreToken is the reserved "discard this binding" identifier.
const IgnoreToken TokenValue = "#ignore"

// TermReference is a back-pointer to a term living elsewhere, together with
// the tags under which it is being viewed and a weak handle to the
// environment that owns the referent. Equality is never checked on
// TermReference values; only identity of the referent matters.
type TermReference struct {
	Tags     TermTags
	Referent *Term
	Home     *envHandle
}

// IsMovable reports whether the reference may have its referent moved out
// from under it: true iff it is Unique and not Nonmodifying.
func (r TermReference) IsMovable() bool {
	return r.Tags.Has(Unique) && !r.Tags.Has(Nonmodifying)
}

// Resolve follows r to its referent, first checking r.Home's liveness: a
// reference whose home environment has been Released (§5: a host dropping
// a Context abandons the environments it owned exclusively) is dead, and
// any further use of it raises InvalidReference rather than silently
// reading through a dangling pointer.
func (r TermReference) Resolve() *Term {
	if _, alive := r.Home.Get(); !alive {
		fail(&InvalidReferenceError{Msg: "reference's home environment is no longer alive"})
	}
	return r.Referent
}

// NewLeaf builds a leaf term holding a token.
func NewLeaf(tok TokenValue) *Term {
	return &Term{kind: valueToken, token: tok}
}

// NewReferenceTerm builds a leaf term holding a TermReference.
func NewReferenceTerm(ref TermReference) *Term {
	return &Term{kind: valueReference, ref: ref}
}

// NewHandlerTerm builds a leaf term holding a combiner handler.
func NewHandlerTerm(h ContextHandler) *Term {
	return &Term{kind: valueHandler, handler: h}
}

// NewHostTerm builds a leaf term holding an opaque host value (numbers,
// booleans, and anything else recognized by predicates outside this core).
func NewHostTerm(v any) *Term {
	return &Term{kind: valueHost, host: v}
}

// NewBranch builds a branch (branched list, since its value slot is empty)
// from the given children. An empty Container represents the empty list ().
func NewBranch(children ...*Term) *Term {
	return &Term{Container: children}
}

// IsLeaf reports whether t's value slot is populated and its container is
// empty.
func (t *Term) IsLeaf() bool { return t.kind != valueNone && len(t.Container) == 0 }

// IsBranch reports whether t's container is non-empty.
func (t *Term) IsBranch() bool { return len(t.Container) > 0 }

// IsBranchedList reports whether t is a branch whose value slot is empty.
func (t *Term) IsBranchedList() bool { return t.IsBranch() && t.kind == valueNone }

// IsEmpty reports whether t is the empty list (): no value, no children.
func (t *Term) IsEmpty() bool { return t.kind == valueNone && len(t.Container) == 0 }

// IsToken reports whether t is a leaf holding a token, returning it.
func (t *Term) IsToken() (TokenValue, bool) {
	if t.kind == valueToken {
		return t.token, true
	}
	return "", false
}

// TermToNamePtr mirrors the collaborator referenced by the original
// evaluation core: it returns a pointer to the token string if t is a
// token leaf, or nil otherwise. Kept as a function (not a method) because
// ReduceLeaf uses its nil-ness as a dispatch condition, the same shape the
// algorithm in spec.md §4.3/4.4 expects.
func TermToNamePtr(t *Term) *TokenValue {
	if t.kind == valueToken {
		return &t.token
	}
	return nil
}

// AsReference returns t's TermReference and true if t's value slot holds one.
func (t *Term) AsReference() (TermReference, bool) {
	if t.kind == valueReference {
		return t.ref, true
	}
	return TermReference{}, false
}

// AsHandler returns t's ContextHandler and true if t's value slot holds one.
func (t *Term) AsHandler() (ContextHandler, bool) {
	if t.kind == valueHandler {
		return t.handler, true
	}
	return nil, false
}

// IsList reports whether t's value slot is empty: a branch, or the empty
// list (). This is the complement of holding a token/reference/handler/host
// value, and is what the parameter matcher treats as "a list" regardless of
// arity.
func (t *Term) IsList() bool { return t.kind == valueNone }

// AsHost returns t's opaque host payload and true if t's value slot holds one.
func (t *Term) AsHost() (any, bool) {
	if t.kind == valueHost {
		return t.host, true
	}
	return nil, false
}

// SetReference overwrites t's value slot with a TermReference, clearing any
// container (a leaf invariant: leaves carry no children).
func (t *Term) SetReference(ref TermReference) {
	t.kind = valueReference
	t.ref = ref
	t.host = nil
	t.handler = nil
	t.Container = nil
}

// SetToken overwrites t's value slot with a token, and clears any container
// (a leaf invariant).
func (t *Term) SetToken(tok TokenValue) {
	t.kind = valueToken
	t.token = tok
	t.Container = nil
}

// Clear empties t's value slot (used by CombinerReturnThunk, §4.6, which
// clears the current term's value before relaying into the handler).
func (t *Term) Clear() {
	t.kind = valueNone
	t.host = nil
	t.handler = nil
	t.ref = TermReference{}
}

// Assign overwrites t in place from src: both the value slot and the
// container are transferred, used by the singleton-spine lift of §4.5 step 1
// and the sequence-lift of §4.7.
func (t *Term) Assign(src *Term) {
	t.Container = src.Container
	t.Tags = src.Tags
	t.kind = src.kind
	t.token = src.token
	t.ref = src.ref
	t.handler = src.handler
	t.host = src.host
}

// CopyShallow returns a new Term with the same value slot and tags as t but
// a freshly-allocated (shared-backing) copy of the container slice, enough
// to let a caller splice or mutate children without aliasing t's own slice
// header.
func (t *Term) CopyShallow() *Term {
	cp := &Term{Tags: t.Tags, kind: t.kind, token: t.token, ref: t.ref, handler: t.handler, host: t.host}
	if len(t.Container) > 0 {
		cp.Container = append([]*Term(nil), t.Container...)
	}
	return cp
}

// CopyDeep recursively copies t and every descendant. An operative's stored
// body is reduced in place on every invocation, so Operative.Invoke deep
// copies it first rather than let one call's reduction corrupt the template
// every other call to the same combiner still needs.
func (t *Term) CopyDeep() *Term {
	cp := &Term{Tags: t.Tags, kind: t.kind, token: t.token, ref: t.ref, handler: t.handler, host: t.host}
	if len(t.Container) > 0 {
		cp.Container = make([]*Term, len(t.Container))
		for i, c := range t.Container {
			cp.Container[i] = c.CopyDeep()
		}
	}
	return cp
}
