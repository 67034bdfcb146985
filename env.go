// env.go — lexical environments: a name→term mapping with a parent chain,
// plus the weak environment handle stored inside every TermReference.
package vau

// Env is one frame of a name→term mapping, chained to a parent. Resolve
// walks the chain; Bind always inserts/replaces in the frame it is called
// on (callers walk to the right frame themselves when they mean to update
// an existing binding rather than shadow it).
type Env struct {
	parent *Env
	table  map[TokenValue]*Term

	// Frozen marks an environment whose bindings are read-only to user
	// code; MakeTermTags reports Nonmodifying for terms looked up through
	// a frozen environment. Grounded on the teacher's Core/Global split,
	// where Core (builtins) is conceptually read-only from program code.
	Frozen bool

	alive *bool // lazily allocated; see Handle()
}

// NewEnv creates a new lexical frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[TokenValue]*Term)}
}

// Bind inserts or replaces the binding for name in this frame and returns
// the (now shared) term pointer, per spec.md §3's Bind contract.
func (e *Env) Bind(name TokenValue, term *Term) *Term {
	e.table[name] = term
	return term
}

// Lookup returns the term bound to name in this frame only (no parent walk),
// used by Set-style callers that must not implicitly shadow.
func (e *Env) Lookup(name TokenValue) (*Term, bool) {
	t, ok := e.table[name]
	return t, ok
}

// Resolve walks env's parent chain looking for name, returning a pointer to
// the bound term and the environment that owns the binding, or (nil, nil) on
// a miss.
func Resolve(env *Env, id TokenValue) (*Term, *Env) {
	for e := env; e != nil; e = e.parent {
		if t, ok := e.table[id]; ok {
			return t, e
		}
	}
	return nil, nil
}

// MakeTermTags supplies the environment-default tags a freshly materialized
// reference into a binding of this environment receives: Nonmodifying iff
// the environment is frozen (§4.4 step 4). The bound term itself does not
// currently affect the result but is accepted for symmetry with the
// original collaborator's signature, and so a future per-binding override
// (e.g. a "const" annotation on individual bindings) has somewhere to hook in.
func (e *Env) MakeTermTags(_ *Term) TermTags {
	if e.Frozen {
		return Nonmodifying
	}
	return 0
}

// Handle returns a weak, non-owning handle to e. TermReference stores this
// rather than *Env directly so that references across environments do not
// themselves keep an environment alive or participate in its ownership
// graph — mutually recursive bindings can otherwise form ownership cycles
// (Design Note: back-references and weak environment handles).
func (e *Env) Handle() *envHandle {
	if e.alive == nil {
		v := true
		e.alive = &v
	}
	return &envHandle{env: e, alive: e.alive}
}

// Release marks e and every handle obtained from it as dead. Hosts that drop
// a Context to abandon pending work (§5) call this on environments owned
// exclusively by that context so that any TermReference still pointing at
// them observes a dead handle instead of a dangling one.
func (e *Env) Release() {
	if e.alive != nil {
		*e.alive = false
	}
}

// envHandle is a weak, non-owning observer of an Env.
type envHandle struct {
	env   *Env
	alive *bool
}

// Get returns the referenced Env and whether it is still alive. A nil
// handle (a reference with no home environment at all) counts as alive:
// there is nothing to have been Released.
func (h *envHandle) Get() (*Env, bool) {
	if h == nil {
		return nil, true
	}
	if h.alive == nil {
		return h.env, true
	}
	return h.env, *h.alive
}
