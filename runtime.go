// runtime.go — top-level wiring: a fresh Context over a Global environment
// chained beneath the Frozen core, mirroring the teacher's
// NewInterpreter/NewRuntime split between a fixed prelude and a mutable
// top-level namespace.
package vau

// Version is the version string cmd/vau reports.
const Version = "0.1.0"

// Runtime bundles the pieces needed to read, evaluate, and print programs
// against one persistent top-level environment: REPL sessions and script
// runs both build one of these and keep reusing its Global across forms.
type Runtime struct {
	Core   *Env
	Global *Env
}

// NewRuntime builds a Runtime with a fresh Global environment chained
// beneath a freshly built Frozen core.
func NewRuntime() *Runtime {
	core := NewCoreEnv()
	global := NewEnv(core)
	return &Runtime{Core: core, Global: global}
}

// EvalSource parses src as a sequence of top-level forms and reduces them
// in order against rt.Global, returning the value of the last form (or
// Unspecified if src held none).
func (rt *Runtime) EvalSource(src string) (*Term, error) {
	forms, err := Parse(src)
	if err != nil {
		return nil, err
	}
	var result *Term = NewLeaf(Unspecified)
	for _, form := range forms {
		result, err = rt.EvalTerm(form)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// EvalTerm reduces a single already-parsed term to normal form against
// rt.Global, driving a fresh Context's trampoline to completion.
func (rt *Runtime) EvalTerm(form *Term) (*Term, error) {
	ctx := NewContext()
	if _, err := ctx.Run(form, rt.Global); err != nil {
		return nil, err
	}
	return form, nil
}
