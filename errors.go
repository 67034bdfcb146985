// errors.go — the error taxonomy of §7, plus caret-snippet rendering for
// errors that carry a source position.
//
// Two layers:
//   - A single internal panic carrier, rtErr, used by every private helper
//     in this package to signal failure (grounded on the teacher's
//     interpreter_ops.go fail/panicRt pattern). Nothing outside this package
//     ever observes an rtErr: the trampoline driver recovers it at the
//     boundary and converts it to one of the typed errors below.
//   - The typed errors themselves, each implementing error, named exactly
//     as spec.md §7 names them.
package vau

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

////////////////////////////////////////////////////////////////////////////////
//                         INTERNAL PANIC CARRIER
////////////////////////////////////////////////////////////////////////////////

// rtErr is the single panic payload used to unwind out of deeply nested
// reduction/matching helpers back to the trampoline driver. err is always
// one of the typed errors below.
type rtErr struct{ err error }

func fail(err error) { panic(rtErr{err: err}) }

// recoverRtErr converts a recovered rtErr into its wrapped error, or
// re-panics anything else (a genuine bug, not a modeled failure).
func recoverRtErr(r any) error {
	if re, ok := r.(rtErr); ok {
		return re.err
	}
	panic(r)
}

////////////////////////////////////////////////////////////////////////////////
//                               ERROR TAXONOMY
////////////////////////////////////////////////////////////////////////////////

// BadIdentifierError: an unresolved symbol at leaf lookup.
type BadIdentifierError struct{ Name TokenValue }

func (e *BadIdentifierError) Error() string {
	return fmt.Sprintf("BadIdentifier: unresolved identifier %q", string(e.Name))
}

// InvalidSyntaxError: a malformed literal prefix, or the wrapping kind for a
// nested parameter-tree error (Cause may be nil).
type InvalidSyntaxError struct {
	Msg   string
	Cause error
}

func (e *InvalidSyntaxError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("InvalidSyntax: %s: %v", e.Msg, e.Cause)
	}
	return fmt.Sprintf("InvalidSyntax: %s", e.Msg)
}

func (e *InvalidSyntaxError) Unwrap() error { return e.Cause }

// InvalidReferenceError: an attempt to take a persistent reference (@) to a
// temporary.
type InvalidReferenceError struct{ Msg string }

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("InvalidReference: %s", e.Msg)
}

// ParameterMismatchError: a non-empty operand bound to an empty formal, or
// another shape mismatch not caught by a more specific error below.
type ParameterMismatchError struct{ Msg string }

func (e *ParameterMismatchError) Error() string {
	return fmt.Sprintf("ParameterMismatch: %s", e.Msg)
}

// ArityMismatchError: a list formal and list operand differ in required
// count and no rest parameter was declared to absorb the difference.
type ArityMismatchError struct{ Expected, Got int }

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("ArityMismatch: expected %d, got %d", e.Expected, e.Got)
}

// InsufficientTermsError: a rest-tail formal declared but the operand list
// is shorter than the required (non-rest) prefix.
type InsufficientTermsError struct {
	Required, Got int
}

func (e *InsufficientTermsError) Error() string {
	return fmt.Sprintf("InsufficientTerms: required at least %d, got %d", e.Required, e.Got)
}

// ListReductionFailureError: the head of a combined branch is not a
// combiner.
type ListReductionFailureError struct {
	Operator string
	Arity    int
}

func (e *ListReductionFailureError) Error() string {
	return fmt.Sprintf("ListReductionFailure: %s is not a combiner (applied to %d operand(s))", e.Operator, e.Arity)
}

// FormalParameterTypeError: a formal element is neither a symbol, #ignore,
// nor a list.
type FormalParameterTypeError struct{ Msg string }

func (e *FormalParameterTypeError) Error() string {
	return fmt.Sprintf("FormalParameterTypeError: %s", e.Msg)
}

////////////////////////////////////////////////////////////////////////////////
//                      CARET-SNIPPET RENDERING
////////////////////////////////////////////////////////////////////////////////

// WrapErrorWithSource augments err with a caret-annotated snippet of src if
// err itself is a *LexError or *ParseError; otherwise err (including an
// error that merely wraps one of those) is returned unchanged. Mirrors the teacher's WrapErrorWithSource, but
// colorizes the header via fatih/color instead of hand-rolled ANSI escapes
// (see DESIGN.md for why: the teacher's own cmd/msg/main.go hand-rolls
// escape codes, but the retrieval pack demonstrates the ecosystem way via
// ninja-go/graph.go's color.Blue(...) calls).
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

func WrapErrorWithName(err error, srcName, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "LEXICAL ERROR", srcName, e.Line, e.Col, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "PARSE ERROR", srcName, e.Line, e.Col, e.Msg))
	default:
		return err
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func prettyErrorStringLabeled(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n", color.RedString(header), name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n", color.RedString(header), line, col, msg)
	}
	b.WriteString("\n")

	start := max(1, line-1)
	end := line + 1
	if end > len(lines) {
		end = len(lines)
	}
	for n := start; n <= end && n >= 1 && n <= len(lines); n++ {
		fmt.Fprintf(&b, "%4d | %s\n", n, lines[n-1])
		if n == line {
			pad := col - 1
			if pad < 0 {
				pad = 0
			}
			fmt.Fprintf(&b, "     | %s%s\n", strings.Repeat(" ", pad), color.YellowString("^"))
		}
	}
	return b.String()
}
