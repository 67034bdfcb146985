// printer.go — renders a Term back to s-expression source text, for REPL
// echoing and error messages. A pure function over the tree with no
// Context/Env dependency, grounded on the teacher's printer.go being a
// standalone AST-to-text pass rather than anything tied to evaluation.
package vau

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders t as s-expression source text.
func Print(t *Term) string {
	var b strings.Builder
	writeTerm(&b, t)
	return b.String()
}

func writeTerm(b *strings.Builder, t *Term) {
	if t == nil {
		b.WriteString("()")
		return
	}

	if name, ok := t.IsToken(); ok {
		b.WriteString(string(name))
		return
	}

	if ref, ok := t.AsReference(); ok {
		writeTerm(b, ref.Referent)
		return
	}

	if _, ok := t.AsHandler(); ok {
		b.WriteString("#<combiner>")
		return
	}

	if v, ok := t.AsHost(); ok {
		writeHostValue(b, v)
		return
	}

	// Empty value slot: either () or a branch.
	b.WriteByte('(')
	for i, c := range t.Container {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeTerm(b, c)
	}
	b.WriteByte(')')
}

func writeHostValue(b *strings.Builder, v any) {
	switch x := v.(type) {
	case bool:
		if x {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case string:
		b.WriteByte('"')
		b.WriteString(escapeString(x))
		b.WriteByte('"')
	case int64:
		b.WriteString(strconv.FormatInt(x, 10))
	case int:
		b.WriteString(strconv.Itoa(x))
	case float64:
		b.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	case *envValue:
		b.WriteString("#<environment>")
	default:
		fmt.Fprintf(b, "%v", x)
	}
}

func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
