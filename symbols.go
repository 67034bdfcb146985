// symbols.go — symbol validity and a small interning table, grounded on the
// daios-ai-msg retrieval pack's use of github.com/segmentio/fasthash/fnv1a
// for cheap string hashing rather than Go's built-in map hashing alone.
package vau

import "github.com/segmentio/fasthash/fnv1a"

// IsVauSymbol reports whether s is a legal identifier: non-empty, not
// starting with a decimal digit, and made only of letters, digits, and the
// punctuation characters listed below. The reader does not call it; it is a
// check for identifiers assembled programmatically, e.g. by a host embedding
// this package.
func IsVauSymbol(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		case r == '-', r == '+', r == '*', r == '/', r == '!', r == '?',
			r == '=', r == '<', r == '>', r == '_', r == '.', r == '#',
			r == '&', r == '%', r == '@', r == '$':
		default:
			return false
		}
	}
	return true
}

// symbolTable interns identifier strings: repeated reads of the same source
// produce token leaves sharing one TokenValue, the idiom grounded in the
// pack's fnv1a-hashed string-interning table rather than re-allocating a
// distinct string per occurrence.
type symbolTable struct {
	buckets map[uint64][]string
}

func newSymbolTable() *symbolTable {
	return &symbolTable{buckets: make(map[uint64][]string)}
}

// intern returns the canonical string equal to s, allocating none if one was
// already seen.
func (t *symbolTable) intern(s string) string {
	h := fnv1a.HashString64(s)
	for _, cand := range t.buckets[h] {
		if cand == s {
			return cand
		}
	}
	t.buckets[h] = append(t.buckets[h], s)
	return s
}
