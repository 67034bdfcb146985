package vau

import "testing"

func TestIsVauSymbol(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"foo", true},
		{"foo-bar?", true},
		{"set!", true},
		{"&x", true},
		{"%y", true},
		{"@z", true},
		{".rest", true},
		{"#ignore", true},
		{"", false},
		{"1abc", false},
		{"has space", false},
		{"has,comma", false},
	}
	for _, c := range cases {
		if got := IsVauSymbol(c.in); got != c.want {
			t.Errorf("IsVauSymbol(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSymbolTableInterns(t *testing.T) {
	st := newSymbolTable()
	a := st.intern("hello")
	b := st.intern("hello")
	if a != b {
		t.Fatalf("interned strings not equal: %q vs %q", a, b)
	}
	if len(st.buckets) != 1 {
		t.Fatalf("expected one bucket, got %d", len(st.buckets))
	}
	c := st.intern("world")
	if len(st.buckets) != 2 {
		t.Fatalf("expected two buckets after a new string, got %d", len(st.buckets))
	}
	if c != "world" {
		t.Fatalf("got %q", c)
	}
}
