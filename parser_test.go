package vau

import "testing"

func TestParseAtoms(t *testing.T) {
	forms, err := Parse(`foo "str" 42 3.5 #t #f`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(forms) != 6 {
		t.Fatalf("got %d forms, want 6", len(forms))
	}
	if name, ok := forms[0].IsToken(); !ok || name != "foo" {
		t.Errorf("forms[0] = %#v", forms[0])
	}
	if v, ok := forms[1].AsHost(); !ok || v.(string) != "str" {
		t.Errorf("forms[1] = %#v", forms[1])
	}
	if v, ok := forms[2].AsHost(); !ok || v.(int64) != 42 {
		t.Errorf("forms[2] = %#v", forms[2])
	}
	if v, ok := forms[4].AsHost(); !ok || v.(bool) != true {
		t.Errorf("forms[4] = %#v", forms[4])
	}
}

func TestParseNestedList(t *testing.T) {
	forms, err := Parse("(a (b c) d)")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(forms) != 1 {
		t.Fatalf("got %d top-level forms", len(forms))
	}
	root := forms[0]
	if !root.IsBranchedList() || len(root.Container) != 3 {
		t.Fatalf("root = %#v", root)
	}
	inner := root.Container[1]
	if !inner.IsBranchedList() || len(inner.Container) != 2 {
		t.Fatalf("inner = %#v", inner)
	}
}

func TestParseDottedTailBecomesFlatRestToken(t *testing.T) {
	forms, err := Parse("(a b . r)")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	root := forms[0]
	if len(root.Container) != 3 {
		t.Fatalf("expected 3 flattened children, got %d: %#v", len(root.Container), root)
	}
	last := root.Container[2]
	name, ok := last.IsToken()
	if !ok || name != ".r" {
		t.Fatalf("expected rest marker token \".r\", got %#v", last)
	}
}

func TestParseQuoteSugar(t *testing.T) {
	forms, err := Parse("'x")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	root := forms[0]
	if !root.IsBranchedList() || len(root.Container) != 2 {
		t.Fatalf("root = %#v", root)
	}
	if name, ok := root.Container[0].IsToken(); !ok || name != "quote" {
		t.Fatalf("head = %#v", root.Container[0])
	}
	if name, ok := root.Container[1].IsToken(); !ok || name != "x" {
		t.Fatalf("operand = %#v", root.Container[1])
	}
}

func TestParseEmptyList(t *testing.T) {
	forms, err := Parse("()")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !forms[0].IsEmpty() {
		t.Fatalf("expected the empty list, got %#v", forms[0])
	}
}

func TestParseUnterminatedListErrors(t *testing.T) {
	_, err := Parse("(a b")
	if err == nil {
		t.Fatal("expected an error for an unterminated list")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
}

func TestParseOneRejectsTrailingInput(t *testing.T) {
	_, err := ParseOne("a b")
	if err == nil {
		t.Fatal("expected an error for trailing input after one datum")
	}
}

func TestParseWithSpansRecordsPositions(t *testing.T) {
	ref := NewSourceRef("test", "(a b)")
	forms, err := ParseWithSpans("(a b)", ref)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	sp, ok := ref.SpanOf(forms[0])
	if !ok || sp.Line != 1 {
		t.Errorf("span = %#v, ok=%v", sp, ok)
	}
}
