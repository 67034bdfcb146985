package vau

import "testing"

func TestTagsString(t *testing.T) {
	if got := TermTags(0).String(); got != "lvalue" {
		t.Errorf("got %q", got)
	}
	if got := (Unique | Temporary).String(); got != "UT" {
		t.Errorf("got %q", got)
	}
}

func TestGetLValueTagsOfClearsUnique(t *testing.T) {
	got := GetLValueTagsOf(Unique | Nonmodifying)
	if got.Has(Unique) {
		t.Fatal("Unique should be cleared")
	}
	if !got.Has(Nonmodifying) {
		t.Fatal("Nonmodifying should survive")
	}
}

func TestBindReferenceTagsMakesUniqueTemporary(t *testing.T) {
	got := BindReferenceTags(Unique)
	if !got.Has(Temporary) || !got.Has(Unique) {
		t.Fatalf("got %v", got)
	}
	got2 := BindReferenceTags(Nonmodifying)
	if got2.Has(Temporary) {
		t.Fatalf("a non-unique source should not gain Temporary: %v", got2)
	}
}

func TestPropagateToUniqueRequiresBothSides(t *testing.T) {
	if got := PropagateTo(Unique, TermTags(0)); got.Has(Unique) {
		t.Fatal("Unique should not survive when source lacks it")
	}
	if got := PropagateTo(Unique, Unique); !got.Has(Unique) {
		t.Fatal("Unique should survive when both sides carry it")
	}
}

func TestPropagateToNonmodifyingFromEitherSide(t *testing.T) {
	if got := PropagateTo(TermTags(0), Nonmodifying); !got.Has(Nonmodifying) {
		t.Fatal("Nonmodifying from source should propagate")
	}
	if got := PropagateTo(Nonmodifying, TermTags(0)); !got.Has(Nonmodifying) {
		t.Fatal("Nonmodifying from target should propagate")
	}
}
