package vau

import "testing"

func TestScanAllBasics(t *testing.T) {
	toks, err := ScanAll(`(foo "bar\n" 42 3.5 #t #f .r 'x) ; trailing comment`)
	if err != nil {
		t.Fatalf("ScanAll error: %v", err)
	}

	want := []TokType{
		TokLParen, TokSymbol, TokString, TokInt, TokFloat, TokBool, TokBool,
		TokSymbol, TokQuote, TokSymbol, TokRParen, TokEOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %#v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %v, want %v (lexeme %q)", i, toks[i].Type, tt, toks[i].Lexeme)
		}
	}
	if toks[2].Literal.(string) != "bar\n" {
		t.Errorf("string literal: got %q", toks[2].Literal)
	}
	if toks[3].Literal.(int64) != 42 {
		t.Errorf("int literal: got %v", toks[3].Literal)
	}
}

func TestScanDottedPair(t *testing.T) {
	toks, err := ScanAll("(a b . r)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var gotDot bool
	for _, tok := range toks {
		if tok.Type == TokDot {
			gotDot = true
		}
	}
	if !gotDot {
		t.Fatalf("expected a TokDot in %#v", toks)
	}
}

func TestScanDotGluedSymbolIsNotDot(t *testing.T) {
	toks, err := ScanAll(".rest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Type != TokSymbol || toks[0].Lexeme != ".rest" {
		t.Fatalf("expected a single symbol token \".rest\", got %#v", toks[0])
	}
}

func TestScanUnterminatedString(t *testing.T) {
	_, err := ScanAll(`"unterminated`)
	if err == nil {
		t.Fatal("expected an error for an unterminated string")
	}
	if _, ok := err.(*LexError); !ok {
		t.Fatalf("expected a *LexError, got %T: %v", err, err)
	}
}

func TestScanNegativeNumber(t *testing.T) {
	toks, err := ScanAll("-5 -5.5 -sym")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Type != TokInt || toks[0].Literal.(int64) != -5 {
		t.Errorf("got %#v", toks[0])
	}
	if toks[1].Type != TokFloat {
		t.Errorf("got %#v", toks[1])
	}
	if toks[2].Type != TokSymbol || toks[2].Lexeme != "-sym" {
		t.Errorf("got %#v", toks[2])
	}
}
