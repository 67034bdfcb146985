// parser.go — the reader: tokens to Term tree, concretizing spec.md §1's
// "lexical analysis and symbol recognition" collaborator for this
// s-expression surface syntax. Recursive-descent over Lexer's token stream,
// in the teacher's position-tracking parser style (error carries
// Line/Col), but producing *Term values directly rather than an
// intermediate S-expression slice AST.
package vau

import "fmt"

// ParseError: a malformed token sequence at a known source position.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

type parser struct {
	toks []Tok
	i    int
	syms *symbolTable
	src  *SourceRef // nil unless the caller wants span tracking
}

func (p *parser) peek() Tok  { return p.toks[p.i] }
func (p *parser) atEnd() bool { return p.peek().Type == TokEOF }

func (p *parser) advance() Tok {
	t := p.toks[p.i]
	if p.i < len(p.toks)-1 {
		p.i++
	}
	return t
}

func (p *parser) errAt(tok Tok, msg string) error {
	return &ParseError{Line: tok.Line, Col: tok.Col, Msg: msg}
}

func (p *parser) note(t *Term, tok Tok) {
	if p.src != nil {
		p.src.Note(t, Span{Line: tok.Line, Col: tok.Col, Len: len(tok.Lexeme)})
	}
}

// readDatum parses one complete datum: an atom, a string, a number, a
// parenthesized list, or a 'x quote form.
func (p *parser) readDatum() (*Term, error) {
	tok := p.peek()
	switch tok.Type {
	case TokEOF:
		return nil, p.errAt(tok, "unexpected end of input, expected an expression")

	case TokLParen:
		return p.readList()

	case TokRParen:
		return nil, p.errAt(tok, "unexpected ')'")

	case TokDot:
		return nil, p.errAt(tok, "unexpected '.' outside a list")

	case TokQuote:
		p.advance()
		inner, err := p.readDatum()
		if err != nil {
			return nil, err
		}
		q := NewBranch(NewLeaf(TokenValue(p.syms.intern("quote"))), inner)
		p.note(q, tok)
		return q, nil

	case TokSymbol:
		p.advance()
		name := p.syms.intern(tok.Lexeme)
		t := NewLeaf(TokenValue(name))
		p.note(t, tok)
		return t, nil

	case TokString:
		p.advance()
		t := NewHostTerm(tok.Literal.(string))
		p.note(t, tok)
		return t, nil

	case TokInt:
		p.advance()
		t := NewHostTerm(tok.Literal.(int64))
		p.note(t, tok)
		return t, nil

	case TokFloat:
		p.advance()
		t := NewHostTerm(tok.Literal.(float64))
		p.note(t, tok)
		return t, nil

	case TokBool:
		p.advance()
		t := NewHostTerm(tok.Literal.(bool))
		p.note(t, tok)
		return t, nil

	default:
		return nil, p.errAt(tok, "unrecognized token")
	}
}

// readList parses "(" datum* ["." datum] ")". A dotted tail that is itself
// a bare symbol is rewritten as the flat ".name" rest-marker token this
// core's formal-parameter matcher and everyday list operators both expect
// (see §4.9/§4.11); any other dotted tail is spliced in as the list's final
// child unmarked, since the branch representation has no separate notion
// of an improper list.
func (p *parser) readList() (*Term, error) {
	open := p.advance() // consume '('
	var children []*Term

	for {
		if p.atEnd() {
			return nil, p.errAt(p.peek(), "unterminated list, expected ')'")
		}
		if p.peek().Type == TokRParen {
			p.advance()
			t := NewBranch(children...)
			p.note(t, open)
			return t, nil
		}
		if p.peek().Type == TokDot {
			dotTok := p.advance()
			tail, err := p.readDatum()
			if err != nil {
				return nil, err
			}
			if name, ok := tail.IsToken(); ok {
				children = append(children, NewLeaf(TokenValue("."+string(name))))
			} else {
				children = append(children, tail)
			}
			close := p.peek()
			if close.Type != TokRParen {
				return nil, p.errAt(close, "expected ')' after dotted tail")
			}
			p.advance()
			t := NewBranch(children...)
			p.note(t, open)
			_ = dotTok
			return t, nil
		}

		child, err := p.readDatum()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
}

// Parse reads every top-level datum out of src, returning them in order.
func Parse(src string) ([]*Term, error) {
	return parseWithSpans(src, nil)
}

// ParseWithSpans is Parse, additionally recording each term's source span
// into ref.
func ParseWithSpans(src string, ref *SourceRef) ([]*Term, error) {
	return parseWithSpans(src, ref)
}

func parseWithSpans(src string, ref *SourceRef) ([]*Term, error) {
	toks, err := ScanAll(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, syms: newSymbolTable(), src: ref}

	var forms []*Term
	for !p.atEnd() {
		d, err := p.readDatum()
		if err != nil {
			return nil, err
		}
		forms = append(forms, d)
	}
	return forms, nil
}

// ParseOne reads exactly one datum from src, erroring if src holds more
// than one or none at all. Used by the REPL, which evaluates a single form
// per entry (an entry may span several input lines).
func ParseOne(src string) (*Term, error) {
	toks, err := ScanAll(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, syms: newSymbolTable()}
	if p.atEnd() {
		return nil, p.errAt(p.peek(), "empty input")
	}
	d, err := p.readDatum()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.errAt(p.peek(), "unexpected trailing input after expression")
	}
	return d, nil
}
