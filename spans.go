// spans.go — a side table of source positions, kept off the Term struct
// itself so the evaluation core's data model (§3: three mutable fields)
// stays exactly as specified. Grounded on the teacher's SourceRef/Spans
// sidecar (spans.go, debug_spans.go) rather than widening Term.
package vau

// Span is a 1-based line/column source position, plus the length of the
// lexeme it covers (0 if unknown, e.g. for synthesized terms).
type Span struct {
	Line, Col int
	Len       int
}

// SourceRef bundles a display name, the raw source text, and a lookup table
// from term identity to the span that produced it. ParseWithSpans populates
// it; SpanOf reads it back. Neither Print nor the error renderers consult it.
type SourceRef struct {
	Name string
	Src  string
	spans map[*Term]Span
}

// NewSourceRef creates an empty SourceRef for the given display name and text.
func NewSourceRef(name, src string) *SourceRef {
	return &SourceRef{Name: name, Src: src, spans: make(map[*Term]Span)}
}

// Note records the span a term was read from.
func (s *SourceRef) Note(t *Term, sp Span) {
	if s == nil {
		return
	}
	s.spans[t] = sp
}

// SpanOf returns the recorded span for t, or the zero Span and false.
func (s *SourceRef) SpanOf(t *Term) (Span, bool) {
	if s == nil {
		return Span{}, false
	}
	sp, ok := s.spans[t]
	return sp, ok
}
