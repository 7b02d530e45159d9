// core/phrase/span.go
package phrase

import (
	"fmt"
	"strings"
)

// Span is a closed interval [Start, End] over token indices.
type Span struct {
	Start int
	End   int
}

// Len is the number of tokens covered.
func (s Span) Len() int { return s.End - s.Start + 1 }

// Contains reports whether index i falls inside the span.
func (s Span) Contains(i int) bool { return s.Start <= i && i <= s.End }

func (s Span) String() string { return fmt.Sprintf("%d-%d", s.Start, s.End) }

// SpanPair is a source span and the target span it translates to.
type SpanPair struct {
	Source Span
	Target Span
}

// Phrase is a SpanPair rendered against its token sequences.
type Phrase struct {
	Source     string
	Target     string
	SourceSpan Span
	TargetSpan Span
}

// Render joins tokens[s.Start..s.End] with single spaces. Out-of-range
// bounds are clamped; an empty intersection renders as "".
func Render(tokens []string, s Span) string {
	lo, hi := max(s.Start, 0), min(s.End, len(tokens)-1)
	if lo > hi {
		return ""
	}
	return strings.Join(tokens[lo:hi+1], " ")
}

// Materialize renders pairs in order.
func Materialize(src, tgt []string, pairs []SpanPair) []Phrase {
	if len(pairs) == 0 {
		return nil
	}
	out := make([]Phrase, len(pairs))
	for k, p := range pairs {
		out[k] = Phrase{
			Source:     Render(src, p.Source),
			Target:     Render(tgt, p.Target),
			SourceSpan: p.Source,
			TargetSpan: p.Target,
		}
	}
	return out
}
