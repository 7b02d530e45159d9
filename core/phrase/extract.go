// core/phrase/extract.go
package phrase

// Extract enumerates every phrase pair consistent with the alignment in ix.
//
// Source spans are visited start-ascending, then end-ascending. For each
// consistent span the core pair comes first, followed by its unaligned
// boundary extensions: left extensions outer (walking away from the core),
// right extensions inner. maxNgram bounds both sides; maxNgram <= 0 means
// unbounded.
func Extract(ix *Index, maxNgram int) []SpanPair {
	if ix == nil || ix.srcLen == 0 || ix.tgtLen == 0 || ix.points == 0 {
		return nil
	}
	limit := maxNgram
	if limit <= 0 {
		limit = ix.srcLen + ix.tgtLen
	}

	var out []SpanPair
	for es := 0; es < ix.srcLen; es++ {
		fMin, fMax := ix.tgtLen, -1
		for ee := es; ee < ix.srcLen && ee-es+1 <= limit; ee++ {
			// The target box only grows as the source span grows.
			if ts := ix.bySrc[ee]; len(ts) > 0 {
				fMin = min(fMin, ts[0])
				fMax = max(fMax, ts[len(ts)-1])
			}
			if fMax < 0 {
				continue
			}
			if fMax-fMin+1 > limit {
				// Any extension is wider still.
				continue
			}
			if !ix.consistent(es, ee, fMin, fMax) {
				continue
			}
			src := Span{Start: es, End: ee}
			out = ix.expand(out, src, fMin, fMax, limit)
		}
	}
	return out
}

// consistent reports whether every point landing in [fMin,fMax] originates
// inside [es,ee]. Points leaving [es,ee] always land in the box by
// construction of fMin/fMax.
func (ix *Index) consistent(es, ee, fMin, fMax int) bool {
	for j := fMin; j <= fMax; j++ {
		for _, i := range ix.byTgt[j] {
			if i < es || i > ee {
				return false
			}
		}
	}
	return true
}

// expand appends the core pair for src and every variant absorbing
// unaligned target tokens on either edge.
func (ix *Index) expand(out []SpanPair, src Span, fMin, fMax, limit int) []SpanPair {
	for fs := fMin; fs >= 0; fs-- {
		if fs < fMin && ix.Aligned(fs) {
			break
		}
		if fMax-fs+1 > limit {
			break
		}
		for fe := fMax; fe < ix.tgtLen; fe++ {
			if fe > fMax && ix.Aligned(fe) {
				break
			}
			if fe-fs+1 > limit {
				break
			}
			out = append(out, SpanPair{Source: src, Target: Span{Start: fs, End: fe}})
		}
	}
	return out
}

// Result is the outcome of extracting one sentence pair.
type Result struct {
	Phrases []Phrase
	// Dropped counts alignment points outside the sentence bounds.
	Dropped int
}

// ExtractPhrases indexes pts against src/tgt, extracts, and materialises
// the surviving pairs.
func ExtractPhrases(src, tgt []string, pts []Point, maxNgram int) Result {
	ix, dropped := NewIndex(pts, len(src), len(tgt))
	return Result{
		Phrases: Materialize(src, tgt, Extract(ix, maxNgram)),
		Dropped: dropped,
	}
}
