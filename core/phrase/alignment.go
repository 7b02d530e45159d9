// core/phrase/alignment.go
package phrase

import (
	"slices"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Point links source token Src to target token Tgt.
type Point struct {
	Src int
	Tgt int
}

// ParseAlignment parses GIZA/Moses notation ("0-0 1-2 2-1").
// Tokens that are not "int-int" with non-negative sides are skipped; the
// number skipped is returned alongside the parsed points.
func ParseAlignment(s string) ([]Point, int) {
	fields := strings.Fields(s)
	pts := make([]Point, 0, len(fields))
	bad := 0
	for _, f := range fields {
		i, j, ok := parsePoint(f)
		if !ok {
			bad++
			continue
		}
		pts = append(pts, Point{Src: i, Tgt: j})
	}
	return pts, bad
}

func parsePoint(tok string) (int, int, bool) {
	a, b, ok := strings.Cut(tok, "-")
	if !ok {
		return 0, 0, false
	}
	i, err := strconv.Atoi(a)
	if err != nil || i < 0 {
		return 0, 0, false
	}
	j, err := strconv.Atoi(b)
	if err != nil || j < 0 {
		return 0, 0, false
	}
	return i, j, true
}

// FormatAlignment renders points back to "i-j" notation.
func FormatAlignment(pts []Point) string {
	var b strings.Builder
	for k, p := range pts {
		if k > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(p.Src))
		b.WriteByte('-')
		b.WriteString(strconv.Itoa(p.Tgt))
	}
	return b.String()
}

// Index is the per-sentence-pair view of an alignment used by Extract.
// It is built once and never mutated.
type Index struct {
	srcLen, tgtLen int
	bySrc          [][]int // source index -> sorted unique target indices
	byTgt          [][]int // target index -> sorted unique source indices
	aligned        *bitset.BitSet
	points         int
}

// NewIndex drops points outside [0,srcLen)x[0,tgtLen), dedupes the rest
// and builds the lookup tables. The second result is the number of points
// dropped for being out of range.
func NewIndex(pts []Point, srcLen, tgtLen int) (*Index, int) {
	if srcLen < 0 {
		srcLen = 0
	}
	if tgtLen < 0 {
		tgtLen = 0
	}
	ix := &Index{
		srcLen:  srcLen,
		tgtLen:  tgtLen,
		bySrc:   make([][]int, srcLen),
		byTgt:   make([][]int, tgtLen),
		aligned: bitset.New(uint(tgtLen)),
	}
	dropped := 0
	for _, p := range pts {
		if p.Src < 0 || p.Src >= srcLen || p.Tgt < 0 || p.Tgt >= tgtLen {
			dropped++
			continue
		}
		ix.bySrc[p.Src] = append(ix.bySrc[p.Src], p.Tgt)
		ix.byTgt[p.Tgt] = append(ix.byTgt[p.Tgt], p.Src)
		ix.aligned.Set(uint(p.Tgt))
	}
	for i, ts := range ix.bySrc {
		slices.Sort(ts)
		ix.bySrc[i] = slices.Compact(ts)
		ix.points += len(ix.bySrc[i])
	}
	for j, ss := range ix.byTgt {
		slices.Sort(ss)
		ix.byTgt[j] = slices.Compact(ss)
	}
	return ix, dropped
}

// SourceLen returns the source sentence length the index was built for.
func (ix *Index) SourceLen() int { return ix.srcLen }

// TargetLen returns the target sentence length the index was built for.
func (ix *Index) TargetLen() int { return ix.tgtLen }

// Len returns the number of distinct in-range alignment points.
func (ix *Index) Len() int { return ix.points }

// Targets returns the target indices aligned to source index i.
func (ix *Index) Targets(i int) []int {
	if i < 0 || i >= ix.srcLen {
		return nil
	}
	return ix.bySrc[i]
}

// Sources returns the source indices aligned to target index j.
func (ix *Index) Sources(j int) []int {
	if j < 0 || j >= ix.tgtLen {
		return nil
	}
	return ix.byTgt[j]
}

// Aligned reports whether target index j has any alignment point.
func (ix *Index) Aligned(j int) bool {
	if j < 0 || j >= ix.tgtLen {
		return false
	}
	return ix.aligned.Test(uint(j))
}

// UnalignedTargets returns the number of target positions with no point.
func (ix *Index) UnalignedTargets() int {
	return ix.tgtLen - int(ix.aligned.Count())
}
