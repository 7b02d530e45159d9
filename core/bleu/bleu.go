// Package bleu computes corpus-level BLEU the way multi-bleu.perl does:
// clipped n-gram counts up to 4-grams, closest reference length with ties
// going to the shorter reference, and a brevity penalty of exp(1 - r/c).
package bleu

import (
	"fmt"
	"math"
	"strings"
)

// MaxN is the highest n-gram order scored.
const MaxN = 4

// Stats accumulates sufficient statistics over a corpus.
type Stats struct {
	Correct [MaxN]int
	Total   [MaxN]int
	HypLen  int
	RefLen  int
}

func counts(words []string, n int) map[string]int {
	m := make(map[string]int, len(words))
	for i := 0; i+n <= len(words); i++ {
		m[strings.Join(words[i:i+n], " ")]++
	}
	return m
}

// ClosestLength picks the reference length closest to hyp; ties go to the
// shorter reference. It returns 0 when refs is empty.
func ClosestLength(hyp int, refs [][]string) int {
	best, bestDiff := 0, math.MaxInt
	for _, r := range refs {
		l := len(r)
		d := l - hyp
		if d < 0 {
			d = -d
		}
		if d < bestDiff || (d == bestDiff && l < best) {
			best, bestDiff = l, d
		}
	}
	return best
}

// Add scores one hypothesis against its references.
func (s *Stats) Add(hyp []string, refs [][]string) {
	s.HypLen += len(hyp)
	s.RefLen += ClosestLength(len(hyp), refs)
	for n := 1; n <= MaxN; n++ {
		maxRef := map[string]int{}
		for _, r := range refs {
			for g, c := range counts(r, n) {
				if c > maxRef[g] {
					maxRef[g] = c
				}
			}
		}
		for g, c := range counts(hyp, n) {
			s.Total[n-1] += c
			s.Correct[n-1] += min(c, maxRef[g])
		}
	}
}

// Score is the final corpus score.
type Score struct {
	BLEU       float64
	Precisions [MaxN]float64
	BP         float64
	Ratio      float64
	HypLen     int
	RefLen     int
}

// Score derives BLEU from the accumulated statistics.
func (s Stats) Score() Score {
	sc := Score{HypLen: s.HypLen, RefLen: s.RefLen}
	if s.RefLen > 0 {
		sc.Ratio = float64(s.HypLen) / float64(s.RefLen)
	}
	switch {
	case s.HypLen == 0:
		sc.BP = 0
	case s.HypLen < s.RefLen:
		sc.BP = math.Exp(1 - float64(s.RefLen)/float64(s.HypLen))
	default:
		sc.BP = 1
	}

	logSum, zero := 0.0, false
	for n := 0; n < MaxN; n++ {
		if s.Total[n] > 0 {
			sc.Precisions[n] = float64(s.Correct[n]) / float64(s.Total[n])
		}
		if sc.Precisions[n] == 0 {
			zero = true
			continue
		}
		logSum += math.Log(sc.Precisions[n])
	}
	if !zero {
		sc.BLEU = sc.BP * math.Exp(logSum/MaxN)
	}
	return sc
}

func (sc Score) String() string {
	return fmt.Sprintf("BLEU = %.2f, %.1f/%.1f/%.1f/%.1f (BP=%.3f, ratio=%.3f, hyp_len=%d, ref_len=%d)",
		100*sc.BLEU,
		100*sc.Precisions[0], 100*sc.Precisions[1], 100*sc.Precisions[2], 100*sc.Precisions[3],
		sc.BP, sc.Ratio, sc.HypLen, sc.RefLen)
}
