// Package distort injects unknown-token noise into a parallel corpus.
package distort

import (
	"math"
	"math/rand/v2"
	"slices"
)

// Unknown is the default replacement token.
const Unknown = "<unk>"

// DefaultRatios are the noise levels emitted per input pair.
var DefaultRatios = []float64{0.1, 0.2, 0.3}

// Count is the number of replacements for a sentence of n tokens.
func Count(n int, ratio float64) int {
	if n <= 0 || ratio <= 0 {
		return 0
	}
	return int(math.Round(float64(n) * ratio))
}

// Tokens returns a copy of tokens with Count(len, ratio) positions, drawn
// uniformly with replacement, set to unk. The same position may be drawn
// twice, so fewer than Count tokens can change.
func Tokens(tokens []string, ratio float64, unk string, r *rand.Rand) []string {
	out := slices.Clone(tokens)
	for k := Count(len(out), ratio); k > 0; k-- {
		out[r.IntN(len(out))] = unk
	}
	return out
}
