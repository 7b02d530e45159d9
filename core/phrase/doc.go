// Package phrase extracts alignment-consistent phrase pairs from a word
// aligned sentence pair.
//
// A pair of spans (E, F) is consistent when no alignment point has exactly
// one endpoint inside it. Unaligned target tokens on the edge of a
// consistent pair may optionally be absorbed, so one source span can yield
// several target spans.
//
// Everything here is pure: no I/O, no shared state. Callers may extract
// many sentence pairs in parallel.
package phrase
