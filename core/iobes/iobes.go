// Package iobes collects labelled spans from IOBES-tagged SENNA output.
package iobes

import (
	"context"
	"io"
	"strings"

	"phrasex/core/corpus"
)

// Column positions in a SENNA row.
const (
	colChunk = 4
	colNER   = 5
	colSRL   = 7
	minCols  = colNER + 1
)

// Token is one SENNA row.
type Token struct {
	Word  string
	Chunk string
	NER   string
	SRL   []string
}

// ParseRow splits a whitespace-separated SENNA row. Rows too short to
// carry chunk and NER columns are rejected.
func ParseRow(line string) (Token, bool) {
	f := strings.Fields(line)
	if len(f) < minCols {
		return Token{}, false
	}
	tok := Token{Word: f[0], Chunk: f[colChunk], NER: f[colNER]}
	if len(f) > colSRL {
		tok.SRL = f[colSRL:]
	}
	return tok, true
}

// Span is a labelled token interval [Start, End].
type Span struct {
	Label string
	Start int
	End   int
}

func splitTag(tag string) (byte, string) {
	if tag == "" {
		return 0, ""
	}
	return tag[0], strings.Trim(tag[1:], "-+")
}

// Collect returns the spans encoded by an IOBES tag sequence. An E tag
// closes the most recent B; S is a single-token span. Dangling tags are
// dropped.
func Collect(tags []string) []Span {
	var out []Span
	open := -1
	for i, tag := range tags {
		kind, label := splitTag(tag)
		switch kind {
		case 'B':
			open = i
		case 'E':
			if open >= 0 {
				out = append(out, Span{Label: label, Start: open, End: i})
			}
			open = -1
		case 'S':
			out = append(out, Span{Label: label, Start: i, End: i})
			open = -1
		}
	}
	return out
}

// Labeled is a span rendered against its sentence.
type Labeled struct {
	Label string
	Text  string
}

// Block collects chunk spans, then NER spans, then each SRL column in turn.
func Block(tokens []Token) []Labeled {
	if len(tokens) == 0 {
		return nil
	}
	words := make([]string, len(tokens))
	chunk := make([]string, len(tokens))
	ner := make([]string, len(tokens))
	nsrl := len(tokens[0].SRL)
	for i, t := range tokens {
		words[i], chunk[i], ner[i] = t.Word, t.Chunk, t.NER
		nsrl = min(nsrl, len(t.SRL))
	}

	var out []Labeled
	render := func(tags []string) {
		for _, s := range Collect(tags) {
			out = append(out, Labeled{Label: s.Label, Text: strings.Join(words[s.Start:s.End+1], " ")})
		}
	}
	render(chunk)
	render(ner)
	for c := 0; c < nsrl; c++ {
		col := make([]string, len(tokens))
		for i, t := range tokens {
			col[i] = t.SRL[c]
		}
		render(col)
	}
	return out
}

// Stats summarises a read.
type Stats struct {
	Blocks  int
	Rows    int
	Skipped int
}

// ReadBlocks splits r into blank-line separated blocks of rows.
func ReadBlocks(ctx context.Context, r io.Reader, emit func([]Token) error) (Stats, error) {
	var (
		st    Stats
		block []Token
	)
	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		st.Blocks++
		err := emit(block)
		block = nil
		return err
	}
	sc := corpus.NewScanner(r)
	for sc.Scan() {
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		default:
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			if err := flush(); err != nil {
				return st, err
			}
			continue
		}
		st.Rows++
		tok, ok := ParseRow(line)
		if !ok {
			st.Skipped++
			continue
		}
		block = append(block, tok)
	}
	if err := sc.Err(); err != nil {
		return st, err
	}
	return st, flush()
}
