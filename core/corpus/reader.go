// core/corpus/reader.go
package corpus

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"phrasex/core/phrase"
)

// Separator splits fields of a parallel corpus line.
const Separator = " ||| "

// Source names the inputs of one extraction run. When Alignment is empty
// each corpus line must carry the alignment as a third field.
type Source struct {
	Corpus    string
	Alignment string
}

// Inline reports whether alignments are read from the corpus itself.
func (s Source) Inline() bool { return s.Alignment == "" }

// Record is one sentence pair ready for extraction.
type Record struct {
	Line      int // 1-based line number in the corpus
	Source    []string
	Target    []string
	Points    []phrase.Point
	Malformed int // alignment tokens that failed to parse
}

// Stats summarises a read.
type Stats struct {
	Lines     int // lines consumed from the corpus
	Records   int // records emitted
	Skipped   int // lines with the wrong number of fields
	Malformed int // alignment tokens skipped across all records
	// Uneven is set when the corpus and alignment file differ in length;
	// reading stops at the shorter one.
	Uneven bool
}

// SplitFields trims line and splits it on Separator.
func SplitFields(line string) []string {
	return strings.Split(strings.TrimSpace(line), Separator)
}

// ParseLine turns a corpus line (and its alignment string, if separate)
// into a record. ok is false when the line has the wrong field count.
func ParseLine(lineNo int, line, alignment string, inline bool) (Record, bool) {
	fields := SplitFields(line)
	want := 2
	if inline {
		want = 3
	}
	if len(fields) != want {
		return Record{}, false
	}
	if inline {
		alignment = fields[2]
	}
	pts, bad := phrase.ParseAlignment(alignment)
	return Record{
		Line:      lineNo,
		Source:    strings.Fields(fields[0]),
		Target:    strings.Fields(fields[1]),
		Points:    pts,
		Malformed: bad,
	}, true
}

// Stream reads src line by line and calls emit for every well-formed
// record. It honours ctx between lines and stops at the first emit error.
func Stream(ctx context.Context, src Source, emit func(Record) error) (Stats, error) {
	var st Stats
	crc, err := Open(src.Corpus)
	if err != nil {
		return st, fmt.Errorf("open corpus: %w", err)
	}
	defer crc.Close()
	csc := NewScanner(crc)

	var asc *bufio.Scanner
	if !src.Inline() {
		arc, err := Open(src.Alignment)
		if err != nil {
			return st, fmt.Errorf("open alignment: %w", err)
		}
		defer arc.Close()
		asc = NewScanner(arc)
	}

	for csc.Scan() {
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		default:
		}
		line := csc.Text()
		var align string
		if asc != nil {
			if !asc.Scan() {
				st.Uneven = true
				break
			}
			align = asc.Text()
		}
		st.Lines++

		rec, ok := ParseLine(st.Lines, line, align, asc == nil)
		if !ok {
			st.Skipped++
			continue
		}
		st.Records++
		st.Malformed += rec.Malformed
		if err := emit(rec); err != nil {
			return st, err
		}
	}
	if err := csc.Err(); err != nil && !errors.Is(err, io.EOF) {
		return st, fmt.Errorf("corpus scan: %w", err)
	}
	if asc != nil {
		if err := asc.Err(); err != nil {
			return st, fmt.Errorf("alignment scan: %w", err)
		}
		if !st.Uneven && asc.Scan() {
			st.Uneven = true
		}
	}
	return st, nil
}
