// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"phrasex/internal/app"
	"phrasex/internal/writers"
)

func write(t *testing.T, fn, data string) string {
	t.Helper()
	if err := os.WriteFile(fn, []byte(data), 0644); err != nil {
		t.Fatalf("write %s: %v", fn, err)
	}
	return fn
}

// randomCorpus builds n sentence pairs with random alignments, inline or
// as a separate alignment text.
func randomCorpus(n int, seed uint64) (corpusText, inlineText, alignText string) {
	r := rand.New(rand.NewPCG(seed, seed))
	var c, in, a strings.Builder
	for i := 0; i < n; i++ {
		ls, lt := 1+r.IntN(8), 1+r.IntN(8)
		src, tgt := make([]string, ls), make([]string, lt)
		for j := range src {
			src[j] = fmt.Sprintf("s%d", r.IntN(20))
		}
		for j := range tgt {
			tgt[j] = fmt.Sprintf("t%d", r.IntN(20))
		}
		var pts []string
		for e := 0; e < ls; e++ {
			for f := 0; f < lt; f++ {
				if r.IntN(4) == 0 {
					pts = append(pts, fmt.Sprintf("%d-%d", e, f))
				}
			}
		}
		pair := strings.Join(src, " ") + " ||| " + strings.Join(tgt, " ")
		al := strings.Join(pts, " ")
		c.WriteString(pair + "\n")
		in.WriteString(pair + " ||| " + al + "\n")
		a.WriteString(al + "\n")
	}
	return c.String(), in.String(), a.String()
}

func run(t *testing.T, argv ...string) string {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := app.Run(append([]string{"-q"}, argv...), &out, &errBuf)
	if code != 0 {
		t.Fatalf("run %v exit %d, err=%s", argv, code, errBuf.String())
	}
	return out.String()
}

func TestEndToEnd(t *testing.T) {
	dir := t.TempDir()
	c := write(t, filepath.Join(dir, "c.txt"), "das Haus ||| the house\n")
	a := write(t, filepath.Join(dir, "a.txt"), "0-0 1-1\n")

	got := run(t, c, a)
	want := "das ||| the\ndas Haus ||| the house\nHaus ||| house\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	dir := t.TempDir()
	corpusText, _, alignText := randomCorpus(300, 42)
	c := write(t, filepath.Join(dir, "c.txt"), corpusText)
	a := write(t, filepath.Join(dir, "a.txt"), alignText)

	for _, format := range []string{"text", "tsv", "jsonl"} {
		serial := run(t, "-t", "1", "-o", format, c, a)
		parallel := run(t, "-t", "8", "-o", format, c, a)
		if serial != parallel {
			t.Fatalf("%s: parallel output differs from serial", format)
		}
		if serial == "" {
			t.Fatalf("%s: expected output", format)
		}
	}
}

func TestInlineMatchesSeparate(t *testing.T) {
	dir := t.TempDir()
	corpusText, inlineText, alignText := randomCorpus(100, 7)
	c := write(t, filepath.Join(dir, "c.txt"), corpusText)
	a := write(t, filepath.Join(dir, "a.txt"), alignText)
	in := write(t, filepath.Join(dir, "inline.txt"), inlineText)

	if sep, inl := run(t, "-n", "4", c, a), run(t, "-n", "4", in); sep != inl {
		t.Fatal("inline alignment output differs from separate alignment file")
	}
}

func TestMaxNgramNarrowsOutput(t *testing.T) {
	dir := t.TempDir()
	corpusText, _, alignText := randomCorpus(100, 9)
	c := write(t, filepath.Join(dir, "c.txt"), corpusText)
	a := write(t, filepath.Join(dir, "a.txt"), alignText)

	small := strings.Count(run(t, "-n", "2", c, a), "\n")
	large := strings.Count(run(t, "-n", "0", c, a), "\n")
	if small > large {
		t.Fatalf("-n 2 produced %d rows, more than unbounded %d", small, large)
	}
}

func TestSQLiteOutput(t *testing.T) {
	dir := t.TempDir()
	_, inlineText, _ := randomCorpus(50, 3)
	in := write(t, filepath.Join(dir, "inline.txt"), inlineText)
	db := filepath.Join(dir, "phrases.db")

	text := run(t, in)
	if out := run(t, "-o", "sqlite", "--db", db, in); out != "" {
		t.Fatalf("sqlite output should not write stdout, got %q", out)
	}

	tbl, err := writers.OpenPhraseTable(db)
	if err != nil {
		t.Fatal(err)
	}
	defer tbl.Close()
	ids, err := tbl.Runs()
	if err != nil || len(ids) != 1 {
		t.Fatalf("runs=%v err=%v", ids, err)
	}
	rows, err := tbl.Phrases(ids[0])
	if err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r.Source + " ||| " + r.Target + "\n")
	}
	if b.String() != text {
		t.Fatal("sqlite rows differ from text output")
	}
}

func TestNoMatchExitCode(t *testing.T) {
	dir := t.TempDir()
	c := write(t, filepath.Join(dir, "c.txt"), "a ||| x ||| 9-9\n")
	var out, errBuf bytes.Buffer
	if code := app.Run([]string{"-q", "--no-match-exit-code", "1", c}, &out, &errBuf); code != 1 {
		t.Fatalf("expected exit 1, got %d (%s)", code, errBuf.String())
	}
}
