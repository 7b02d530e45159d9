package corpus

import (
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phrasex/core/phrase"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fn, []byte(data), 0o644))
	return fn
}

func collect(t *testing.T, src Source) ([]Record, Stats) {
	t.Helper()
	var recs []Record
	st, err := Stream(context.Background(), src, func(r Record) error {
		recs = append(recs, r)
		return nil
	})
	require.NoError(t, err)
	return recs, st
}

func TestStreamSeparateAlignment(t *testing.T) {
	c := writeFile(t, "c.txt", "a b ||| x y\nbroken line\n c ||| z \n")
	a := writeFile(t, "a.txt", "0-0 1-1\n0-0\n0-0 bad\n")

	recs, st := collect(t, Source{Corpus: c, Alignment: a})
	require.Len(t, recs, 2)
	assert.Equal(t, 1, recs[0].Line)
	assert.Equal(t, []string{"a", "b"}, recs[0].Source)
	assert.Equal(t, []phrase.Point{{Src: 0, Tgt: 0}, {Src: 1, Tgt: 1}}, recs[0].Points)
	assert.Equal(t, 3, recs[1].Line)
	assert.Equal(t, []string{"z"}, recs[1].Target)
	assert.Equal(t, 1, recs[1].Malformed)
	assert.Equal(t, Stats{Lines: 3, Records: 2, Skipped: 1, Malformed: 1}, st)
}

func TestStreamInlineAlignment(t *testing.T) {
	c := writeFile(t, "c.txt", "a b ||| x y ||| 0-1 1-0\na ||| x\n")
	recs, st := collect(t, Source{Corpus: c})
	require.Len(t, recs, 1)
	assert.Equal(t, []phrase.Point{{Src: 0, Tgt: 1}, {Src: 1, Tgt: 0}}, recs[0].Points)
	assert.Equal(t, 1, st.Skipped)
}

func TestStreamUnevenInputs(t *testing.T) {
	c := writeFile(t, "c.txt", "a ||| x\nb ||| y\n")
	a := writeFile(t, "a.txt", "0-0\n")
	recs, st := collect(t, Source{Corpus: c, Alignment: a})
	assert.Len(t, recs, 1)
	assert.True(t, st.Uneven)

	a2 := writeFile(t, "a2.txt", "0-0\n0-0\n0-0\n")
	_, st = collect(t, Source{Corpus: c, Alignment: a2})
	assert.True(t, st.Uneven)
}

func TestStreamGzip(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "c.txt.gz")
	fh, err := os.Create(fn)
	require.NoError(t, err)
	gw := gzip.NewWriter(fh)
	_, err = gw.Write([]byte("a ||| x ||| 0-0\n"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, fh.Close())

	recs, _ := collect(t, Source{Corpus: fn})
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"x"}, recs[0].Target)
}

func TestStreamCancelled(t *testing.T) {
	c := writeFile(t, "c.txt", "a ||| x ||| 0-0\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := 0
	_, err := Stream(ctx, Source{Corpus: c}, func(Record) error { n++; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestStreamEmitErrorStops(t *testing.T) {
	c := writeFile(t, "c.txt", "a ||| x ||| 0-0\nb ||| y ||| 0-0\n")
	boom := errors.New("boom")
	n := 0
	_, err := Stream(context.Background(), Source{Corpus: c}, func(Record) error { n++; return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, n)
}

func TestStreamMissingFile(t *testing.T) {
	_, err := Stream(context.Background(), Source{Corpus: filepath.Join(t.TempDir(), "nope")}, func(Record) error { return nil })
	assert.Error(t, err)
}

func TestSplitFields(t *testing.T) {
	assert.Equal(t, []string{"a b", "x"}, SplitFields("  a b ||| x \n"))
	assert.Len(t, SplitFields("a|||b"), 1)
}
