package writers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phrasex/core/phrase"
	"phrasex/pkg/api"
)

func sampleRows() []Row {
	return []Row{
		{Line: 1, Phrase: phrase.Phrase{Source: "a", Target: "x", SourceSpan: phrase.Span{Start: 0, End: 0}, TargetSpan: phrase.Span{Start: 0, End: 0}}},
		{Line: 1, Phrase: phrase.Phrase{Source: "a", Target: "x y", SourceSpan: phrase.Span{Start: 0, End: 0}, TargetSpan: phrase.Span{Start: 0, End: 1}}},
		{Line: 3, Phrase: phrase.Phrase{Source: "b c", Target: "z", SourceSpan: phrase.Span{Start: 1, End: 2}, TargetSpan: phrase.Span{Start: 2, End: 2}}},
	}
}

func run(t *testing.T, format string, opt Options) string {
	t.Helper()
	f, err := New(format, opt)
	require.NoError(t, err)
	var buf bytes.Buffer
	in, done := f.Start(&buf, 1)
	for _, r := range sampleRows() {
		in <- r
	}
	close(in)
	require.NoError(t, <-done)
	return buf.String()
}

func TestTextWriter(t *testing.T) {
	assert.Equal(t, "a ||| x\na ||| x y\nb c ||| z\n", run(t, "text", Options{}))
}

func TestTSVWriter(t *testing.T) {
	got := run(t, "tsv", Options{Header: true})
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, TSVHeader, lines[0])
	assert.Equal(t, "3\t1-2\t2-2\tb c\tz", lines[3])

	noHeader := run(t, "tsv", Options{})
	assert.True(t, strings.HasPrefix(noHeader, "1\t0-0\t0-0\ta\tx\n"))
}

func TestJSONLWriter(t *testing.T) {
	sc := bufio.NewScanner(strings.NewReader(run(t, "jsonl", Options{})))
	var got []api.PhrasePairV1
	for sc.Scan() {
		var p api.PhrasePairV1
		require.NoError(t, json.Unmarshal(sc.Bytes(), &p))
		got = append(got, p)
	}
	require.Len(t, got, 3)
	assert.Equal(t, api.PhrasePairV1{Line: 3, Source: "b c", Target: "z", SourceStart: 1, SourceEnd: 2, TargetStart: 2, TargetEnd: 2}, got[2])
}

func TestUnknownFormat(t *testing.T) {
	_, err := New("nope-format", Options{})
	assert.ErrorContains(t, err, "unknown output format")
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"jsonl", "sqlite", "text", "tsv"}, Formats())
	assert.False(t, WritesStdout("sqlite"))
	assert.True(t, WritesStdout("text"))
}

func TestSQLiteRequiresDB(t *testing.T) {
	_, err := New("sqlite", Options{})
	assert.Error(t, err)
}

func TestSQLiteWriter(t *testing.T) {
	db := filepath.Join(t.TempDir(), "phrases.db")
	opt := Options{DB: db, Run: RunInfo{Corpus: "c.txt", MaxNgram: 7, Started: time.Unix(100, 0)}}
	assert.Empty(t, run(t, "sqlite", opt))
	run(t, "sqlite", opt)

	tbl, err := OpenPhraseTable(db)
	require.NoError(t, err)
	defer tbl.Close()

	ids, err := tbl.Runs()
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])

	n, err := tbl.Count(ids[0])
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := tbl.Phrases(ids[1])
	require.NoError(t, err)
	assert.Equal(t, sampleRows(), rows)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestWriteErrorReported(t *testing.T) {
	in, done := startLines(failWriter{}, 1, "", writeText)
	for _, r := range sampleRows() {
		in <- r
	}
	close(in)
	err := <-done
	assert.True(t, IsBrokenPipe(err))
}
