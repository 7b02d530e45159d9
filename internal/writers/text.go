// internal/writers/text.go
package writers

import (
	"bufio"
	"io"
	"strconv"
)

func init() {
	Register("text", func(Options) (Factory, error) {
		return FactoryFunc(func(out io.Writer, bufSize int) (chan<- Row, <-chan error) {
			return startLines(out, bufSize, "", writeText)
		}), nil
	})
	Register("tsv", func(o Options) (Factory, error) {
		header := ""
		if o.Header {
			header = TSVHeader
		}
		return FactoryFunc(func(out io.Writer, bufSize int) (chan<- Row, <-chan error) {
			return startLines(out, bufSize, header, writeTSV)
		}), nil
	})
}

// TSVHeader names the tsv columns.
const TSVHeader = "line\tsource_span\ttarget_span\tsource\ttarget"

// writeText renders "<source_phrase> ||| <target_phrase>".
func writeText(w *bufio.Writer, r Row) error {
	w.WriteString(r.Source)
	w.WriteString(" ||| ")
	w.WriteString(r.Target)
	return w.WriteByte('\n')
}

func writeTSV(w *bufio.Writer, r Row) error {
	w.WriteString(strconv.Itoa(r.Line))
	w.WriteByte('\t')
	w.WriteString(r.SourceSpan.String())
	w.WriteByte('\t')
	w.WriteString(r.TargetSpan.String())
	w.WriteByte('\t')
	w.WriteString(r.Source)
	w.WriteByte('\t')
	w.WriteString(r.Target)
	return w.WriteByte('\n')
}

// startLines streams rows through render. bufio.Writer keeps the first
// write error sticky, so render's result is only checked once per row.
func startLines(out io.Writer, bufSize int, header string, render func(*bufio.Writer, Row) error) (chan<- Row, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan Row, bufSize)
	errCh := make(chan error, 1)

	go func() {
		bw := bufio.NewWriterSize(out, 64<<10)
		var err error
		if header != "" {
			_, err = bw.WriteString(header + "\n")
		}
		for r := range in {
			if err != nil {
				continue
			}
			err = render(bw, r)
		}
		if err == nil {
			err = bw.Flush()
		}
		errCh <- err
	}()
	return in, errCh
}
