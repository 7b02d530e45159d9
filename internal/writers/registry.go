// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"
	"time"

	"phrasex/core/phrase"
)

// Row is one phrase pair on its way out, tagged with its corpus line.
type Row struct {
	Line int
	phrase.Phrase
}

// Factory starts a writer goroutine. Rows sent on the returned channel are
// written in order; after the channel is closed the error channel yields
// exactly one value.
type Factory interface {
	Start(out io.Writer, bufSize int) (chan<- Row, <-chan error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(out io.Writer, bufSize int) (chan<- Row, <-chan error)

func (f FactoryFunc) Start(out io.Writer, bufSize int) (chan<- Row, <-chan error) {
	return f(out, bufSize)
}

// RunInfo describes the run being written, for sinks that record it.
type RunInfo struct {
	Corpus    string
	Alignment string
	MaxNgram  int
	Started   time.Time
	Version   string
}

// Options configures a writer.
type Options struct {
	Header bool   // column header for TSV
	DB     string // database path for sqlite
	Run    RunInfo
}

// Writer registry (format → constructor). Register in init() blocks.
var registry = map[string]func(Options) (Factory, error){}

// Register adds a format (idempotent last-wins).
func Register(format string, fn func(Options) (Factory, error)) { registry[format] = fn }

// New returns the factory registered for format.
func New(format string, opt Options) (Factory, error) {
	fn, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return fn(opt)
}

// Formats lists registered format names.
func Formats() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// WritesStdout reports whether format streams to the output writer rather
// than to a side store.
func WritesStdout(format string) bool { return format != "sqlite" }
