// internal/spansapp/app.go
package spansapp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"phrasex/core/corpus"
	"phrasex/core/iobes"
	"phrasex/internal/clibase"
	"phrasex/internal/cliutil"
	"phrasex/internal/config"
	"phrasex/internal/jsonlutil"
	"phrasex/internal/logging"
	"phrasex/internal/runutil"
	"phrasex/internal/writers"
	"phrasex/pkg/api"
)

// Output formats.
const (
	FormatText  = "text"
	FormatJSONL = "jsonl"
)

// sink receives spans of one block; blocks are numbered from 1.
type sink func(block int, spans []iobes.Labeled) error

func textSink(bw *bufio.Writer) sink {
	return func(_ int, spans []iobes.Labeled) error {
		for _, s := range spans {
			bw.WriteString(s.Label)
			bw.WriteByte('\t')
			bw.WriteString(s.Text)
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
		return nil
	}
}

// Extract reads SENNA output from r and passes the spans of every block
// to emit.
func Extract(ctx context.Context, r io.Reader, emit sink) (iobes.Stats, error) {
	n := 0
	return iobes.ReadBlocks(ctx, r, func(toks []iobes.Token) error {
		n++
		return emit(n, iobes.Block(toks))
	})
}

// NewCommand builds the phrasex-spans root command.
func NewCommand(stdout, stderr io.Writer) *cobra.Command {
	var (
		common clibase.Common
		format string
	)
	cmd := clibase.NewRoot("phrasex-spans [flags] [SENNA_OUTPUT...]",
		"labelled spans from SENNA IOBES tags", nil, stdout, stderr)
	cmd.Long = `phrasex-spans reads SENNA output (blank-line separated blocks, one token per
row) and prints every chunk, named-entity and semantic-role span as
"LABEL<TAB>tokens". Input is stdin when no file is given.`
	cmd.Example = clibase.Examples(
		"senna < text.txt | phrasex-spans",
		"phrasex-spans -o jsonl tagged.senna > spans.jsonl",
	)
	fs := cmd.Flags()
	fs.StringVarP(&format, "output", "o", FormatText, "output: text | jsonl")
	clibase.Register(fs, &common)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if format != FormatText && format != FormatJSONL {
			return runutil.Usagef("invalid --output %q", format)
		}
		cfg, err := config.Load(common.ConfigPath)
		if err != nil {
			return runutil.Usage(err)
		}
		log, err := common.Logger(fs, cfg.Log, stderr, "phrasex-spans")
		if err != nil {
			return runutil.Usage(err)
		}
		defer func() { _ = logging.Sync(log) }()

		if len(args) == 0 {
			args = []string{"-"}
		}
		args, err = cliutil.ExpandInputs(args)
		if err != nil {
			return runutil.Usage(err)
		}

		var (
			emit   sink
			finish func() error
		)
		switch format {
		case FormatJSONL:
			ch, done := jsonlutil.Start(stdout, 64, func(enc *json.Encoder, s api.SpanV1) error {
				return enc.Encode(s)
			}, writers.IsBrokenPipe)
			ctx := cmd.Context()
			emit = func(block int, spans []iobes.Labeled) error {
				for _, s := range spans {
					select {
					case ch <- api.SpanV1{Block: block, Label: s.Label, Text: s.Text}:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
				return nil
			}
			finish = func() error { close(ch); return <-done }
		default:
			bw := bufio.NewWriter(stdout)
			emit, finish = textSink(bw), bw.Flush
		}

		var total iobes.Stats
		var runErr error
		for _, path := range args {
			var in io.Reader = cmd.InOrStdin()
			if path != "-" {
				rc, err := corpus.Open(path)
				if err != nil {
					runErr = fmt.Errorf("open input: %w", err)
					break
				}
				defer rc.Close()
				in = rc
			}
			st, err := Extract(cmd.Context(), in, offset(emit, total.Blocks))
			total.Blocks += st.Blocks
			total.Rows += st.Rows
			total.Skipped += st.Skipped
			if err != nil {
				runErr = err
				break
			}
		}
		if err := finish(); runErr == nil && !writers.IsBrokenPipe(err) {
			runErr = err
		}
		if writers.IsBrokenPipe(runErr) {
			runErr = nil
		}
		if total.Skipped > 0 {
			log.Warn("skipped malformed rows", zap.Int("count", total.Skipped))
		}
		log.Info("span extraction finished",
			zap.Int("blocks", total.Blocks), zap.Int("rows", total.Rows))
		return runErr
	}
	return cmd
}

// offset keeps block numbers increasing across input files.
func offset(emit sink, base int) sink {
	return func(block int, spans []iobes.Labeled) error { return emit(base+block, spans) }
}

// RunContext runs phrasex-spans with argv and returns the exit code.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	return clibase.Execute(ctx, NewCommand(stdout, stderr), argv, stderr)
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
