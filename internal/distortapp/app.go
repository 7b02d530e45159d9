// internal/distortapp/app.go
package distortapp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"phrasex/core/corpus"
	"phrasex/core/distort"
	"phrasex/internal/appcore"
	"phrasex/internal/clibase"
	"phrasex/internal/config"
	"phrasex/internal/logging"
	"phrasex/internal/runutil"
	"phrasex/internal/writers"
)

// progressEvery is how often (in pairs) progress is logged.
const progressEvery = 10000

// Options configures one distortion run.
type Options struct {
	Input  string
	Output string
	Ratios []float64
	Unk    string
	Seed   uint64
}

// Stats counts what a run read and wrote.
type Stats struct {
	Lines   int
	Pairs   int
	Skipped int
	Written int
}

// Distort reads "source ||| target" pairs from in and writes each pair
// followed by one copy per ratio with source tokens replaced by o.Unk.
func Distort(ctx context.Context, in io.Reader, out io.Writer, o Options, r *rand.Rand, log *zap.Logger) (Stats, error) {
	var st Stats
	sc := corpus.NewScanner(in)
	bw := bufio.NewWriter(out)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		idx := st.Lines
		st.Lines++
		parts := corpus.SplitFields(sc.Text())
		if len(parts) != 2 {
			st.Skipped++
			continue
		}
		src, tgt := parts[0], parts[1]
		fmt.Fprintf(bw, "%s%s%s\n", src, corpus.Separator, tgt)
		toks := strings.Fields(src)
		for _, p := range o.Ratios {
			d := distort.Tokens(toks, p, o.Unk, r)
			fmt.Fprintf(bw, "%s%s%s\n", strings.Join(d, " "), corpus.Separator, tgt)
		}
		st.Pairs++
		st.Written += 1 + len(o.Ratios)
		if idx%progressEvery == 0 {
			log.Info("processing pair", zap.Int("line", idx))
		}
	}
	if err := sc.Err(); err != nil {
		return st, fmt.Errorf("read input: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return st, fmt.Errorf("write output: %w", err)
	}
	return st, nil
}

func validate(o Options) error {
	if o.Unk == "" {
		return errors.New("--unk must not be empty")
	}
	for _, p := range o.Ratios {
		if p < 0 || p > 1 {
			return fmt.Errorf("ratio %v outside [0,1]", p)
		}
	}
	return nil
}

// NewCommand builds the phrasex-distort root command.
func NewCommand(stdout, stderr io.Writer) *cobra.Command {
	var (
		common clibase.Common
		o      Options
	)
	cmd := clibase.NewRoot("phrasex-distort [flags] INPUT [OUTPUT]",
		"augment a parallel corpus with unknown-token noise", cobra.RangeArgs(1, 2), stdout, stderr)
	cmd.Long = `phrasex-distort copies every "source ||| target" pair and adds one variant per
ratio in which round(len*ratio) source positions, drawn with replacement,
are replaced by the unknown token. Targets are never changed.`
	cmd.Example = clibase.Examples(
		"phrasex-distort train.txt train.distorted.txt",
		"phrasex-distort --ratios 0.05,0.15 --seed 7 train.txt > noisy.txt",
	)
	fs := cmd.Flags()
	fs.Float64SliceVar(&o.Ratios, "ratios", distort.DefaultRatios, "noise ratios, one output copy each")
	fs.StringVar(&o.Unk, "unk", distort.Unknown, "replacement token")
	fs.Uint64Var(&o.Seed, "seed", 0, "random seed (0=random)")
	clibase.Register(fs, &common)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		o.Input = args[0]
		if len(args) > 1 {
			o.Output = args[1]
		}
		if err := validate(o); err != nil {
			return runutil.Usage(err)
		}
		cfg, err := config.Load(common.ConfigPath)
		if err != nil {
			return runutil.Usage(err)
		}
		log, err := common.Logger(fs, cfg.Log, stderr, "phrasex-distort")
		if err != nil {
			return runutil.Usage(err)
		}
		defer func() { _ = logging.Sync(log) }()

		seed := o.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		log.Debug("seeded", zap.Uint64("seed", seed))

		in, err := corpus.Open(o.Input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer in.Close()
		out, closeOut, err := appcore.OpenOutput(o.Output, stdout)
		if err != nil {
			return err
		}

		st, err := Distort(cmd.Context(), in, out, o, rand.New(rand.NewPCG(seed, seed)), log)
		if cerr := closeOut(); err == nil {
			err = cerr
		}
		if writers.IsBrokenPipe(err) {
			err = nil
		}
		log.Info("distortion finished",
			zap.Int("pairs", st.Pairs),
			zap.Int("skipped", st.Skipped),
			zap.Int("written", st.Written))
		return err
	}
	return cmd
}

// RunContext runs phrasex-distort with argv and returns the exit code.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	return clibase.Execute(ctx, NewCommand(stdout, stderr), argv, stderr)
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
