// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"phrasex/internal/clibase"
	"phrasex/internal/config"
	"phrasex/internal/writers"
)

// Flags holds the raw flag values of the phrasex command.
type Flags struct {
	clibase.Common

	Alignment       string
	MaxNgram        int
	Threads         int
	Output          string
	Out             string
	DB              string
	NoHeader        bool
	MetricsTextfile string
	NoMatchExitCode int
}

// Options is the resolved run: positionals, config file, environment and
// flags merged in that order of increasing precedence.
type Options struct {
	config.Config

	Corpus    string
	Alignment string
}

// Register wires the phrasex flags onto fs.
func Register(fs *pflag.FlagSet, f *Flags) {
	d := config.Default()

	// Input
	fs.StringVarP(&f.Alignment, "alignment", "a", "", "alignment file (default: third ' ||| ' field of each corpus line)")

	// Extraction
	fs.IntVarP(&f.MaxNgram, "max-ngram", "n", d.MaxNgram, "max phrase length on either side (0=unlimited)")
	fs.IntVarP(&f.Threads, "threads", "t", d.Threads, "worker threads (0=all CPUs)")

	// Output
	fs.StringVarP(&f.Output, "output", "o", d.Output, "output: "+strings.Join(writers.Formats(), " | "))
	fs.StringVar(&f.Out, "out", "", "write output to file instead of stdout (.gz compresses)")
	fs.StringVar(&f.DB, "db", "", "SQLite database path for --output sqlite")
	fs.BoolVar(&f.NoHeader, "no-header", false, "suppress header line in TSV")
	fs.StringVar(&f.MetricsTextfile, "metrics-textfile", "", "write Prometheus textfile metrics on exit")
	fs.IntVar(&f.NoMatchExitCode, "no-match-exit-code", d.NoMatchExitCode, "exit code when no phrase pair was extracted")

	clibase.Register(fs, &f.Common)
}

// Resolve loads the config file and environment, applies the flags that
// were set explicitly and binds positionals (CORPUS [ALIGNMENT]).
func Resolve(fs *pflag.FlagSet, f *Flags, args []string) (Options, error) {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return Options{}, err
	}
	opt := Options{Config: cfg}

	if fs.Changed("max-ngram") {
		opt.MaxNgram = f.MaxNgram
	}
	if fs.Changed("threads") {
		opt.Threads = f.Threads
	}
	if fs.Changed("output") {
		opt.Output = f.Output
	}
	if fs.Changed("out") {
		opt.Out = f.Out
	}
	if fs.Changed("db") {
		opt.DB = f.DB
	}
	if fs.Changed("no-header") {
		opt.Header = !f.NoHeader
	}
	if fs.Changed("metrics-textfile") {
		opt.MetricsTextfile = f.MetricsTextfile
	}
	if fs.Changed("no-match-exit-code") {
		opt.NoMatchExitCode = f.NoMatchExitCode
	}
	opt.Log = f.LogConfig(fs, opt.Log)

	if len(args) > 0 {
		opt.Corpus = args[0]
	}
	opt.Alignment = f.Alignment
	if len(args) > 1 {
		if f.Alignment != "" {
			return opt, errors.New("alignment given both as --alignment and as a positional argument")
		}
		opt.Alignment = args[1]
	}
	return opt, opt.Validate()
}

// Validate applies cross-field checks on top of config validation.
func (o Options) Validate() error {
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if o.Corpus == "" {
		return errors.New("a corpus file is required")
	}
	if o.Corpus == "-" && o.Alignment == "-" {
		return errors.New("corpus and alignment cannot both be read from stdin")
	}
	if !slices.Contains(writers.Formats(), o.Output) {
		return fmt.Errorf("invalid --output %q", o.Output)
	}
	if o.Output == "sqlite" && o.DB == "" {
		return errors.New("--output sqlite requires --db")
	}
	if o.Output != "sqlite" && o.DB != "" {
		return errors.New("--db is only valid with --output sqlite")
	}
	return nil
}
