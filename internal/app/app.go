// internal/app/app.go
package app

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"phrasex/internal/appcore"
	"phrasex/internal/cli"
	"phrasex/internal/clibase"
	"phrasex/internal/logging"
	"phrasex/internal/runutil"
)

const long = `phrasex extracts every phrase pair consistent with a word alignment from a
parallel corpus. Each corpus line is "source ||| target"; alignments are
"i-j" index pairs, one line per sentence pair, either in a separate file or
as a third " ||| " field on the corpus line.`

// NewCommand builds the phrasex root command.
func NewCommand(stdout, stderr io.Writer) *cobra.Command {
	var f cli.Flags
	cmd := clibase.NewRoot("phrasex [flags] CORPUS [ALIGNMENT]",
		"alignment-consistent phrase pair extraction", cobra.RangeArgs(1, 2), stdout, stderr)
	cmd.Long = long
	cmd.Example = clibase.Examples(
		"phrasex corpus.txt corpus.align > phrases.txt",
		"phrasex -n 7 -o tsv --out phrases.tsv.gz corpus.txt corpus.align",
		"phrasex -o sqlite --db phrases.db corpus-with-alignments.txt",
	)
	cli.Register(cmd.Flags(), &f)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opt, err := cli.Resolve(cmd.Flags(), &f, args)
		if err != nil {
			return runutil.Usage(err)
		}
		log, err := logging.New(opt.Log, stderr)
		if err != nil {
			return err
		}
		defer func() { _ = logging.Sync(log) }()
		log = log.Named("phrasex")

		_, err = appcore.Run(cmd.Context(), opt, stdout, log)
		return err
	}
	return cmd
}

// RunContext runs phrasex with argv and returns the process exit code.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	return clibase.Execute(ctx, NewCommand(stdout, stderr), argv, stderr)
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
