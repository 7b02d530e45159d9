// internal/bleuapp/app.go
package bleuapp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"phrasex/core/bleu"
	"phrasex/core/corpus"
	"phrasex/internal/clibase"
	"phrasex/internal/config"
	"phrasex/internal/jsonutil"
	"phrasex/internal/logging"
	"phrasex/internal/runutil"
	"phrasex/pkg/api"
)

// References holds one slice of lines per reference file.
type References [][]string

// LoadReferences reads stem when it exists, otherwise stem0, stem1, ...
// until the first missing index.
func LoadReferences(stem string, lower bool) (References, error) {
	if _, err := os.Stat(stem); err == nil {
		lines, err := readLines(stem, lower)
		if err != nil {
			return nil, err
		}
		return References{lines}, nil
	}
	var refs References
	for i := 0; ; i++ {
		fn := stem + strconv.Itoa(i)
		if _, err := os.Stat(fn); errors.Is(err, os.ErrNotExist) {
			break
		}
		lines, err := readLines(fn, lower)
		if err != nil {
			return nil, err
		}
		refs = append(refs, lines)
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("could not find reference file %s", stem)
	}
	return refs, nil
}

func readLines(path string, lower bool) ([]string, error) {
	rc, err := corpus.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference: %w", err)
	}
	defer rc.Close()
	var lines []string
	sc := corpus.NewScanner(rc)
	for sc.Scan() {
		lines = append(lines, normalize(sc.Text(), lower))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read reference %s: %w", path, err)
	}
	return lines, nil
}

func normalize(s string, lower bool) string {
	if lower {
		return strings.ToLower(s)
	}
	return s
}

// sentence returns the references for hypothesis line i. Files shorter
// than the hypothesis contribute nothing for the missing lines.
func (r References) sentence(i int) [][]string {
	out := make([][]string, 0, len(r))
	for _, f := range r {
		if i < len(f) {
			out = append(out, strings.Fields(f[i]))
		}
	}
	return out
}

// Evaluate scores hypotheses read line by line from hyp against refs.
func Evaluate(ctx context.Context, hyp io.Reader, refs References, lower bool) (bleu.Stats, int, error) {
	var st bleu.Stats
	sc := corpus.NewScanner(hyp)
	n := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return st, n, err
		}
		rs := refs.sentence(n)
		if len(rs) == 0 {
			return st, n, fmt.Errorf("hypothesis line %d has no reference", n+1)
		}
		st.Add(strings.Fields(normalize(sc.Text(), lower)), rs)
		n++
	}
	if err := sc.Err(); err != nil {
		return st, n, fmt.Errorf("read hypothesis: %w", err)
	}
	return st, n, nil
}

// ToAPI converts a score to its JSON schema.
func ToAPI(s bleu.Score) api.BLEUScoreV1 {
	return api.BLEUScoreV1{
		BLEU:       s.BLEU,
		Precisions: s.Precisions,
		BP:         s.BP,
		Ratio:      s.Ratio,
		HypLen:     s.HypLen,
		RefLen:     s.RefLen,
	}
}

// legacyArgs accepts the single-dash -lc spelling used by multi-bleu.perl.
func legacyArgs(argv []string) []string {
	out := make([]string, len(argv))
	for i, a := range argv {
		if a == "-lc" {
			a = "--lc"
		}
		out[i] = a
	}
	return out
}

// NewCommand builds the phrasex-bleu root command.
func NewCommand(stdout, stderr io.Writer) *cobra.Command {
	var (
		common clibase.Common
		lower  bool
		hyp    string
		asJSON bool
	)
	cmd := clibase.NewRoot("phrasex-bleu [flags] REFERENCE < HYPOTHESIS",
		"corpus BLEU in the multi-bleu.perl format", cobra.ExactArgs(1), stdout, stderr)
	cmd.Long = `phrasex-bleu scores a tokenised hypothesis against one or more references.
REFERENCE is a file, or a stem whose files are REFERENCE0, REFERENCE1, ...`
	cmd.Example = clibase.Examples(
		"phrasex-bleu ref.en < hyp.en",
		"phrasex-bleu -lc --hyp hyp.en ref.en",
	)
	fs := cmd.Flags()
	fs.BoolVar(&lower, "lc", false, "lowercase hypothesis and references")
	fs.StringVar(&hyp, "hyp", "-", "hypothesis file ('-' for stdin)")
	fs.BoolVar(&asJSON, "json", false, "print the score as indented JSON")
	clibase.Register(fs, &common)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(common.ConfigPath)
		if err != nil {
			return runutil.Usage(err)
		}
		log, err := common.Logger(fs, cfg.Log, stderr, "phrasex-bleu")
		if err != nil {
			return runutil.Usage(err)
		}
		defer func() { _ = logging.Sync(log) }()

		refs, err := LoadReferences(args[0], lower)
		if err != nil {
			return err
		}
		log.Debug("loaded references", zap.Int("files", len(refs)))

		var in io.Reader = cmd.InOrStdin()
		if hyp != "-" {
			rc, err := corpus.Open(hyp)
			if err != nil {
				return fmt.Errorf("open hypothesis: %w", err)
			}
			defer rc.Close()
			in = rc
		}

		st, n, err := Evaluate(cmd.Context(), in, refs, lower)
		if err != nil {
			return err
		}
		for _, f := range refs {
			if len(f) != n {
				log.Warn("reference and hypothesis differ in length",
					zap.Int("reference_lines", len(f)), zap.Int("hypothesis_lines", n))
				break
			}
		}

		score := st.Score()
		bw := bufio.NewWriter(stdout)
		if asJSON {
			if err := jsonutil.EncodePretty(bw, ToAPI(score)); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(bw, score.String())
		}
		return bw.Flush()
	}
	return cmd
}

// RunContext runs phrasex-bleu with argv and returns the exit code.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	return clibase.Execute(ctx, NewCommand(stdout, stderr), legacyArgs(argv), stderr)
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
