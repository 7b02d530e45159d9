// internal/appcore/core.go
package appcore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"phrasex/core/corpus"
	"phrasex/internal/cli"
	"phrasex/internal/metrics"
	"phrasex/internal/pipeline"
	"phrasex/internal/runutil"
	"phrasex/internal/version"
	"phrasex/internal/writers"
)

// Summary is what one extraction run produced.
type Summary struct {
	corpus.Stats
	Dropped int
	Phrases int
}

// Run extracts phrase pairs for o and streams them to the configured writer.
// stdout receives the rows unless o.Out names a file or the format writes
// elsewhere. The returned error is nil, a cancellation, a runtime error or
// a *runutil.ExitError carrying the no-match exit code.
func Run(parent context.Context, o cli.Options, stdout io.Writer, log *zap.Logger) (Summary, error) {
	started := time.Now()
	m := metrics.New("phrasex")
	var sum Summary

	wf, err := writers.New(o.Output, writers.Options{
		Header: o.Header,
		DB:     o.DB,
		Run: writers.RunInfo{
			Corpus:    o.Corpus,
			Alignment: o.Alignment,
			MaxNgram:  o.MaxNgram,
			Started:   started,
			Version:   version.Version,
		},
	})
	if err != nil {
		return sum, err
	}

	out, closeOut := io.Writer(io.Discard), func() error { return nil }
	if writers.WritesStdout(o.Output) {
		out, closeOut, err = OpenOutput(o.Out, stdout)
		if err != nil {
			return sum, err
		}
	}

	thr := runutil.EffectiveThreads(o.Threads)
	log.Debug("starting extraction",
		zap.String("corpus", o.Corpus),
		zap.String("alignment", o.Alignment),
		zap.Int("max_ngram", o.MaxNgram),
		zap.Int("threads", thr),
		zap.String("output", o.Output))

	inCh, writeErr := wf.Start(out, thr*4)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	stats, perr := pipeline.ForEachBatch(
		ctx,
		pipeline.Config{Threads: thr, MaxNgram: o.MaxNgram},
		corpus.Source{Corpus: o.Corpus, Alignment: o.Alignment},
		func(b pipeline.Batch) error {
			if b.Dropped > 0 || b.Malformed > 0 {
				log.Debug("alignment points ignored",
					zap.Int("line", b.Line),
					zap.Int("out_of_range", b.Dropped),
					zap.Int("malformed", b.Malformed))
			}
			sum.Dropped += b.Dropped
			for _, p := range b.Phrases {
				select {
				case inCh <- writers.Row{Line: b.Line, Phrase: p}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			sum.Phrases += len(b.Phrases)
			return nil
		},
	)
	close(inCh)
	sum.Stats = stats

	werr := <-writeErr
	if cerr := closeOut(); werr == nil {
		werr = cerr
	}

	m.Lines.Add(float64(stats.Lines))
	m.Records.Add(float64(stats.Records))
	m.Skipped.Add(float64(stats.Skipped))
	m.Malformed.Add(float64(stats.Malformed))
	m.Dropped.Add(float64(sum.Dropped))
	m.Phrases.Add(float64(sum.Phrases))
	elapsed := time.Since(started)
	m.Duration.Set(elapsed.Seconds())

	switch {
	case writers.IsBrokenPipe(werr):
		// Downstream closed early (e.g. piped into head); not a failure.
		werr = nil
	case werr != nil:
		werr = fmt.Errorf("write output: %w", werr)
	}
	runErr := errors.Join(werr, perr)
	if runErr == nil {
		m.LastSuccess.SetToCurrentTime()
	}
	if o.MetricsTextfile != "" {
		if err := m.WriteTextfile(o.MetricsTextfile); err != nil {
			log.Warn("failed to write metrics textfile", zap.String("path", o.MetricsTextfile), zap.Error(err))
		}
	}

	if stats.Uneven {
		log.Warn("corpus and alignment differ in length; stopped at the shorter input",
			zap.Int("lines", stats.Lines))
	}
	if stats.Skipped > 0 {
		log.Warn("skipped malformed corpus lines", zap.Int("count", stats.Skipped))
	}
	log.Info("extraction finished",
		zap.Int("lines", stats.Lines),
		zap.Int("records", stats.Records),
		zap.Int("phrases", sum.Phrases),
		zap.Int("malformed_alignment_tokens", stats.Malformed),
		zap.Int("dropped_alignment_points", sum.Dropped),
		zap.Duration("elapsed", elapsed))

	if runErr != nil {
		return sum, runErr
	}
	if sum.Phrases == 0 && o.NoMatchExitCode != 0 {
		return sum, &runutil.ExitError{Code: o.NoMatchExitCode}
	}
	return sum, nil
}
