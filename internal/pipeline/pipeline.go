// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"sync"

	"phrasex/core/corpus"
	"phrasex/core/phrase"
)

// Config controls the extraction pipeline.
type Config struct {
	Threads  int // number of worker goroutines (>=1)
	MaxNgram int // phrase length bound on both sides; 0 = unbounded
}

// Batch is everything extracted from one sentence pair.
type Batch struct {
	Line      int
	Phrases   []phrase.Phrase
	Dropped   int // out-of-range alignment points
	Malformed int // unparsable alignment tokens
}

// ForEachBatch streams records from src through cfg.Threads extraction
// workers and calls visit once per record, in corpus order, whatever the
// thread count. It returns the reader statistics and the first error
// encountered (including context cancellation).
func ForEachBatch(
	parent context.Context,
	cfg Config,
	src corpus.Source,
	visit func(Batch) error,
) (corpus.Stats, error) {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	type job struct {
		seq int
		rec corpus.Record
	}
	type result struct {
		seq   int
		batch Batch
	}
	jobs := make(chan job, cfg.Threads*2)
	results := make(chan result, cfg.Threads*2)

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-jobs:
					if !ok {
						return
					}
					res := phrase.ExtractPhrases(j.rec.Source, j.rec.Target, j.rec.Points, cfg.MaxNgram)
					b := Batch{
						Line:      j.rec.Line,
						Phrases:   res.Phrases,
						Dropped:   res.Dropped,
						Malformed: j.rec.Malformed,
					}
					select {
					case results <- result{seq: j.seq, batch: b}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// Collector + reorderer
	var (
		verr    error
		cwg     sync.WaitGroup
		pending = make(map[int]Batch, cfg.Threads*2)
		next    int
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		for r := range results {
			if verr != nil {
				continue
			}
			pending[r.seq] = r.batch
			for {
				b, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++
				if err := visit(b); err != nil {
					verr = err
					cancel()
					break
				}
			}
		}
	}()

	// Feed work
	seq := 0
	st, serr := corpus.Stream(ctx, src, func(rec corpus.Record) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case jobs <- job{seq: seq, rec: rec}:
			seq++
			return nil
		}
	})

	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	switch {
	case verr != nil:
		return st, verr
	case parent.Err() != nil:
		return st, parent.Err()
	case serr != nil && !errors.Is(serr, context.Canceled):
		return st, serr
	}
	return st, nil
}
