// Package pipeline segments corpus sentences in batches.
//
// Sentences of a batch are processed concurrently by at most Workers
// goroutines; results are emitted in corpus order. The vocabulary is shared
// read-only between workers, which is safe without locking.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/wordpieces/conllx"
	"golang.org/x/sync/errgroup"
)

// tracer writes to trace with key 'wordpieces'
func tracer() tracing.Trace {
	return tracing.Select("wordpieces")
}

// SentenceReader yields sentences until io.EOF.
type SentenceReader interface {
	Next() (*conllx.Sentence, error)
}

// Options bound the concurrency of Run. Values below 1 are treated as 1.
type Options struct {
	Workers   int
	BatchSize int
}

func (o Options) normalized() Options {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.BatchSize < 1 {
		o.BatchSize = 1
	}
	return o
}

// Run reads all sentences from r, applies process to each and hands the
// results to emit in input order. Reading stops at the first error of the
// reader or of emit; the reader error is wrapped as "cannot read sentence".
func Run[T any](ctx context.Context, r SentenceReader, opts Options,
	process func(*conllx.Sentence) T, emit func(T) error) error {
	//
	opts = opts.normalized()
	batch := make([]*conllx.Sentence, 0, opts.BatchSize)
	results := make([]T, opts.BatchSize)
	sentences := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch = batch[:0]
		var readErr error
		for len(batch) < opts.BatchSize {
			sent, err := r.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				readErr = fmt.Errorf("cannot read sentence: %w", err)
				break
			}
			batch = append(batch, sent)
		}
		if err := processBatch(ctx, batch, results, opts.Workers, process); err != nil {
			return err
		}
		for i := range batch {
			if err := emit(results[i]); err != nil {
				return err
			}
		}
		sentences += len(batch)
		if readErr != nil {
			return readErr
		}
		if len(batch) < opts.BatchSize {
			tracer().Debugf("processed %d sentences", sentences)
			return nil
		}
	}
}

func processBatch[T any](ctx context.Context, batch []*conllx.Sentence, results []T, workers int,
	process func(*conllx.Sentence) T) error {
	//
	if workers == 1 {
		for i, sent := range batch {
			results[i] = process(sent)
		}
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, sent := range batch {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = process(sent)
			return nil
		})
	}
	return g.Wait()
}
