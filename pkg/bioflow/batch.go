package bioflow

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pair is one probe/target job for AlignBatch.
type Pair struct {
	Probe  *Sequence
	Target *Sequence
}

// BatchOptions configures AlignBatch.
type BatchOptions struct {
	Type AlignmentType
	// Scores defaults to DefaultScores when nil.
	Scores *ScoreConfig
	// Workers defaults to GOMAXPROCS and never exceeds the number of pairs.
	Workers int
	// MaxCells overrides each engine's traceback ceiling when positive.
	MaxCells int64
}

// AlignBatch aligns every pair across a pool of workers, each owning its own
// engine. Results are in input order. The first failure cancels the
// remaining work and is returned.
func AlignBatch(ctx context.Context, pairs []Pair, opts BatchOptions) ([]*Alignment, error) {
	scores := DefaultScores()
	if opts.Scores != nil {
		scores = *opts.Scores
	}
	// Reject bad configuration before any worker starts.
	probe, err := NewEngine(opts.Type, scores)
	if err != nil {
		return nil, err
	}
	probe.Close()

	results := make([]*Alignment, len(pairs))
	if len(pairs) == 0 {
		return results, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(pairs) {
		workers = len(pairs)
	}

	g, ctx := errgroup.WithContext(ctx)
	next := make(chan int)

	g.Go(func() error {
		defer close(next)
		for i := range pairs {
			select {
			case next <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			e, err := NewEngine(opts.Type, scores)
			if err != nil {
				return err
			}
			defer e.Close()
			if opts.MaxCells > 0 {
				e.SetMaxCells(opts.MaxCells)
			}

			for i := range next {
				if err := ctx.Err(); err != nil {
					return err
				}
				pair := pairs[i]
				if err := e.SetProbe(pair.Probe.Symbols()); err != nil {
					return fmt.Errorf("pair %d: %w", i, err)
				}
				a, err := alignTarget(e, pair.Target, opts.Type)
				if err != nil {
					return fmt.Errorf("pair %d (%s/%s): %w", i, pair.Probe.Name(), pair.Target.Name(), err)
				}
				results[i] = a
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
