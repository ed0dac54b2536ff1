package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cwsl/nr_uplink/nr/defs"
	"github.com/cwsl/nr_uplink/nr/prach"
	"golang.org/x/sync/errgroup"
)

// BatchRunner generates a batch of preambles on a bounded set of goroutines.
// Preamble i always draws from its own source seeded with Seed+i, so a batch
// is reproducible whatever the scheduling.
type BatchRunner struct {
	Duplex     defs.DuplexMode
	RACH       prach.ConfigCommon
	Workers    int
	Seed       int64
	PreambleID *int // Fixed identity for every preamble when set
	Metrics    *PrometheusMetrics
}

// Run generates count preambles, returned in index order. The first failure
// cancels the remaining work.
func (r *BatchRunner) Run(ctx context.Context, count int) ([]*prach.Preamble, error) {
	if count < 1 {
		return nil, fmt.Errorf("batch size %d: %w", count, defs.ErrOutOfRange)
	}
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]*prach.Preamble, count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	start := time.Now()
	for i := 0; i < count; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := r.generateOne(i)
			if err != nil {
				r.Metrics.RecordError(err)
				return fmt.Errorf("preamble %d: %w", i, err)
			}
			results[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if DebugMode {
		log.Printf("DEBUG: Generated %d preambles with %d workers in %v", count, workers, time.Since(start))
	}
	return results, nil
}

func (r *BatchRunner) generateOne(i int) (*prach.Preamble, error) {
	var source prach.PreambleSource
	if r.PreambleID != nil {
		source = prach.FixedPreamble(*r.PreambleID)
	} else {
		source = prach.NewRandSource(r.Seed + int64(i))
	}

	generator, err := prach.NewGenerator(prach.GeneratorConfig{Source: source, Debug: DebugMode})
	if err != nil {
		return nil, err
	}

	begin := time.Now()
	p, err := generator.Generate(r.Duplex, r.RACH)
	if err != nil {
		return nil, err
	}
	r.Metrics.RecordPreamble(p, time.Since(begin))
	return p, nil
}
