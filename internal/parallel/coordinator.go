// Package parallel implements structural parallel aggregation: each worker
// owns a private engine, accumulates a disjoint slice of the input, and the
// coordinator folds the partial states together sequentially.
//
// Partial states travel from workers to the coordinator in serialized form,
// the same path they would take between independent processes, so every run
// exercises the full encode/decode round trip.
package parallel

import (
	"context"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/davinderatgithub/median-aggregate/internal/codec"
	engpkg "github.com/davinderatgithub/median-aggregate/internal/engine"
	"github.com/davinderatgithub/median-aggregate/internal/logging"
	"github.com/davinderatgithub/median-aggregate/internal/source"
	"github.com/davinderatgithub/median-aggregate/internal/typereg"
	"github.com/davinderatgithub/median-aggregate/internal/value"
)

// Coordinator drives one parallel aggregation run.
type Coordinator struct {
	reg     *typereg.Registry
	typeID  value.TypeID
	workers int
	log     *slog.Logger
}

// NewCoordinator creates a coordinator with the given worker count.
// A non-positive count defaults to the number of CPUs.
func NewCoordinator(reg *typereg.Registry, t value.TypeID, workers int) *Coordinator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Coordinator{
		reg:     reg,
		typeID:  t,
		workers: workers,
		log:     logging.Component("coordinator"),
	}
}

// Run drains the source across the worker pool and returns the median of
// everything read. An empty source yields absence (ok false).
func (c *Coordinator) Run(ctx context.Context, src source.Source) (value.Datum, bool, error) {
	values := make(chan value.Datum, 256)
	partials := make(chan []byte, c.workers)

	g, gctx := errgroup.WithContext(ctx)

	// Producer: pull values off the source onto the channel.
	g.Go(func() error {
		defer close(values)
		for {
			d, err := src.Next(gctx)
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			select {
			case values <- d:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	// Workers: private engine each, serialized partial state out.
	for i := 0; i < c.workers; i++ {
		g.Go(func() error {
			var eng *engpkg.Engine
			for d := range values {
				e, err := engpkg.Add(eng, c.reg, c.typeID, d)
				if err != nil {
					return err
				}
				eng = e
			}
			if eng == nil || eng.Count() == 0 {
				return nil
			}
			state, err := codec.Encode(eng)
			if err != nil {
				return err
			}
			partials <- state
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return value.Datum{}, false, err
	}
	close(partials)

	// Sequential combine on the coordinator side.
	var merged *engpkg.Engine
	for state := range partials {
		part, err := codec.Decode(c.reg, state)
		if err != nil {
			return value.Datum{}, false, err
		}
		m, err := engpkg.Merge(merged, part)
		if err != nil {
			return value.Datum{}, false, err
		}
		merged = m
	}

	total := 0
	if merged != nil {
		total = merged.Count()
	}
	c.log.Debug("partials merged", "workers", c.workers, "values", total)

	return engpkg.Finalize(merged)
}
