package autocache

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// BenchmarkRecord accumulates the sampled cost of one key.
type BenchmarkRecord struct {
	NoCache     time.Duration
	WithCache   time.Duration
	Occurrences int
}

// sample times RunsPerInput direct calls, then RunsPerInput calls behind a
// freshly cleared store, and folds both into the key's record.
//
// A failing pass returns its error and leaves the record untouched. So does a
// pass cut short by a recursive call that commits the decision.
func (e *Engine[O]) sample(key CallKey, args Args) error {
	runs := e.cfg.RunsPerInput
	if e.firstSample.IsZero() {
		e.firstSample = e.clock.Now()
	}

	start := e.clock.Now()
	for i := 0; i < runs; i++ {
		if _, err := e.fn(args); err != nil {
			return err
		}
	}
	noCache := e.clock.Now().Sub(start)

	// A recursive call may have committed the decision while this pass ran.
	// The store then belongs to the decision and the pass is dropped.
	if e.decision != Undecided {
		return nil
	}

	// The whole store is reset so every pass starts cold.
	if err := e.store.Clear(); err != nil {
		return fmt.Errorf("%w: clear: %w", ErrStore, err)
	}
	start = e.clock.Now()
	for i := 0; i < runs; i++ {
		if _, ok := e.store.Load(key); ok {
			continue
		}
		out, err := e.fn(args)
		if err != nil {
			return err
		}
		if e.decision != Undecided {
			return nil
		}
		if err := e.store.Store(key, out); err != nil {
			return fmt.Errorf("%w: store: %w", ErrStore, err)
		}
	}
	withCache := e.clock.Now().Sub(start)

	e.metrics.recordPass(passNoCache, noCache)
	e.metrics.recordPass(passWithCache, withCache)

	rec, ok := e.records[key]
	if !ok {
		rec = &BenchmarkRecord{}
		e.records[key] = rec
	}
	rec.NoCache += noCache
	rec.WithCache += withCache
	rec.Occurrences++
	if rec.Occurrences == e.cfg.MinOccurrences {
		e.qualified++
	}
	e.benchmarkTime += noCache + withCache

	if ce := e.logger.Check(zap.DebugLevel, "sampled key"); ce != nil {
		ce.Write(
			zap.String("engine", e.name),
			zap.Uint64("key", key.Hash()),
			zap.Int("occurrences", rec.Occurrences),
			zap.Duration("no_cache", noCache),
			zap.Duration("with_cache", withCache),
			zap.Int("qualified", e.qualified),
			zap.Duration("benchmark_time", e.benchmarkTime),
		)
	}
	return nil
}
