package autocache

import (
	"time"

	"github.com/google/uuid"
	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"
)

// Decision is the caching verdict of an Engine.
type Decision int

const (
	// Undecided engines are still sampling.
	Undecided Decision = iota
	// Caching engines serve repeated keys from the Store.
	Caching
	// NotCaching engines always invoke the computation.
	NotCaching
)

func (d Decision) String() string {
	switch d {
	case Undecided:
		return "undecided"
	case Caching:
		return "caching"
	case NotCaching:
		return "not_caching"
	default:
		return "unknown"
	}
}

// Report describes a committed decision and the totals it was based on.
type Report struct {
	Engine    uuid.UUID
	Name      string
	Decision  Decision
	NoCache   time.Duration // summed over aggregated keys
	WithCache time.Duration // summed over aggregated keys

	KeysSampled    int
	KeysAggregated int
	Qualified      int
	BenchmarkTime  time.Duration

	// Window spans from the first sample to the decision.
	Window timespan.TimeSpan
}

func (e *Engine[O]) thresholdReached() bool {
	return e.qualified >= e.cfg.BenchmarkInputs || e.benchmarkTime >= e.cfg.MaxBenchmarkTime
}

// finalize commits the decision. It is a no-op once decided.
//
// Only keys sampled strictly more than MinOccurrences times are summed, so a
// key that has just qualified does not count yet. An empty aggregate compares
// zero to zero and, like any tie, yields NotCaching.
func (e *Engine[O]) finalize() {
	if e.decision != Undecided {
		return
	}

	var noCache, withCache time.Duration
	aggregated := 0
	for _, rec := range e.records {
		if rec.Occurrences > e.cfg.MinOccurrences {
			noCache += rec.NoCache
			withCache += rec.WithCache
			aggregated++
		}
	}

	if withCache < noCache {
		e.decision = Caching
	} else {
		e.decision = NotCaching
		// Leftovers of the last with-cache pass are never read again, so a
		// failed clear only costs memory and is logged rather than returned.
		if err := e.store.Clear(); err != nil {
			e.logger.Warn("failed to clear store after decision", zap.Error(err))
		}
	}

	report := Report{
		Engine:         e.id,
		Name:           e.name,
		Decision:       e.decision,
		NoCache:        noCache,
		WithCache:      withCache,
		KeysSampled:    len(e.records),
		KeysAggregated: aggregated,
		Qualified:      e.qualified,
		BenchmarkTime:  e.benchmarkTime,
		Window:         timespan.BetweenTimes(e.firstSample, e.clock.Now()),
	}
	e.report = &report
	e.metrics.recordDecision(e.decision)

	if e.reportEnabled {
		e.logger.Info("autocache decision",
			zap.String("engine", e.name),
			zap.Stringer("id", e.id),
			zap.Stringer("decision", e.decision),
			zap.Duration("total_no_cache", noCache),
			zap.Duration("total_with_cache", withCache),
			zap.Int("keys_sampled", report.KeysSampled),
			zap.Int("keys_aggregated", aggregated),
			zap.Duration("benchmark_time", e.benchmarkTime),
			zap.Time("window_start", report.Window.Start()),
			zap.Duration("window", report.Window.Duration()),
		)
	}
	if e.reportHook != nil {
		e.reportHook(report)
	}
}
