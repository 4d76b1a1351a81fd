package autocache

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/autocache/shared/helper"
)

// Computation is the wrapped function. It must be pure or at least safe to
// repeat: sampling runs it several times per call while undecided.
type Computation[O any] func(Args) (O, error)

// Engine wraps a Computation and decides whether to memoize it.
type Engine[O any] struct {
	id            uuid.UUID
	name          string
	fn            Computation[O]
	cfg           Config
	store         Store
	clock         Clock
	logger        *zap.Logger
	metrics       *engineMetrics
	reportEnabled bool
	reportHook    func(Report)

	decision      Decision
	records       map[CallKey]*BenchmarkRecord
	qualified     int
	benchmarkTime time.Duration
	firstSample   time.Time
	report        *Report

	disabled bool
}

// Stats is a snapshot of the benchmarking state.
type Stats struct {
	Decision      Decision
	KeysSampled   int
	Qualified     int
	BenchmarkTime time.Duration
}

// New wraps fn in an Engine.
func New[O any](fn Computation[O], opts ...Option) (*Engine[O], error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: nil computation", ErrInvalidConfig)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}
	if o.store == nil {
		o.store = NewMapStore()
	}

	m, err := newEngineMetrics(o.meterProvider, o.name)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	e := &Engine[O]{
		id:            uuid.New(),
		name:          o.name,
		fn:            fn,
		cfg:           o.config,
		store:         o.store,
		clock:         o.clock,
		logger:        o.logger,
		metrics:       m,
		reportEnabled: o.report,
		reportHook:    o.reportHook,
		records:       make(map[CallKey]*BenchmarkRecord),
	}
	e.logger.Debug("created autocache engine",
		zap.String("engine", e.name),
		zap.Stringer("id", e.id),
		zap.Int("benchmark_inputs", e.cfg.BenchmarkInputs),
		zap.Int("runs_per_input", e.cfg.RunsPerInput),
		zap.Int("min_occurrences", e.cfg.MinOccurrences),
		zap.Duration("max_benchmark_time", e.cfg.MaxBenchmarkTime),
	)
	return e, nil
}

// Call dispatches one invocation.
//
// With the override off, fn runs directly. Otherwise the call is sampled while
// undecided, served from the Store when caching and the key is present, and
// computed (and stored, when caching) in every other case. Errors returned by
// fn are passed through unchanged.
func (e *Engine[O]) Call(args Args) (O, error) {
	if e.disabled {
		e.metrics.recordCall(pathBypass)
		return e.fn(args)
	}

	var zero O
	key, err := BuildKey(args)
	if err != nil {
		return zero, err
	}

	path := pathDirect
	if e.decision == Undecided {
		if err := e.sample(key, args); err != nil {
			return zero, err
		}
		if e.thresholdReached() {
			e.finalize()
		}
		path = pathSampled
	}

	if e.decision == Caching {
		if out, ok := helper.GetTypedValueOf2[O](func() (any, bool) {
			return e.store.Load(key)
		}); ok {
			e.recordCall(path, pathHit)
			return out, nil
		}
	}

	out, err := e.fn(args)
	if err != nil {
		return out, err
	}
	if e.decision == Caching {
		if err := e.store.Store(key, out); err != nil {
			return out, fmt.Errorf("%w: store: %w", ErrStore, err)
		}
		e.recordCall(path, pathMiss)
		return out, nil
	}
	e.recordCall(path, pathDirect)
	return out, nil
}

// recordCall counts a call under its sampled path if it was sampled.
func (e *Engine[O]) recordCall(path, outcome callPath) {
	if path == pathSampled {
		e.metrics.recordCall(pathSampled)
		return
	}
	e.metrics.recordCall(outcome)
}

// SetCacheEnabled toggles the manual override. Disabling makes every call run
// the computation directly; the decision, records and store are left alone.
func (e *Engine[O]) SetCacheEnabled(enabled bool) {
	e.disabled = !enabled
}

func (e *Engine[O]) CacheEnabled() bool {
	return !e.disabled
}

// Decision returns the current verdict.
func (e *Engine[O]) Decision() Decision {
	return e.decision
}

func (e *Engine[O]) ID() uuid.UUID {
	return e.id
}

func (e *Engine[O]) Name() string {
	return e.name
}

func (e *Engine[O]) Config() Config {
	return e.cfg
}

// Records returns a copy of the per-key benchmark records.
func (e *Engine[O]) Records() map[CallKey]BenchmarkRecord {
	out := make(map[CallKey]BenchmarkRecord, len(e.records))
	for k, rec := range e.records {
		out[k] = *rec
	}
	return out
}

func (e *Engine[O]) Stats() Stats {
	return Stats{
		Decision:      e.decision,
		KeysSampled:   len(e.records),
		Qualified:     e.qualified,
		BenchmarkTime: e.benchmarkTime,
	}
}

// Report returns the decision report once a decision has been committed.
func (e *Engine[O]) Report() (Report, bool) {
	if e.report == nil {
		return Report{}, false
	}
	return *e.report, true
}
