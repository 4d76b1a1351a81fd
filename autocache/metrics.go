package autocache

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/on-the-ground/autocache"

type callPath string

const (
	pathBypass  callPath = "bypass"
	pathSampled callPath = "sampled"
	pathHit     callPath = "hit"
	pathMiss    callPath = "miss"
	pathDirect  callPath = "direct"
)

const (
	passNoCache   = "no_cache"
	passWithCache = "with_cache"
)

type engineMetrics struct {
	engine       attribute.KeyValue
	calls        metric.Int64Counter
	benchmarkDur metric.Float64Histogram
	decisions    metric.Int64Counter
}

func newEngineMetrics(mp metric.MeterProvider, engineName string) (*engineMetrics, error) {
	meter := mp.Meter(meterName)

	calls, err := meter.Int64Counter(
		"autocache.calls",
		metric.WithDescription("Calls dispatched by an autocache engine, by path"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	benchmarkDur, err := meter.Float64Histogram(
		"autocache.benchmark.duration",
		metric.WithDescription("Duration of a single benchmarking pass in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	decisions, err := meter.Int64Counter(
		"autocache.decisions",
		metric.WithDescription("Caching decisions committed"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, err
	}

	return &engineMetrics{
		engine:       attribute.String("engine", engineName),
		calls:        calls,
		benchmarkDur: benchmarkDur,
		decisions:    decisions,
	}, nil
}

func (m *engineMetrics) recordCall(path callPath) {
	m.calls.Add(context.Background(), 1,
		metric.WithAttributes(m.engine, attribute.String("path", string(path))))
}

func (m *engineMetrics) recordPass(pass string, d time.Duration) {
	ms := float64(d) / float64(time.Millisecond)
	m.benchmarkDur.Record(context.Background(), ms,
		metric.WithAttributes(m.engine, attribute.String("pass", pass)))
}

func (m *engineMetrics) recordDecision(d Decision) {
	m.decisions.Add(context.Background(), 1,
		metric.WithAttributes(m.engine, attribute.String("decision", d.String())))
}
