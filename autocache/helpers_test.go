package autocache_test

import (
	"time"

	"github.com/on-the-ground/autocache/autocache"
)

// fakeClock only moves when told to, so tests can model costs exactly.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// costlyStore charges a fixed cost on the fake clock for every lookup and write.
type costlyStore struct {
	*autocache.MapStore
	clock *fakeClock
	cost  time.Duration
}

func (s costlyStore) Load(key autocache.CallKey) (any, bool) {
	s.clock.Advance(s.cost)
	return s.MapStore.Load(key)
}

func (s costlyStore) Store(key autocache.CallKey, value any) error {
	s.clock.Advance(s.cost)
	return s.MapStore.Store(key, value)
}

// counted wraps an identity computation that costs cost on clock per run.
type counted struct {
	calls int
	clock *fakeClock
	cost  time.Duration
}

func (c *counted) fn(args autocache.Args) (int, error) {
	c.calls++
	if c.clock != nil {
		c.clock.Advance(c.cost)
	}
	return args.Positional[0].(int), nil
}

func testConfig(inputs, runs, minOcc int, budget time.Duration) autocache.Config {
	return autocache.Config{
		BenchmarkInputs:  inputs,
		RunsPerInput:     runs,
		MinOccurrences:   minOcc,
		MaxBenchmarkTime: budget,
	}
}

func mustCall[O any](e *autocache.Engine[O], vals ...any) O {
	out, err := e.Call(autocache.Positional(vals...))
	if err != nil {
		panic(err)
	}
	return out
}
