package autocache_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/autocache/autocache"
)

func TestNew_RejectsInvalidConfig(t *testing.T) {
	c := &counted{}
	_, err := autocache.New(c.fn, autocache.WithConfig(testConfig(0, 3, 2, time.Second)))
	assert.ErrorIs(t, err, autocache.ErrInvalidConfig)

	_, err = autocache.New[int](nil)
	assert.ErrorIs(t, err, autocache.ErrInvalidConfig)
}

func TestEngine_IdentityScenario(t *testing.T) {
	c := &counted{}
	e, err := autocache.New(c.fn, autocache.WithConfig(testConfig(2, 1, 1, 1000*time.Second)))
	require.NoError(t, err)

	assert.Equal(t, 1, mustCall(e, 1))
	assert.Equal(t, autocache.Undecided, e.Decision())
	assert.Equal(t, 2, mustCall(e, 2))
	assert.NotEqual(t, autocache.Undecided, e.Decision())

	frozen := e.Records()
	require.Len(t, frozen, 2)

	assert.Equal(t, 1, mustCall(e, 1))
	assert.Equal(t, frozen, e.Records())

	// No key was sampled more than once, so the aggregate is empty and ties go to NotCaching.
	report, ok := e.Report()
	require.True(t, ok)
	assert.Equal(t, autocache.NotCaching, report.Decision)
	assert.Equal(t, 0, report.KeysAggregated)
	assert.Equal(t, 2, report.KeysSampled)
	assert.Equal(t, 2, report.Qualified)
}

func TestEngine_UndecidedCallRunsSamplesAndRealCall(t *testing.T) {
	c := &counted{}
	e, err := autocache.New(c.fn, autocache.WithConfig(testConfig(5, 3, 2, time.Hour)))
	require.NoError(t, err)

	mustCall(e, 7)
	// three no-cache runs, one with-cache miss, one user-visible call
	assert.Equal(t, 5, c.calls)

	rec := e.Records()
	require.Len(t, rec, 1)
	for _, r := range rec {
		assert.Equal(t, 1, r.Occurrences)
	}
}

func TestEngine_QualifiesOncePerKey(t *testing.T) {
	c := &counted{}
	e, err := autocache.New(c.fn, autocache.WithConfig(testConfig(3, 1, 2, time.Hour)))
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		mustCall(e, 1)
	}
	assert.Equal(t, 1, e.Stats().Qualified)
	assert.Equal(t, autocache.Undecided, e.Decision())

	mustCall(e, 2)
	mustCall(e, 2)
	assert.Equal(t, 2, e.Stats().Qualified)
	mustCall(e, 3)
	assert.Equal(t, autocache.Undecided, e.Decision())
	mustCall(e, 3)
	assert.NotEqual(t, autocache.Undecided, e.Decision())
	assert.Equal(t, 3, e.Stats().Qualified)
}

func TestEngine_DecidesOnce(t *testing.T) {
	clock := newFakeClock()
	c := &counted{clock: clock, cost: 10 * time.Millisecond}

	var reports []autocache.Report
	e, err := autocache.New(c.fn,
		autocache.WithConfig(testConfig(2, 3, 1, time.Hour)),
		autocache.WithClock(clock),
		autocache.WithReportHook(func(r autocache.Report) { reports = append(reports, r) }),
	)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		mustCall(e, i%4)
	}
	require.Len(t, reports, 1)
	assert.Equal(t, e.Decision(), reports[0].Decision)
	assert.Equal(t, e.ID(), reports[0].Engine)
}

func TestEngine_SlowComputationDecidesCaching(t *testing.T) {
	clock := newFakeClock()
	c := &counted{clock: clock, cost: 10 * time.Millisecond}
	e, err := autocache.New(c.fn,
		autocache.WithConfig(testConfig(2, 3, 1, time.Hour)),
		autocache.WithClock(clock),
	)
	require.NoError(t, err)

	mustCall(e, 1)
	mustCall(e, 1)
	mustCall(e, 2)
	require.Equal(t, autocache.Caching, e.Decision())

	report, ok := e.Report()
	require.True(t, ok)
	// Only key 1 was sampled more than once: 2 passes of 3 runs against 2 single misses.
	assert.Equal(t, 60*time.Millisecond, report.NoCache)
	assert.Equal(t, 20*time.Millisecond, report.WithCache)
	assert.Equal(t, 1, report.KeysAggregated)
	// 2 full calls of 50ms each, then the deciding 40ms of sampling.
	assert.Equal(t, 140*time.Millisecond, report.Window.Duration())
}

func TestEngine_SleepingComputationDecidesCaching(t *testing.T) {
	sleep := func(args autocache.Args) (int, error) {
		n := args.Positional[0].(int)
		time.Sleep(time.Duration(n) * time.Millisecond)
		return n, nil
	}
	e, err := autocache.New(sleep, autocache.WithConfig(testConfig(2, 3, 1, time.Minute)))
	require.NoError(t, err)

	mustCall(e, 2)
	mustCall(e, 2)
	mustCall(e, 3)
	assert.Equal(t, autocache.Caching, e.Decision())
}

func TestEngine_CheapComputationWithCostlyStoreDecidesNotCaching(t *testing.T) {
	clock := newFakeClock()
	c := &counted{clock: clock, cost: time.Microsecond}
	store := costlyStore{MapStore: autocache.NewMapStore(), clock: clock, cost: 5 * time.Microsecond}
	e, err := autocache.New(c.fn,
		autocache.WithConfig(testConfig(2, 3, 1, time.Hour)),
		autocache.WithClock(clock),
		autocache.WithStore(store),
	)
	require.NoError(t, err)

	mustCall(e, 1)
	mustCall(e, 1)
	mustCall(e, 2)
	require.Equal(t, autocache.NotCaching, e.Decision())

	report, _ := e.Report()
	assert.Equal(t, 6*time.Microsecond, report.NoCache)
	assert.Equal(t, 42*time.Microsecond, report.WithCache)

	// Nothing is written once the engine has decided not to cache.
	assert.Equal(t, 0, store.Len())
	before := c.calls
	for i := 0; i < 5; i++ {
		assert.Equal(t, i%2, mustCall(e, i%2))
	}
	assert.Equal(t, before+5, c.calls)
	assert.Equal(t, 0, store.Len())
}

func TestEngine_CachingServesStoredResults(t *testing.T) {
	clock := newFakeClock()
	c := &counted{clock: clock, cost: 10 * time.Millisecond}
	e, err := autocache.New(c.fn,
		autocache.WithConfig(testConfig(2, 3, 1, time.Hour)),
		autocache.WithClock(clock),
	)
	require.NoError(t, err)

	mustCall(e, 1)
	mustCall(e, 1)
	mustCall(e, 2)
	require.Equal(t, autocache.Caching, e.Decision())

	before := c.calls
	assert.Equal(t, 5, mustCall(e, 5))
	assert.Equal(t, before+1, c.calls)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 5, mustCall(e, 5))
	}
	assert.Equal(t, before+1, c.calls)
}

func TestEngine_BudgetEndsBenchmarking(t *testing.T) {
	clock := newFakeClock()
	c := &counted{clock: clock, cost: 200 * time.Millisecond}
	e, err := autocache.New(c.fn,
		autocache.WithConfig(testConfig(100, 3, 2, time.Second)),
		autocache.WithClock(clock),
	)
	require.NoError(t, err)

	mustCall(e, 1)
	assert.Equal(t, autocache.Undecided, e.Decision())
	mustCall(e, 2)
	// 2 calls x (600ms + 200ms) crossed the one second budget.
	assert.Equal(t, autocache.NotCaching, e.Decision())
	assert.Equal(t, 1600*time.Millisecond, e.Stats().BenchmarkTime)
}

func TestEngine_MinOccurrencesZeroAggregatesEverySampledKey(t *testing.T) {
	clock := newFakeClock()
	c := &counted{clock: clock, cost: 100 * time.Millisecond}
	e, err := autocache.New(c.fn,
		autocache.WithConfig(testConfig(1, 3, 0, time.Second)),
		autocache.WithClock(clock),
	)
	require.NoError(t, err)

	mustCall(e, 1)
	mustCall(e, 2)
	mustCall(e, 3)
	assert.Equal(t, autocache.Caching, e.Decision())

	report, _ := e.Report()
	assert.Equal(t, 0, report.Qualified)
	assert.Equal(t, 3, report.KeysAggregated)
}

func TestEngine_OverrideBypassesEverything(t *testing.T) {
	clock := newFakeClock()
	c := &counted{clock: clock, cost: 10 * time.Millisecond}
	store := autocache.NewMapStore()
	e, err := autocache.New(c.fn,
		autocache.WithConfig(testConfig(2, 3, 1, time.Hour)),
		autocache.WithClock(clock),
		autocache.WithStore(store),
	)
	require.NoError(t, err)

	e.SetCacheEnabled(false)
	assert.False(t, e.CacheEnabled())
	for i := 0; i < 3; i++ {
		mustCall(e, 1)
	}
	assert.Equal(t, 3, c.calls)
	assert.Empty(t, e.Records())
	assert.Equal(t, autocache.Undecided, e.Decision())

	e.SetCacheEnabled(true)
	mustCall(e, 1)
	mustCall(e, 1)
	mustCall(e, 2)
	require.Equal(t, autocache.Caching, e.Decision())
	mustCall(e, 9)
	storedBefore := store.Len()

	e.SetCacheEnabled(false)
	before := c.calls
	assert.Equal(t, 9, mustCall(e, 9))
	assert.Equal(t, before+1, c.calls)
	assert.Equal(t, storedBefore, store.Len())
	assert.Equal(t, autocache.Caching, e.Decision())

	e.SetCacheEnabled(true)
	assert.Equal(t, 9, mustCall(e, 9))
	assert.Equal(t, before+1, c.calls)
}

func TestEngine_ComputationErrorsPassThrough(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	fn := func(args autocache.Args) (int, error) {
		calls++
		n := args.Positional[0].(int)
		if n == 13 {
			return 0, boom
		}
		return n, nil
	}
	e, err := autocache.New(fn, autocache.WithConfig(testConfig(2, 3, 1, time.Hour)))
	require.NoError(t, err)

	_, err = e.Call(autocache.Positional(13))
	assert.True(t, err == boom, "error must not be wrapped, got %v", err)
	assert.Empty(t, e.Records())
	assert.Zero(t, e.Stats().BenchmarkTime)
	assert.Equal(t, 1, calls)

	e.SetCacheEnabled(false)
	_, err = e.Call(autocache.Positional(13))
	assert.True(t, err == boom)
}

func TestEngine_WithCachePassFailureLeavesRecordUntouched(t *testing.T) {
	boom := errors.New("boom")
	clock := newFakeClock()
	calls := 0
	fn := func(args autocache.Args) (int, error) {
		calls++
		clock.Advance(10 * time.Millisecond)
		// three no-cache runs succeed, the with-cache miss fails
		if calls == 4 {
			return 0, boom
		}
		return args.Positional[0].(int), nil
	}
	st := autocache.NewMapStore()
	e, err := autocache.New(fn,
		autocache.WithConfig(testConfig(2, 3, 2, time.Hour)),
		autocache.WithClock(clock),
		autocache.WithStore(st),
	)
	require.NoError(t, err)

	_, err = e.Call(autocache.Positional(5))
	assert.True(t, err == boom, "error must not be wrapped, got %v", err)
	assert.Equal(t, 4, calls)
	assert.Empty(t, e.Records())
	assert.Zero(t, e.Stats().BenchmarkTime)
	assert.Zero(t, e.Stats().Qualified)
	assert.Equal(t, autocache.Undecided, e.Decision())
	assert.Zero(t, st.Len())

	assert.Equal(t, 5, mustCall(e, 5))
	rec := e.Records()
	require.Len(t, rec, 1)
	for _, r := range rec {
		assert.Equal(t, autocache.BenchmarkRecord{
			NoCache:     30 * time.Millisecond,
			WithCache:   10 * time.Millisecond,
			Occurrences: 1,
		}, r)
	}
	assert.Equal(t, 40*time.Millisecond, e.Stats().BenchmarkTime)
}

func TestEngine_RecursiveDecisionFreezesOuterPasses(t *testing.T) {
	var (
		e      *autocache.Engine[int]
		frozen map[autocache.CallKey]autocache.BenchmarkRecord
		stats  autocache.Stats
	)
	st := autocache.NewMapStore()
	e, err := autocache.New(func(args autocache.Args) (int, error) {
		n := args.Positional[0].(int)
		if n < 2 {
			return n, nil
		}
		a, err := e.Call(autocache.Positional(n - 1))
		if err != nil {
			return 0, err
		}
		b, err := e.Call(autocache.Positional(n - 2))
		return a + b, err
	},
		autocache.WithConfig(testConfig(2, 1, 1, time.Hour)),
		autocache.WithStore(st),
		autocache.WithReportHook(func(autocache.Report) {
			frozen = e.Records()
			stats = e.Stats()
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, 8, mustCall(e, 6))
	require.NotNil(t, frozen, "decision must be committed inside the recursion")

	// keys 1 and 0 qualify first and commit the decision while every outer
	// pass is still running
	assert.Equal(t, autocache.NotCaching, e.Decision())
	assert.Len(t, frozen, 2)
	assert.Equal(t, frozen, e.Records())
	assert.Equal(t, stats, e.Stats())
	assert.Zero(t, st.Len())

	assert.Equal(t, 8, mustCall(e, 6))
	assert.Equal(t, frozen, e.Records())
}

func TestEngine_ErrorsAfterCachingAreNotStored(t *testing.T) {
	boom := errors.New("boom")
	clock := newFakeClock()
	fail := false
	calls := 0
	fn := func(args autocache.Args) (int, error) {
		calls++
		clock.Advance(10 * time.Millisecond)
		if fail {
			return 0, boom
		}
		return args.Positional[0].(int), nil
	}
	e, err := autocache.New(fn,
		autocache.WithConfig(testConfig(2, 3, 1, time.Hour)),
		autocache.WithClock(clock),
	)
	require.NoError(t, err)
	mustCall(e, 1)
	mustCall(e, 1)
	mustCall(e, 2)
	require.Equal(t, autocache.Caching, e.Decision())

	fail = true
	_, err = e.Call(autocache.Positional(8))
	assert.ErrorIs(t, err, boom)

	fail = false
	assert.Equal(t, 8, mustCall(e, 8))
	before := calls
	assert.Equal(t, 8, mustCall(e, 8))
	assert.Equal(t, before, calls)
}

func TestEngine_UnhashableArgumentMutatesNothing(t *testing.T) {
	calls := 0
	fn := func(args autocache.Args) (int, error) {
		calls++
		return 0, nil
	}
	e, err := autocache.New(fn)
	require.NoError(t, err)

	_, err = e.Call(autocache.Positional([]int{1, 2}))
	assert.ErrorIs(t, err, autocache.ErrUnhashableArgument)
	assert.Zero(t, calls)
	assert.Empty(t, e.Records())
}

func TestEngine_KeywordOrderSharesRecord(t *testing.T) {
	fn := func(args autocache.Args) (int, error) {
		return args.Keyword["a"].(int) + args.Keyword["b"].(int), nil
	}
	e, err := autocache.New(fn)
	require.NoError(t, err)

	out, err := e.Call(autocache.Args{Keyword: map[string]any{"a": 1, "b": 2}})
	require.NoError(t, err)
	assert.Equal(t, 3, out)
	_, err = e.Call(autocache.Args{}.With("b", 2).With("a", 1))
	require.NoError(t, err)

	rec := e.Records()
	require.Len(t, rec, 1)
	for _, r := range rec {
		assert.Equal(t, 2, r.Occurrences)
	}
}

func TestEngine_InterfaceResultsRoundTripNil(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	fn := func(args autocache.Args) (error, error) {
		calls++
		clock.Advance(10 * time.Millisecond)
		return nil, nil
	}
	e, err := autocache.New(fn,
		autocache.WithConfig(testConfig(1, 3, 0, 30*time.Millisecond)),
		autocache.WithClock(clock),
	)
	require.NoError(t, err)

	_, err = e.Call(autocache.Positional(1))
	require.NoError(t, err)
	require.Equal(t, autocache.Caching, e.Decision())

	before := calls
	out, err := e.Call(autocache.Positional(1))
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Equal(t, before, calls)
}
