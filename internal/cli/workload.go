package cli

import (
	"fmt"
	"time"

	"github.com/on-the-ground/autocache/autocache"
	"github.com/on-the-ground/autocache/purefn"
)

type outcome struct {
	name         string
	value        string
	decision     autocache.Decision
	withCache    time.Duration
	withoutCache time.Duration
}

type workload struct {
	name string
	run  func(n int, opts []autocache.Option) (outcome, error)
}

// toggler is the part of an engine the measurement needs.
type toggler interface {
	SetCacheEnabled(bool)
	Decision() autocache.Decision
}

// measure times call with the cache enabled, then again with it disabled.
func measure[O any](e toggler, call func() O) outcome {
	e.SetCacheEnabled(true)
	start := time.Now()
	v := call()
	withCache := time.Since(start)
	decision := e.Decision()

	e.SetCacheEnabled(false)
	start = time.Now()
	call()
	withoutCache := time.Since(start)

	return outcome{
		value:        fmt.Sprint(v),
		decision:     decision,
		withCache:    withCache,
		withoutCache: withoutCache,
	}
}

var words = []string{"kitten", "sitting", "saturday", "sunday", "flaw", "lawn"}

var workloads = map[string]workload{
	"fib": {
		name: "fib",
		run: func(n int, opts []autocache.Option) (outcome, error) {
			fib, err := purefn.NewFibonacci(opts...)
			if err != nil {
				return outcome{}, err
			}
			return measure(fib, func() int { return fib.Call(n) }), nil
		},
	},
	"constant": {
		name: "constant",
		run: func(n int, opts []autocache.Option) (outcome, error) {
			constant, err := autocache.WrapPure1(purefn.Constant, opts...)
			if err != nil {
				return outcome{}, err
			}
			return measure(constant, func() int {
				sum := 0
				for i := 0; i < n*100; i++ {
					sum += constant.Call(i % 10)
				}
				return sum
			}), nil
		},
	},
	"sleep": {
		name: "sleep",
		run: func(n int, opts []autocache.Option) (outcome, error) {
			sleep, err := autocache.WrapPure1(purefn.Sleeper(100*time.Microsecond), opts...)
			if err != nil {
				return outcome{}, err
			}
			return measure(sleep, func() int {
				sum := 0
				for i := 0; i < n*5; i++ {
					sum += sleep.Call(i % 4)
				}
				return sum
			}), nil
		},
	},
	"levenshtein": {
		name: "levenshtein",
		run: func(n int, opts []autocache.Option) (outcome, error) {
			lev, err := autocache.WrapPure2(purefn.Levenshtein, opts...)
			if err != nil {
				return outcome{}, err
			}
			return measure(lev, func() int {
				total := 0
				for i := 0; i < n*5; i++ {
					a, b := words[i%len(words)], words[(i/len(words))%len(words)]
					total += lev.Call(a, b)
				}
				return total
			}), nil
		},
	},
	"distance": {
		name: "distance",
		run: func(n int, opts []autocache.Option) (outcome, error) {
			dist, err := autocache.WrapPure2(purefn.SquaredDistance, opts...)
			if err != nil {
				return outcome{}, err
			}
			return measure(dist, func() float64 {
				total := 0.0
				for i := 0; i < n*100; i++ {
					p := purefn.Point{X: float64(i % 7), Y: float64(i % 3)}
					total += dist.Call(p, purefn.Point{})
				}
				return total
			}), nil
		},
	},
}
