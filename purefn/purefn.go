package purefn

import (
	"time"

	"github.com/on-the-ground/autocache/autocache"
)

// NaiveFib computes the n-th Fibonacci number without memoization.
func NaiveFib(n int) int {
	if n <= 1 {
		return n
	}
	return NaiveFib(n-1) + NaiveFib(n-2)
}

// NewFibonacci returns a Fibonacci whose recursive calls go through its own engine.
func NewFibonacci(opts ...autocache.Option) (autocache.Pure1[int, int], error) {
	var fib autocache.Pure1[int, int]
	fib, err := autocache.WrapPure1(func(n int) int {
		if n <= 1 {
			return n
		}
		return fib.Call(n-1) + fib.Call(n-2)
	}, opts...)
	return fib, err
}

// Levenshtein is the naive recursive edit distance.
func Levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	if a[0] == b[0] {
		return Levenshtein(a[1:], b[1:])
	}
	return 1 + min(
		Levenshtein(a[1:], b),
		Levenshtein(a, b[1:]),
		Levenshtein(a[1:], b[1:]),
	)
}

type Point struct {
	X, Y float64
}

func SquaredDistance(p1, p2 Point) float64 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return dx*dx + dy*dy
}

// Constant ignores its input.
func Constant(int) int {
	return 42
}

// Sleeper returns a function that sleeps unit*n before returning n.
func Sleeper(unit time.Duration) func(int) int {
	return func(n int) int {
		time.Sleep(time.Duration(n) * unit)
		return n
	}
}
