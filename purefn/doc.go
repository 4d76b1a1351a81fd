// Package purefn collects small pure computations used to exercise autocache.
//
// They span the range autocache is meant to tell apart:
//
//	→ Fibonacci and Levenshtein: exponential without memoization.
//	→ SquaredDistance and Constant: cheaper to recompute than to look up.
//	→ Sleeper: an artificially slow function whose cost grows with its input.
//
// NewFibonacci routes its recursion through an autocache engine, so every
// sub-problem is itself a sampled call.
package purefn
