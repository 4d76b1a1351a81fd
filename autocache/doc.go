// Package autocache decides, from measured timings, whether memoizing a pure
// function is worth it.
//
// Caching is not free. Building a key, hashing it and looking it up can cost
// more than recomputing a cheap function. Instead of guessing, an Engine
// samples both paths for every distinct input it sees:
//
//	→ "How long do runs_per_input direct calls take?"
//	→ "How long do the same calls take behind a cold cache?"
//
// Once enough inputs have been seen often enough (or the benchmarking budget is
// spent), the Engine sums the timings of the well-sampled inputs and commits to
// Caching or NotCaching. The decision is final for the lifetime of the Engine.
//
// Features:
//   - New / Engine.Call: wraps a Computation over positional and keyword Args.
//   - Wrap1 to Wrap3, WrapPure1 and WrapPure2: typed wrappers for common arities.
//   - SetCacheEnabled: a manual override that bypasses the engine entirely.
//   - Pluggable Store (see package store for ristretto and go-memdb backends),
//     Clock, zap logger and OpenTelemetry meter provider.
//
// An Engine is not safe for concurrent use. Recursive computations that call
// back into their own Engine are supported, which is how a memoized Fibonacci
// is usually written.
//
// WARNING: Do not wrap impure functions (e.g., those depending on time, I/O, etc).
// Sampling calls the computation several times per input.
package autocache
