// Package discover is the top-level entry point for sparse identification
// of nonlinear dynamics: given state samples and their time derivatives, it
// finds a sparse coefficient matrix over a candidate function library.
//
//   - [Discover]: one regression at a fixed optimizer threshold
//   - [Sweep]: evaluate a sequence of thresholds and keep, per output
//     variable, the best sparsity/error trade-off
//   - [Ensemble]: the same sweep with per-threshold regressions running
//     concurrently
//
// # Thread Safety
//
// Sweep instances are NOT thread-safe; the optimizer passed in the options
// is exclusively mutated for the duration of a run. Ensemble clones the
// optimizer per worker and is safe to run once per instance at a time.
package discover
