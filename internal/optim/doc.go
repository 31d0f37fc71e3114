// Package optim provides sparsity-inducing regression solvers for the
// discovery pipeline.
//
// The package defines the [Optimizer] contract consumed by the regression
// driver, plus two concrete algorithms:
//
//   - [STLSQ]: sequential thresholded least squares, the canonical SINDy
//     optimizer (hard threshold, refit on the surviving support)
//   - [ISTA]: proximal-gradient soft thresholding, an L1-relaxation variant
//
// Both operate on a feature matrix laid out features x samples and a target
// matrix laid out outputs x samples, writing coefficients (features x
// outputs) into a caller-supplied buffer.
//
// # Thread Safety
//
// Optimizer instances carry mutable threshold and iteration state and are
// NOT safe for concurrent use. Parallel sweeps clone one instance per worker
// via the [Cloner] interface.
package optim
