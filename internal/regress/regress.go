// Package regress orchestrates a single sparse-regression pass: evaluate the
// candidate library, optionally denoise and normalize it, run the optimizer,
// and rescale the solution back to original units.
package regress

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/sindy/internal/basis"
	"github.com/san-kum/sindy/internal/feature"
	"github.com/san-kum/sindy/internal/optim"
)

// Domain errors for regression runs.
var (
	// ErrSampleMismatch indicates state and derivative matrices with
	// different sample counts.
	ErrSampleMismatch = errors.New("regress: state and derivative sample counts differ")

	// ErrShapeMismatch indicates a coefficient buffer whose shape does not
	// match (feature count, output count).
	ErrShapeMismatch = errors.New("regress: coefficient buffer shape mismatch")
)

// Options holds the knobs for one regression pass. The zero value is not
// usable; start from DefaultOptions.
type Options struct {
	MaxIter   int
	Tol       float64
	Optimizer optim.Optimizer
	Denoise   bool
	Normalize bool
	Params    []float64
	Times     []float64
}

// DefaultOptions returns the canonical configuration: STLSQ with threshold
// 0.1, ten iterations, machine-epsilon convergence, normalization on.
func DefaultOptions() Options {
	return Options{
		MaxIter:   10,
		Tol:       machineEpsilon,
		Optimizer: optim.NewSTLSQ(0.1),
		Normalize: true,
	}
}

var machineEpsilon = math.Nextafter(1, 2) - 1

// Run evaluates the basis on the state samples and solves for a fresh
// coefficient matrix, returning it with the iteration count.
func Run(x, dxdt *mat.Dense, b basis.Basis, opts Options) (*mat.Dense, int, error) {
	theta, outputs, err := prepare(x, dxdt, b, opts)
	if err != nil {
		return nil, 0, err
	}
	features, _ := theta.Dims()
	xi := mat.NewDense(features, outputs, nil)
	iters, err := fit(xi, theta, dxdt, opts, false)
	if err != nil {
		return nil, iters, err
	}
	return xi, iters, nil
}

// RunInPlace is Run writing into a caller-supplied coefficient buffer.
func RunInPlace(xi *mat.Dense, x, dxdt *mat.Dense, b basis.Basis, opts Options) (int, error) {
	theta, outputs, err := prepare(x, dxdt, b, opts)
	if err != nil {
		return 0, err
	}
	features, _ := theta.Dims()
	if err := checkBuffer(xi, features, outputs); err != nil {
		return 0, err
	}
	return fit(xi, theta, dxdt, opts, false)
}

// RunWithFeatures runs the optimizer against an already-evaluated feature
// matrix, mutating it during the call. On return theta is back in its
// original units even when normalization was requested, so repeated sweep
// steps operate on consistent data. Denoising, when enabled, is NOT undone.
func RunWithFeatures(xi *mat.Dense, theta, dxdt *mat.Dense, opts Options) (int, error) {
	features, samples := theta.Dims()
	outputs, targetSamples := dxdt.Dims()
	if samples != targetSamples {
		return 0, fmt.Errorf("%w: got %d and %d", ErrSampleMismatch, samples, targetSamples)
	}
	if err := checkBuffer(xi, features, outputs); err != nil {
		return 0, err
	}
	return fit(xi, theta, dxdt, opts, true)
}

func prepare(x, dxdt *mat.Dense, b basis.Basis, opts Options) (*mat.Dense, int, error) {
	_, samples := x.Dims()
	outputs, targetSamples := dxdt.Dims()
	if samples != targetSamples {
		return nil, 0, fmt.Errorf("%w: got %d and %d", ErrSampleMismatch, samples, targetSamples)
	}
	theta, err := b.Evaluate(x, opts.Params, opts.Times)
	if err != nil {
		return nil, 0, err
	}
	return theta, outputs, nil
}

func checkBuffer(xi *mat.Dense, features, outputs int) error {
	r, c := xi.Dims()
	if r != features || c != outputs {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrShapeMismatch, r, c, features, outputs)
	}
	return nil
}

// fit is steps 3-6 of the regression pass: denoise, normalize, optimize,
// rescale. restoreTheta additionally rescales the feature matrix back after
// the fit, for callers that reuse it.
func fit(xi *mat.Dense, theta, dxdt *mat.Dense, opts Options, restoreTheta bool) (int, error) {
	if opts.Denoise {
		if _, err := feature.Denoise(theta); err != nil {
			return 0, err
		}
	}

	var scales []float64
	if opts.Normalize {
		features, _ := theta.Dims()
		scales = make([]float64, features)
		feature.Normalize(theta, scales)
	}

	restore := func() {
		if opts.Normalize && restoreTheta {
			feature.RescaleFeatures(theta, scales)
		}
	}

	if err := opts.Optimizer.Init(xi, theta, dxdt); err != nil {
		restore()
		return 0, err
	}
	iters, err := opts.Optimizer.Fit(xi, theta, dxdt, opts.MaxIter, opts.Tol)
	if err != nil {
		restore()
		return iters, err
	}

	if opts.Normalize {
		feature.RescaleCoefficients(xi, scales)
	}
	restore()
	return iters, nil
}
