package optim

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Domain errors for regression solves.
var (
	// ErrSolveFailed indicates a least-squares subproblem could not be solved.
	ErrSolveFailed = errors.New("optim: least-squares solve failed")

	// ErrInvalidCoefficients indicates NaN or Inf crept into the coefficients.
	ErrInvalidCoefficients = errors.New("optim: invalid coefficients (NaN or Inf detected)")
)

// Optimizer is an iterative sparse-regression solver.
//
// All three operations treat xi as a caller-owned buffer with one row per
// feature and one column per output variable. Fit returning maxIter is not
// an error; the caller interprets it as "did not converge".
type Optimizer interface {
	// Init writes an initial guess into xi, canonically the ordinary
	// least-squares solution of dxdt ~ xi^T * theta.
	Init(xi *mat.Dense, theta, dxdt *mat.Dense) error

	// Fit iteratively refines xi and returns the number of iterations
	// actually performed, in [0, maxIter]. Successive iterates whose
	// maximum coefficient change falls below tol are converged.
	Fit(xi *mat.Dense, theta, dxdt *mat.Dense, maxIter int, tol float64) (int, error)

	// SetThreshold updates the sparsity threshold used by subsequent Fit
	// calls. Threshold state persists across calls until reset.
	SetThreshold(v float64)

	// Threshold reports the current sparsity threshold.
	Threshold() float64
}

// Cloner is implemented by optimizers that can duplicate themselves for
// concurrent threshold evaluations.
type Cloner interface {
	Clone() Optimizer
}

// leastSquares writes the OLS solution of dxdt^T ~ theta^T * xi into xi.
func leastSquares(xi *mat.Dense, theta, dxdt *mat.Dense) error {
	if err := xi.Solve(theta.T(), dxdt.T()); err != nil {
		return fmt.Errorf("%w: %v", ErrSolveFailed, err)
	}
	return checkFinite(xi)
}

func checkFinite(xi *mat.Dense) error {
	rows, cols := xi.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := xi.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return ErrInvalidCoefficients
			}
		}
	}
	return nil
}

// maxDelta returns the largest absolute elementwise difference between a and b.
func maxDelta(a, b *mat.Dense) float64 {
	rows, cols := a.Dims()
	d := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := math.Abs(a.At(i, j) - b.At(i, j)); v > d {
				d = v
			}
		}
	}
	return d
}
