package discover

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/sindy/internal/basis"
	"github.com/san-kum/sindy/internal/optim"
)

// Result is the immutable outcome of a discovery run. It is created once at
// the end of a regression or sweep and treated as read-only by consumers;
// the referenced input matrices are the caller's originals, not copies.
type Result struct {
	// Coefficients has one row per candidate function and one column per
	// output variable; most entries are exactly zero in the well-posed case.
	Coefficients *mat.Dense

	// Basis is the candidate library the coefficients index into.
	Basis basis.Basis

	// Iterations is the optimizer iteration count of the (winning) fit.
	Iterations int

	// Converged is false when the fit consumed the full iteration budget.
	Converged bool

	// Threshold is the sparsity threshold of the winning fit. After a sweep
	// the optimizer is left set to this value.
	Threshold float64

	// Optimizer is the instance used for the run, with its threshold left at
	// the winning value for downstream reuse.
	Optimizer optim.Optimizer

	// States, Derivatives, Params, and Times reference the call inputs.
	States      *mat.Dense
	Derivatives *mat.Dense
	Params      []float64
	Times       []float64
}

// Equations renders the discovered system as one string per output variable
// using the basis function names. Zero coefficients are elided.
func (r *Result) Equations() []string {
	vars, _ := r.States.Dims()
	return renderEquations(r.Coefficients, r.Basis.Names(vars))
}

// Sparsity returns the number of non-zero coefficients per output variable.
func (r *Result) Sparsity() []int {
	features, outputs := r.Coefficients.Dims()
	counts := make([]int, outputs)
	for j := 0; j < outputs; j++ {
		for i := 0; i < features; i++ {
			if r.Coefficients.At(i, j) != 0 {
				counts[j]++
			}
		}
	}
	return counts
}
