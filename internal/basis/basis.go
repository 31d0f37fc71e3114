package basis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Domain errors for basis evaluation.
var (
	// ErrEmptyState indicates a state matrix with no rows or no columns.
	ErrEmptyState = errors.New("basis: empty state matrix")

	// ErrTimeMismatch indicates a time vector whose length differs from the sample count.
	ErrTimeMismatch = errors.New("basis: time vector length does not match sample count")
)

// Basis maps raw state samples to candidate feature evaluations.
//
// State matrices are laid out with one row per state variable and one column
// per sample. The returned feature matrix has one row per candidate function
// and the same column count as the input.
type Basis interface {
	// Evaluate computes the feature matrix for the given samples. The params
	// and times slices may be nil for bases that do not use them; a non-nil
	// times slice must have one entry per sample.
	Evaluate(x *mat.Dense, params, times []float64) (*mat.Dense, error)

	// Dim reports the number of candidate functions for a given state dimension.
	Dim(stateDim int) int

	// Names returns human-readable labels for each candidate function,
	// indexed like the rows of the evaluated feature matrix.
	Names(stateDim int) []string
}

func checkState(x *mat.Dense, times []float64) (vars, samples int, err error) {
	vars, samples = x.Dims()
	if vars == 0 || samples == 0 {
		return 0, 0, ErrEmptyState
	}
	if times != nil && len(times) != samples {
		return 0, 0, fmt.Errorf("%w: %d times, %d samples", ErrTimeMismatch, len(times), samples)
	}
	return vars, samples, nil
}
