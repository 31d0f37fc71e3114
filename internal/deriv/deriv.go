// Package deriv estimates time derivatives from sampled trajectories, for
// callers that measured states but not their rates of change.
package deriv

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Domain errors for derivative estimation.
var (
	// ErrTooFewSamples indicates fewer than three samples, too few for
	// central differences.
	ErrTooFewSamples = errors.New("deriv: need at least 3 samples")

	// ErrTimeMismatch indicates a time vector whose length differs from the
	// sample count.
	ErrTimeMismatch = errors.New("deriv: time vector length does not match sample count")

	// ErrNonIncreasing indicates time points that do not strictly increase.
	ErrNonIncreasing = errors.New("deriv: time points must strictly increase")
)

// Central estimates dx/dt with second-order central differences on the
// interior and one-sided differences at the ends. The state matrix has one
// row per variable and one column per sample; the result has the same shape.
func Central(x *mat.Dense, times []float64) (*mat.Dense, error) {
	vars, samples := x.Dims()
	if samples < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewSamples, samples)
	}
	if len(times) != samples {
		return nil, fmt.Errorf("%w: %d times, %d samples", ErrTimeMismatch, len(times), samples)
	}
	for i := 1; i < samples; i++ {
		if times[i] <= times[i-1] {
			return nil, fmt.Errorf("%w: at index %d", ErrNonIncreasing, i)
		}
	}

	dxdt := mat.NewDense(vars, samples, nil)
	for v := 0; v < vars; v++ {
		row := x.RawRowView(v)
		out := dxdt.RawRowView(v)

		out[0] = (row[1] - row[0]) / (times[1] - times[0])
		for s := 1; s < samples-1; s++ {
			out[s] = (row[s+1] - row[s-1]) / (times[s+1] - times[s-1])
		}
		out[samples-1] = (row[samples-1] - row[samples-2]) / (times[samples-1] - times[samples-2])
	}
	return dxdt, nil
}
