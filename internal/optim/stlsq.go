package optim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// STLSQ implements sequential thresholded least squares: alternate between
// zeroing coefficients below the threshold and refitting a reduced
// least-squares problem on the surviving support.
type STLSQ struct {
	threshold float64
}

// NewSTLSQ returns an STLSQ optimizer with the given sparsity threshold.
func NewSTLSQ(threshold float64) *STLSQ {
	return &STLSQ{threshold: threshold}
}

func (s *STLSQ) SetThreshold(v float64) { s.threshold = v }
func (s *STLSQ) Threshold() float64     { return s.threshold }

func (s *STLSQ) Clone() Optimizer {
	return &STLSQ{threshold: s.threshold}
}

func (s *STLSQ) Init(xi *mat.Dense, theta, dxdt *mat.Dense) error {
	return leastSquares(xi, theta, dxdt)
}

func (s *STLSQ) Fit(xi *mat.Dense, theta, dxdt *mat.Dense, maxIter int, tol float64) (int, error) {
	features, outputs := xi.Dims()
	prev := mat.DenseCopyOf(xi)

	for iter := 1; iter <= maxIter; iter++ {
		for i := 0; i < features; i++ {
			row := xi.RawRowView(i)
			for j := range row {
				if math.Abs(row[j]) < s.threshold {
					row[j] = 0
				}
			}
		}

		for j := 0; j < outputs; j++ {
			if err := s.refitColumn(xi, theta, dxdt, j); err != nil {
				return iter, err
			}
		}

		if err := checkFinite(xi); err != nil {
			return iter, err
		}
		if maxDelta(xi, prev) < tol {
			return iter, nil
		}
		prev.Copy(xi)
	}
	return maxIter, nil
}

// refitColumn solves the least-squares problem for output j restricted to
// the features whose coefficients survived thresholding.
func (s *STLSQ) refitColumn(xi *mat.Dense, theta, dxdt *mat.Dense, j int) error {
	features, samples := theta.Dims()

	support := make([]int, 0, features)
	for i := 0; i < features; i++ {
		if xi.At(i, j) != 0 {
			support = append(support, i)
		}
	}
	if len(support) == 0 {
		return nil
	}

	sub := mat.NewDense(samples, len(support), nil)
	for k, fi := range support {
		row := theta.RawRowView(fi)
		for t := 0; t < samples; t++ {
			sub.Set(t, k, row[t])
		}
	}

	target := mat.NewVecDense(samples, nil)
	copy(target.RawVector().Data, dxdt.RawRowView(j))

	var coef mat.VecDense
	if err := coef.SolveVec(sub, target); err != nil {
		return fmt.Errorf("%w: output %d: %v", ErrSolveFailed, j, err)
	}

	for k, fi := range support {
		xi.Set(fi, j, coef.AtVec(k))
	}
	return nil
}
