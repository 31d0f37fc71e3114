package optim

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ISTA implements iterative soft thresholding: proximal gradient descent on
// the L1-relaxed sparse regression objective. The threshold plays the role
// of the L1 penalty weight. Slower to sparsify than STLSQ but demonstrates
// that the driver and selector are agnostic to the solver.
type ISTA struct {
	threshold float64
}

func NewISTA(threshold float64) *ISTA {
	return &ISTA{threshold: threshold}
}

func (s *ISTA) SetThreshold(v float64) { s.threshold = v }
func (s *ISTA) Threshold() float64     { return s.threshold }

func (s *ISTA) Clone() Optimizer {
	return &ISTA{threshold: s.threshold}
}

func (s *ISTA) Init(xi *mat.Dense, theta, dxdt *mat.Dense) error {
	return leastSquares(xi, theta, dxdt)
}

func (s *ISTA) Fit(xi *mat.Dense, theta, dxdt *mat.Dense, maxIter int, tol float64) (int, error) {
	features, samples := theta.Dims()
	_, outputs := xi.Dims()

	// Lipschitz bound for the gradient step; the squared Frobenius norm
	// upper-bounds the largest squared singular value.
	l := 0.0
	for i := 0; i < features; i++ {
		row := theta.RawRowView(i)
		l += floats.Dot(row, row)
	}
	if l == 0 {
		return 0, nil
	}
	step := 1 / l
	shrink := s.threshold * step

	prev := mat.DenseCopyOf(xi)
	residual := make([]float64, samples)

	for iter := 1; iter <= maxIter; iter++ {
		for j := 0; j < outputs; j++ {
			// residual = theta^T * xi[:,j] - dxdt[j,:]
			copy(residual, dxdt.RawRowView(j))
			floats.Scale(-1, residual)
			for i := 0; i < features; i++ {
				if w := xi.At(i, j); w != 0 {
					floats.AddScaled(residual, w, theta.RawRowView(i))
				}
			}
			for i := 0; i < features; i++ {
				g := floats.Dot(theta.RawRowView(i), residual)
				xi.Set(i, j, softThreshold(xi.At(i, j)-step*g, shrink))
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

// softThreshold is S(z, a) = sign(z) * max(|z|-a, 0).
func softThreshold(z, a float64) float64 {
	if z > a {
		return z - a
	}
	if z < -a {
		return z + a
	}
	return 0
}
