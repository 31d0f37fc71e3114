package feature

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Denoise removes noise-dominated singular directions from theta in place by
// hard-thresholding the singular values of its transpose at the
// Gavish-Donoho universal threshold omega(beta) * median(sigma), where beta
// is the aspect ratio of the matrix. Returns the number of singular values
// kept. Applied before Normalize so recorded scales reflect the denoised rows.
func Denoise(theta *mat.Dense) (int, error) {
	var tt mat.Dense
	tt.CloneFrom(theta.T())
	m, n := tt.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(&tt, mat.SVDThin); !ok {
		return 0, ErrDenoiseFactorize
	}

	sigma := svd.Values(nil)
	tau := omega(aspectRatio(m, n)) * median(sigma)

	kept := 0
	for _, v := range sigma {
		if v > tau {
			kept++
		}
	}
	if kept == len(sigma) {
		return kept, nil
	}
	for i := kept; i < len(sigma); i++ {
		sigma[i] = 0
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// tt = U * diag(sigma) * V^T, with the tail of sigma zeroed.
	scaled := mat.NewDense(len(sigma), n, nil)
	for i := 0; i < kept; i++ {
		row := scaled.RawRowView(i)
		for j := 0; j < n; j++ {
			row[j] = sigma[i] * v.At(j, i)
		}
	}
	tt.Mul(&u, scaled)

	theta.Copy(tt.T())
	return kept, nil
}

func aspectRatio(m, n int) float64 {
	if m >= n {
		return float64(n) / float64(m)
	}
	return float64(m) / float64(n)
}

// omega approximates the optimal hard-threshold coefficient for unknown
// noise level (Gavish & Donoho 2014, eq. 5).
func omega(beta float64) float64 {
	return 0.56*beta*beta*beta - 0.95*beta*beta + 1.82*beta + 1.43
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return 0.5 * (sorted[mid-1] + sorted[mid])
	}
	return sorted[mid]
}
