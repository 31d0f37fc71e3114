package feature

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrDenoiseFactorize indicates the SVD of the feature matrix failed to converge.
var ErrDenoiseFactorize = errors.New("feature: svd factorization failed")

// Normalize scales every feature row of theta to unit L2 norm in place,
// recording the original norm of row i in scales[i]. Rows with zero norm are
// left untouched and get a recorded scale of 1 so rescaling round-trips.
//
// scales must have one entry per feature row; a mismatch is a programming
// error and panics.
func Normalize(theta *mat.Dense, scales []float64) {
	rows, _ := theta.Dims()
	assertScales(rows, scales)

	for i := 0; i < rows; i++ {
		row := theta.RawRowView(i)
		n := floats.Norm(row, 2)
		if n == 0 {
			scales[i] = 1
			continue
		}
		scales[i] = n
		floats.Scale(1/n, row)
	}
}

// RescaleCoefficients divides each feature row of the coefficient matrix by
// its recorded scale, inverting the effect of Normalize on a solution fitted
// against the normalized features.
func RescaleCoefficients(xi *mat.Dense, scales []float64) {
	rows, _ := xi.Dims()
	assertScales(rows, scales)

	for i := 0; i < rows; i++ {
		floats.Scale(1/scales[i], xi.RawRowView(i))
	}
}

// RescaleFeatures multiplies each feature row of theta back by its recorded
// scale, restoring the matrix to its pre-Normalize units.
func RescaleFeatures(theta *mat.Dense, scales []float64) {
	rows, _ := theta.Dims()
	assertScales(rows, scales)

	for i := 0; i < rows; i++ {
		floats.Scale(scales[i], theta.RawRowView(i))
	}
}

func assertScales(rows int, scales []float64) {
	if len(scales) != rows {
		panic(fmt.Sprintf("feature: scale vector length %d, feature rows %d", len(scales), rows))
	}
}
