package basis

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Polynomial evaluates all monomials of the state variables up to a total
// degree, including the constant term. For two variables and degree 2 the
// candidate set is {1, x1, x2, x1^2, x1*x2, x2^2}.
type Polynomial struct {
	Degree int
}

// NewPolynomial returns a polynomial basis of the given total degree.
func NewPolynomial(degree int) *Polynomial {
	if degree < 0 {
		degree = 0
	}
	return &Polynomial{Degree: degree}
}

func (p *Polynomial) Dim(stateDim int) int {
	return len(monomials(stateDim, p.Degree))
}

func (p *Polynomial) Names(stateDim int) []string {
	exps := monomials(stateDim, p.Degree)
	names := make([]string, len(exps))
	for i, e := range exps {
		names[i] = monomialName(e)
	}
	return names
}

func (p *Polynomial) Evaluate(x *mat.Dense, _, times []float64) (*mat.Dense, error) {
	vars, samples, err := checkState(x, times)
	if err != nil {
		return nil, err
	}

	exps := monomials(vars, p.Degree)
	theta := mat.NewDense(len(exps), samples, nil)
	for i, e := range exps {
		row := theta.RawRowView(i)
		for s := 0; s < samples; s++ {
			v := 1.0
			for j, k := range e {
				if k > 0 {
					v *= math.Pow(x.At(j, s), float64(k))
				}
			}
			row[s] = v
		}
	}
	return theta, nil
}

// monomials enumerates exponent vectors with total degree <= degree, in
// graded order: constant first, then degree 1, degree 2, and so on.
func monomials(vars, degree int) [][]int {
	var out [][]int
	for d := 0; d <= degree; d++ {
		out = append(out, exactDegree(vars, d)...)
	}
	return out
}

func exactDegree(vars, degree int) [][]int {
	if vars == 1 {
		return [][]int{{degree}}
	}
	var out [][]int
	for k := degree; k >= 0; k-- {
		for _, rest := range exactDegree(vars-1, degree-k) {
			e := append([]int{k}, rest...)
			out = append(out, e)
		}
	}
	return out
}

func monomialName(exps []int) string {
	var parts []string
	for i, k := range exps {
		switch {
		case k == 1:
			parts = append(parts, fmt.Sprintf("x%d", i+1))
		case k > 1:
			parts = append(parts, fmt.Sprintf("x%d^%d", i+1, k))
		}
	}
	if len(parts) == 0 {
		return "1"
	}
	return strings.Join(parts, "*")
}
