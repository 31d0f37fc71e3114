package basis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Trig evaluates sin(k*x) and cos(k*x) for each state variable and each
// harmonic k in [1, Harmonics]. Useful for oscillatory systems where
// polynomial candidates alone cannot capture the dynamics.
type Trig struct {
	Harmonics int
}

func NewTrig(harmonics int) *Trig {
	if harmonics < 1 {
		harmonics = 1
	}
	return &Trig{Harmonics: harmonics}
}

func (t *Trig) Dim(stateDim int) int {
	return 2 * t.Harmonics * stateDim
}

func (t *Trig) Names(stateDim int) []string {
	names := make([]string, 0, t.Dim(stateDim))
	for k := 1; k <= t.Harmonics; k++ {
		for j := 0; j < stateDim; j++ {
			names = append(names, trigName("sin", k, j))
			names = append(names, trigName("cos", k, j))
		}
	}
	return names
}

func trigName(fn string, k, j int) string {
	if k == 1 {
		return fmt.Sprintf("%s(x%d)", fn, j+1)
	}
	return fmt.Sprintf("%s(%d*x%d)", fn, k, j+1)
}

func (t *Trig) Evaluate(x *mat.Dense, _, times []float64) (*mat.Dense, error) {
	vars, samples, err := checkState(x, times)
	if err != nil {
		return nil, err
	}

	theta := mat.NewDense(t.Dim(vars), samples, nil)
	row := 0
	for k := 1; k <= t.Harmonics; k++ {
		for j := 0; j < vars; j++ {
			sinRow := theta.RawRowView(row)
			cosRow := theta.RawRowView(row + 1)
			for s := 0; s < samples; s++ {
				v := float64(k) * x.At(j, s)
				sinRow[s] = math.Sin(v)
				cosRow[s] = math.Cos(v)
			}
			row += 2
		}
	}
	return theta, nil
}

// Union stacks the feature rows of several bases into one candidate library.
type Union struct {
	Members []Basis
}

func NewUnion(members ...Basis) *Union {
	return &Union{Members: members}
}

func (u *Union) Dim(stateDim int) int {
	total := 0
	for _, m := range u.Members {
		total += m.Dim(stateDim)
	}
	return total
}

func (u *Union) Names(stateDim int) []string {
	names := make([]string, 0, u.Dim(stateDim))
	for _, m := range u.Members {
		names = append(names, m.Names(stateDim)...)
	}
	return names
}

func (u *Union) Evaluate(x *mat.Dense, params, times []float64) (*mat.Dense, error) {
	vars, samples, err := checkState(x, times)
	if err != nil {
		return nil, err
	}

	theta := mat.NewDense(u.Dim(vars), samples, nil)
	offset := 0
	for _, m := range u.Members {
		part, err := m.Evaluate(x, params, times)
		if err != nil {
			return nil, err
		}
		rows, _ := part.Dims()
		for i := 0; i < rows; i++ {
			copy(theta.RawRowView(offset+i), part.RawRowView(i))
		}
		offset += rows
	}
	return theta, nil
}
