// Package pareto maintains per-output-variable trade-off fronts over the
// (sparsity, error) objective space during a threshold sweep.
//
// Each front keeps a single winner per output variable: incoming candidates
// that are not dominated by the current winner compete under a pluggable
// [Scalarization], so the front collapses to one scalarized winner rather
// than an unbounded non-dominated set.
package pareto

// Objectives holds the two minimized quantities for a candidate model:
// index 0 is the sparsity (count of non-zero coefficients), index 1 the L2
// norm of the reconstruction residual.
type Objectives [2]float64

func (o Objectives) Sparsity() float64 { return o[0] }
func (o Objectives) Error() float64    { return o[1] }

// Dominates reports whether o is component-wise no worse than other and
// strictly better in at least one objective.
func (o Objectives) Dominates(other Objectives) bool {
	if o[0] > other[0] || o[1] > other[1] {
		return false
	}
	return o[0] < other[0] || o[1] < other[1]
}

// Candidate is one evaluated model for a single output variable.
type Candidate struct {
	Output       int
	Objectives   Objectives
	Coefficients []float64
	Iterations   int
	Threshold    float64
}

// Scalarization collapses the two objectives into one comparable score;
// lower is better. A scalarization must be strictly monotone in both
// objectives so that a dominating candidate always scores strictly better.
type Scalarization interface {
	Score(o Objectives) float64
}

// WeightedSum scores candidates as W0*sparsity + W1*error. Both weights must
// be positive; callers with objectives on very different scales should fold
// their normalization into the weights.
type WeightedSum struct {
	W0, W1 float64
}

// NewWeightedSum returns the default equal-weight scalarization.
func NewWeightedSum() WeightedSum {
	return WeightedSum{W0: 1, W1: 1}
}

func (w WeightedSum) Score(o Objectives) float64 {
	return w.W0*o[0] + w.W1*o[1]
}
