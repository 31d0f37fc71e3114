package discover

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/sindy/internal/basis"
	"github.com/san-kum/sindy/internal/feature"
	"github.com/san-kum/sindy/internal/pareto"
	"github.com/san-kum/sindy/internal/regress"
)

// ErrNoThresholds indicates a sweep was requested with an empty threshold
// sequence, so no candidate could ever be selected.
var ErrNoThresholds = errors.New("discover: empty threshold sequence")

// Discover runs one sparse regression at the optimizer's current threshold
// and packages the outcome.
func Discover(x, dxdt *mat.Dense, b basis.Basis, opts regress.Options) (*Result, error) {
	xi, iters, err := regress.Run(x, dxdt, b, opts)
	if err != nil {
		return nil, err
	}
	return &Result{
		Coefficients: xi,
		Basis:        b,
		Iterations:   iters,
		Converged:    iters < opts.MaxIter,
		Threshold:    opts.Optimizer.Threshold(),
		Optimizer:    opts.Optimizer,
		States:       x,
		Derivatives:  dxdt,
		Params:       opts.Params,
		Times:        opts.Times,
	}, nil
}

// Sweep evaluates a sequence of sparsity thresholds and keeps, independently
// for each output variable, the candidate with the best sparsity/error
// trade-off under the scalarization.
type Sweep struct {
	Thresholds    []float64
	Scalarization pareto.Scalarization

	// Observer, when non-nil, is called after each threshold evaluation.
	Observer func(step, total int, threshold float64)

	// RecordTrace enables per-step objective summaries, retrievable from
	// Trace after a run.
	RecordTrace bool

	trace []TraceEntry
}

// TraceEntry summarizes one threshold step: objectives summed over all
// output variables.
type TraceEntry struct {
	Threshold float64
	Sparsity  float64
	Residual  float64
}

// Trace returns the per-step summaries of the last run, when recording was
// enabled.
func (s *Sweep) Trace() []TraceEntry { return s.trace }

func (s *Sweep) record(cands []pareto.Candidate, threshold float64) {
	if !s.RecordTrace {
		return
	}
	e := TraceEntry{Threshold: threshold}
	for _, c := range cands {
		e.Sparsity += c.Objectives.Sparsity()
		e.Residual += c.Objectives.Error()
	}
	s.trace = append(s.trace, e)
}

// NewSweep returns a sweep over the given thresholds with the default
// weighted-sum scalarization.
func NewSweep(thresholds []float64) *Sweep {
	return &Sweep{Thresholds: thresholds, Scalarization: pareto.NewWeightedSum()}
}

// Run performs the sweep. The feature matrix is evaluated and denoised once;
// each threshold step normalizes, fits, and restores it, so every step sees
// identical inputs. The optimizer in opts is exclusively mutated for the
// duration of the call and is left set to the winning threshold.
func (s *Sweep) Run(x, dxdt *mat.Dense, b basis.Basis, opts regress.Options) (*Result, error) {
	if len(s.Thresholds) == 0 {
		return nil, ErrNoThresholds
	}

	theta, outputs, features, err := s.prepare(x, dxdt, b, opts)
	if err != nil {
		return nil, err
	}
	stepOpts := opts
	stepOpts.Denoise = false // applied once above

	running := pareto.NewFront(outputs)
	tmp := pareto.NewFront(outputs)
	xi := mat.NewDense(features, outputs, nil)
	residual := make([]float64, dxdtSamples(dxdt))

	s.trace = s.trace[:0]
	cands := make([]pareto.Candidate, outputs)
	for step, th := range s.Thresholds {
		opts.Optimizer.SetThreshold(th)
		iters, err := regress.RunWithFeatures(xi, theta, dxdt, stepOpts)
		if err != nil {
			return nil, fmt.Errorf("threshold %g: %w", th, err)
		}

		for j := 0; j < outputs; j++ {
			cands[j] = makeCandidate(xi, theta, dxdt, residual, j, iters, th)
			tmp.Insert(cands[j])
			if step == 0 {
				running.Insert(cands[j])
			}
		}
		if step > 0 {
			running.Merge(tmp, s.Scalarization)
		}
		s.record(cands, th)
		if s.Observer != nil {
			s.Observer(step+1, len(s.Thresholds), th)
		}
	}

	return s.assemble(running, x, dxdt, b, opts, features, outputs)
}

func (s *Sweep) prepare(x, dxdt *mat.Dense, b basis.Basis, opts regress.Options) (*mat.Dense, int, int, error) {
	_, samples := x.Dims()
	outputs, targetSamples := dxdt.Dims()
	if samples != targetSamples {
		return nil, 0, 0, fmt.Errorf("%w: got %d and %d", regress.ErrSampleMismatch, samples, targetSamples)
	}
	theta, err := b.Evaluate(x, opts.Params, opts.Times)
	if err != nil {
		return nil, 0, 0, err
	}
	if opts.Denoise {
		if _, err := feature.Denoise(theta); err != nil {
			return nil, 0, 0, err
		}
	}
	features, _ := theta.Dims()
	return theta, outputs, features, nil
}

// assemble extracts the per-output winners into the final coefficient matrix
// and reports the overall winner's threshold and iteration count. The
// winning threshold is bound from the candidate record, never from the last
// swept value.
func (s *Sweep) assemble(front *pareto.Front, x, dxdt *mat.Dense, b basis.Basis, opts regress.Options, features, outputs int) (*Result, error) {
	final := mat.NewDense(features, outputs, nil)
	var overall pareto.Candidate
	overallSet := false

	for j := 0; j < outputs; j++ {
		w, ok := front.Winner(j)
		if !ok {
			return nil, fmt.Errorf("discover: no candidate retained for output %d", j)
		}
		final.SetCol(j, w.Coefficients)
		if !overallSet || s.Scalarization.Score(w.Objectives) < s.Scalarization.Score(overall.Objectives) {
			overall = w
			overallSet = true
		}
	}

	opts.Optimizer.SetThreshold(overall.Threshold)
	return &Result{
		Coefficients: final,
		Basis:        b,
		Iterations:   overall.Iterations,
		Converged:    overall.Iterations < opts.MaxIter,
		Threshold:    overall.Threshold,
		Optimizer:    opts.Optimizer,
		States:       x,
		Derivatives:  dxdt,
		Params:       opts.Params,
		Times:        opts.Times,
	}, nil
}

// makeCandidate computes the objective vector for output j: the L0 count of
// its coefficient column and the L2 norm of its reconstruction residual.
func makeCandidate(xi, theta, dxdt *mat.Dense, residual []float64, j, iters int, threshold float64) pareto.Candidate {
	features, _ := xi.Dims()
	coef := mat.Col(nil, j, xi)

	nonzero := 0
	for _, w := range coef {
		if w != 0 {
			nonzero++
		}
	}

	copy(residual, dxdt.RawRowView(j))
	for i := 0; i < features; i++ {
		if w := coef[i]; w != 0 {
			floats.AddScaled(residual, -w, theta.RawRowView(i))
		}
	}

	return pareto.Candidate{
		Output:       j,
		Objectives:   pareto.Objectives{float64(nonzero), floats.Norm(residual, 2)},
		Coefficients: coef,
		Iterations:   iters,
		Threshold:    threshold,
	}
}

func dxdtSamples(dxdt *mat.Dense) int {
	_, samples := dxdt.Dims()
	return samples
}

// VectorState promotes a single-variable sample vector to the 1 x n state
// matrix layout the core operates on.
func VectorState(samples []float64) *mat.Dense {
	data := make([]float64, len(samples))
	copy(data, samples)
	return mat.NewDense(1, len(samples), data)
}
