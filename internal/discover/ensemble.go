package discover

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/sindy/internal/basis"
	"github.com/san-kum/sindy/internal/feature"
	"github.com/san-kum/sindy/internal/optim"
	"github.com/san-kum/sindy/internal/pareto"
	"github.com/san-kum/sindy/internal/regress"
)

// ErrNotCloneable indicates the configured optimizer cannot be duplicated
// for concurrent threshold evaluations.
var ErrNotCloneable = errors.New("discover: optimizer does not implement optim.Cloner")

// Ensemble runs a threshold sweep with per-threshold regressions evaluated
// concurrently. The preprocessed feature matrix is shared read-only, every
// worker fits with its own optimizer clone, and candidates are merged in
// threshold order afterwards, so the observable result matches the serial
// [Sweep].
type Ensemble struct {
	Sweep
	// Workers bounds concurrent regressions; 0 means GOMAXPROCS.
	Workers int
}

// NewEnsemble returns a parallel sweep over the given thresholds.
func NewEnsemble(thresholds []float64) *Ensemble {
	return &Ensemble{Sweep: *NewSweep(thresholds)}
}

func (e *Ensemble) Run(ctx context.Context, x, dxdt *mat.Dense, b basis.Basis, opts regress.Options) (*Result, error) {
	if len(e.Thresholds) == 0 {
		return nil, ErrNoThresholds
	}
	cloner, ok := opts.Optimizer.(optim.Cloner)
	if !ok {
		return nil, ErrNotCloneable
	}

	theta, outputs, features, err := e.prepare(x, dxdt, b, opts)
	if err != nil {
		return nil, err
	}

	// Normalize once up front; theta is read-only from here on. Workers fit
	// in normalized units and rescale their own coefficient copies.
	var scales []float64
	if opts.Normalize {
		scales = make([]float64, features)
		feature.Normalize(theta, scales)
	}

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	type stepResult struct {
		candidates []pareto.Candidate
		err        error
	}
	results := make([]stepResult, len(e.Thresholds))
	bufs := newDensePool(features, outputs)
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for idx, th := range e.Thresholds {
		wg.Add(1)
		go func(idx int, th float64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				results[idx].err = err
				return
			}

			opt := cloner.Clone()
			opt.SetThreshold(th)

			xi := bufs.Get()
			defer bufs.Put(xi)

			if err := opt.Init(xi, theta, dxdt); err != nil {
				results[idx].err = fmt.Errorf("threshold %g: %w", th, err)
				return
			}
			iters, err := opt.Fit(xi, theta, dxdt, opts.MaxIter, opts.Tol)
			if err != nil {
				results[idx].err = fmt.Errorf("threshold %g: %w", th, err)
				return
			}

			// Objectives are scale-invariant: the residual of the normalized
			// fit equals the residual of the rescaled one.
			residual := make([]float64, dxdtSamples(dxdt))
			cands := make([]pareto.Candidate, outputs)
			for j := 0; j < outputs; j++ {
				cands[j] = makeCandidate(xi, theta, dxdt, residual, j, iters, th)
			}
			if opts.Normalize {
				for j := range cands {
					for i, s := range scales {
						cands[j].Coefficients[i] /= s
					}
				}
			}
			results[idx].candidates = cands
		}(idx, th)
	}
	wg.Wait()

	running := pareto.NewFront(outputs)
	tmp := pareto.NewFront(outputs)
	e.trace = e.trace[:0]
	for step := range results {
		if err := results[step].err; err != nil {
			return nil, err
		}
		for _, c := range results[step].candidates {
			tmp.Insert(c)
			if step == 0 {
				running.Insert(c)
			}
		}
		if step > 0 {
			running.Merge(tmp, e.Scalarization)
		}
		e.record(results[step].candidates, e.Thresholds[step])
		if e.Observer != nil {
			e.Observer(step+1, len(e.Thresholds), e.Thresholds[step])
		}
	}

	return e.assemble(running, x, dxdt, b, opts, features, outputs)
}
