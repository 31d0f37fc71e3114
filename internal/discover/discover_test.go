package discover_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/sindy/internal/basis"
	"github.com/san-kum/sindy/internal/discover"
	"github.com/san-kum/sindy/internal/integrate"
	"github.com/san-kum/sindy/internal/models"
	"github.com/san-kum/sindy/internal/optim"
	"github.com/san-kum/sindy/internal/regress"
)

func linearData(t *testing.T) (states, derivs *mat.Dense, times []float64) {
	t.Helper()
	sys := models.NewLinear2D()
	states, derivs, times, err := integrate.Trajectory(context.Background(), sys, sys.DefaultState(), 0.01, 10.0)
	if err != nil {
		t.Fatalf("trajectory failed: %v", err)
	}
	return states, derivs, times
}

func sweepOptions() regress.Options {
	opts := regress.DefaultOptions()
	opts.Optimizer = optim.NewSTLSQ(0.1)
	return opts
}

func TestDiscoverSingleThreshold(t *testing.T) {
	states, derivs, _ := linearData(t)
	b := basis.NewPolynomial(2)

	result, err := discover.Discover(states, derivs, b, sweepOptions())
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}

	if !result.Converged {
		t.Error("expected convergence on clean data")
	}
	if result.Threshold != 0.1 {
		t.Errorf("threshold %g, want 0.1", result.Threshold)
	}
	if got := result.Coefficients.At(1, 0); math.Abs(got+0.1) > 1e-6 {
		t.Errorf("x1 coefficient for dx1: got %g, want -0.1", got)
	}
}

func TestSweepEmptyThresholds(t *testing.T) {
	states, derivs, _ := linearData(t)

	_, err := discover.NewSweep(nil).Run(states, derivs, basis.NewPolynomial(2), sweepOptions())
	if !errors.Is(err, discover.ErrNoThresholds) {
		t.Errorf("expected ErrNoThresholds, got %v", err)
	}

	_, err = discover.NewEnsemble(nil).Run(context.Background(), states, derivs, basis.NewPolynomial(2), sweepOptions())
	if !errors.Is(err, discover.ErrNoThresholds) {
		t.Errorf("expected ErrNoThresholds from ensemble, got %v", err)
	}
}

func TestSweepSingleThresholdEquivalence(t *testing.T) {
	states, derivs, _ := linearData(t)
	b := basis.NewPolynomial(2)

	direct, err := discover.Discover(states, derivs, b, sweepOptions())
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}

	swept, err := discover.NewSweep([]float64{0.1}).Run(states, derivs, b, sweepOptions())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	if !mat.EqualApprox(direct.Coefficients, swept.Coefficients, 1e-12) {
		t.Error("single-threshold sweep differs from direct regression")
	}
	if direct.Iterations != swept.Iterations {
		t.Errorf("iteration counts differ: %d vs %d", direct.Iterations, swept.Iterations)
	}
}

func TestSweepDeterministic(t *testing.T) {
	states, derivs, _ := linearData(t)
	b := basis.NewPolynomial(2)
	thresholds := []float64{0.01, 0.05, 0.1, 0.5, 1.0}

	a, err := discover.NewSweep(thresholds).Run(states, derivs, b, sweepOptions())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	c, err := discover.NewSweep(thresholds).Run(states, derivs, b, sweepOptions())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	if !mat.Equal(a.Coefficients, c.Coefficients) {
		t.Error("identical sweeps produced different coefficients")
	}
	if a.Iterations != c.Iterations || a.Threshold != c.Threshold {
		t.Error("identical sweeps produced different metadata")
	}
}

func TestSweepBindsWinningThreshold(t *testing.T) {
	states, derivs, _ := linearData(t)
	b := basis.NewPolynomial(2)
	thresholds := []float64{0.01, 0.05, 0.1, 0.5, 1.0}

	opts := sweepOptions()
	result, err := discover.NewSweep(thresholds).Run(states, derivs, b, opts)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	// The reported threshold is the winning candidate's, bound from the
	// front, and the optimizer is left set to it.
	found := false
	for _, th := range thresholds {
		if result.Threshold == th {
			found = true
		}
	}
	if !found {
		t.Errorf("threshold %g is not one of the swept values", result.Threshold)
	}
	if got := opts.Optimizer.Threshold(); got != result.Threshold {
		t.Errorf("optimizer threshold %g, want winning %g", got, result.Threshold)
	}
}

func TestSweepObserverAndTrace(t *testing.T) {
	states, derivs, _ := linearData(t)
	thresholds := []float64{0.05, 0.1, 0.2}

	sw := discover.NewSweep(thresholds)
	sw.RecordTrace = true
	var seen []float64
	sw.Observer = func(step, total int, th float64) {
		if total != len(thresholds) {
			t.Errorf("total %d, want %d", total, len(thresholds))
		}
		seen = append(seen, th)
	}

	if _, err := sw.Run(states, derivs, basis.NewPolynomial(2), sweepOptions()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	if len(seen) != len(thresholds) {
		t.Fatalf("observer called %d times, want %d", len(seen), len(thresholds))
	}
	trace := sw.Trace()
	if len(trace) != len(thresholds) {
		t.Fatalf("trace has %d entries, want %d", len(trace), len(thresholds))
	}
	for i, e := range trace {
		if e.Threshold != thresholds[i] {
			t.Errorf("trace entry %d threshold %g, want %g", i, e.Threshold, thresholds[i])
		}
		if e.Sparsity <= 0 {
			t.Errorf("trace entry %d has no surviving terms", i)
		}
	}
}

func TestEnsembleMatchesSerialSweep(t *testing.T) {
	states, derivs, _ := linearData(t)
	b := basis.NewPolynomial(2)
	thresholds := []float64{0.01, 0.05, 0.1, 0.5, 1.0}

	serial, err := discover.NewSweep(thresholds).Run(states, derivs, b, sweepOptions())
	if err != nil {
		t.Fatalf("serial sweep failed: %v", err)
	}

	ens := discover.NewEnsemble(thresholds)
	ens.Workers = 3
	parallel, err := ens.Run(context.Background(), states, derivs, b, sweepOptions())
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}

	if !mat.EqualApprox(serial.Coefficients, parallel.Coefficients, 1e-8) {
		t.Error("ensemble coefficients differ from serial sweep")
	}
	if serial.Threshold != parallel.Threshold {
		t.Errorf("winning thresholds differ: %g vs %g", serial.Threshold, parallel.Threshold)
	}
}

func TestEnsembleCancellation(t *testing.T) {
	states, derivs, _ := linearData(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := discover.NewEnsemble([]float64{0.1, 0.2}).Run(ctx, states, derivs, basis.NewPolynomial(2), sweepOptions())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEnsembleRequiresCloneable(t *testing.T) {
	states, derivs, _ := linearData(t)

	opts := sweepOptions()
	opts.Optimizer = uncloneable{optim.NewSTLSQ(0.1)}

	_, err := discover.NewEnsemble([]float64{0.1}).Run(context.Background(), states, derivs, basis.NewPolynomial(2), opts)
	if !errors.Is(err, discover.ErrNotCloneable) {
		t.Errorf("expected ErrNotCloneable, got %v", err)
	}
}

// uncloneable hides the Clone method of the wrapped optimizer by promoting
// only the interface methods.
type uncloneable struct {
	optim.Optimizer
}

func TestVectorState(t *testing.T) {
	m := discover.VectorState([]float64{1, 2, 3})
	r, c := m.Dims()
	if r != 1 || c != 3 {
		t.Fatalf("dims %dx%d, want 1x3", r, c)
	}
	if m.At(0, 2) != 3 {
		t.Errorf("unexpected value %g", m.At(0, 2))
	}
}

func BenchmarkSweep(b *testing.B) {
	sys := models.NewLinear2D()
	states, derivs, _, err := integrate.Trajectory(context.Background(), sys, sys.DefaultState(), 0.01, 10.0)
	if err != nil {
		b.Fatal(err)
	}
	thresholds := []float64{0.01, 0.05, 0.1, 0.5, 1.0}
	pb := basis.NewPolynomial(2)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := discover.NewSweep(thresholds).Run(states, derivs, pb, sweepOptions()); err != nil {
			b.Fatal(err)
		}
	}
}

func TestResultEquationsAndSparsity(t *testing.T) {
	states, derivs, _ := linearData(t)
	b := basis.NewPolynomial(2)

	result, err := discover.NewSweep([]float64{0.01, 0.1, 1.0}).Run(states, derivs, b, sweepOptions())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	eqs := result.Equations()
	if len(eqs) != 2 {
		t.Fatalf("expected 2 equations, got %d", len(eqs))
	}
	counts := result.Sparsity()
	if counts[0] != 1 {
		t.Errorf("dx1 should have one term, got %d", counts[0])
	}
	if counts[1] != 2 {
		t.Errorf("dx2 should have two terms, got %d", counts[1])
	}
}
