package regress

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/sindy/internal/basis"
	"github.com/san-kum/sindy/internal/optim"
)

// decayData samples x(t) = (2*exp(-0.25t), exp(-0.25t)) together with the
// exact derivatives dx/dt = -0.25*x.
func decayData(samples int) (x, dxdt *mat.Dense) {
	x = mat.NewDense(2, samples, nil)
	dxdt = mat.NewDense(2, samples, nil)
	for s := 0; s < samples; s++ {
		t := 0.05 * float64(s)
		v1 := 2 * math.Exp(-0.25*t)
		v2 := math.Exp(-0.25*t) * math.Cos(t)
		x.Set(0, s, v1)
		x.Set(1, s, v2)
		dxdt.Set(0, s, -0.25*v1)
		dxdt.Set(1, s, -0.25*v2-math.Exp(-0.25*t)*math.Sin(t))
	}
	return x, dxdt
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Optimizer = optim.NewSTLSQ(0.05)
	return opts
}

func TestRunRecoversLinearTerm(t *testing.T) {
	x, dxdt := decayData(200)
	b := basis.NewPolynomial(2)

	xi, iters, err := Run(x, dxdt, b, testOptions())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if iters < 1 || iters > 10 {
		t.Errorf("iterations %d outside [1, 10]", iters)
	}

	// First output is exactly -0.25*x1; the x1 row is index 1 in the
	// graded monomial ordering {1, x1, x2, ...}.
	if got := xi.At(1, 0); math.Abs(got+0.25) > 1e-6 {
		t.Errorf("x1 coefficient for output 0: got %g, want -0.25", got)
	}
	features, _ := xi.Dims()
	for i := 0; i < features; i++ {
		if i == 1 {
			continue
		}
		if got := xi.At(i, 0); math.Abs(got) > 1e-6 {
			t.Errorf("coefficient %d for output 0: got %g, want 0", i, got)
		}
	}
}

func TestRunSampleMismatch(t *testing.T) {
	x := mat.NewDense(2, 10, nil)
	dxdt := mat.NewDense(2, 9, nil)

	_, _, err := Run(x, dxdt, basis.NewPolynomial(2), testOptions())
	if !errors.Is(err, ErrSampleMismatch) {
		t.Errorf("expected ErrSampleMismatch, got %v", err)
	}
}

func TestRunInPlaceShapeMismatch(t *testing.T) {
	x, dxdt := decayData(50)
	xi := mat.NewDense(3, 2, nil) // degree-2 library over 2 vars has 6 rows

	_, err := RunInPlace(xi, x, dxdt, basis.NewPolynomial(2), testOptions())
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestRunInPlaceMatchesRun(t *testing.T) {
	x, dxdt := decayData(120)
	b := basis.NewPolynomial(2)

	want, wantIters, err := Run(x, dxdt, b, testOptions())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	xi := mat.NewDense(b.Dim(2), 2, nil)
	iters, err := RunInPlace(xi, x, dxdt, b, testOptions())
	if err != nil {
		t.Fatalf("run in place failed: %v", err)
	}

	if iters != wantIters {
		t.Errorf("iterations differ: %d vs %d", iters, wantIters)
	}
	if !mat.EqualApprox(want, xi, 1e-12) {
		t.Error("coefficients differ between Run and RunInPlace")
	}
}

func TestRunWithFeaturesRestoresTheta(t *testing.T) {
	x, dxdt := decayData(80)
	b := basis.NewPolynomial(2)

	theta, err := b.Evaluate(x, nil, nil)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	orig := mat.DenseCopyOf(theta)

	xi := mat.NewDense(b.Dim(2), 2, nil)
	if _, err := RunWithFeatures(xi, theta, dxdt, testOptions()); err != nil {
		t.Fatalf("run with features failed: %v", err)
	}

	if !mat.EqualApprox(orig, theta, 1e-10) {
		t.Error("feature matrix not restored to original units")
	}
}

func TestRunWithFeaturesNoNormalize(t *testing.T) {
	x, dxdt := decayData(80)
	b := basis.NewPolynomial(2)

	theta, err := b.Evaluate(x, nil, nil)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	opts := testOptions()
	opts.Normalize = false

	xi := mat.NewDense(b.Dim(2), 2, nil)
	if _, err := RunWithFeatures(xi, theta, dxdt, opts); err != nil {
		t.Fatalf("run with features failed: %v", err)
	}

	// Unnormalized fit still finds the governing term.
	if got := xi.At(1, 0); math.Abs(got+0.25) > 1e-6 {
		t.Errorf("x1 coefficient for output 0: got %g, want -0.25", got)
	}
}

func TestRunDeterministic(t *testing.T) {
	x, dxdt := decayData(100)
	b := basis.NewPolynomial(2)

	a, _, err := Run(x, dxdt, b, testOptions())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	c, _, err := Run(x, dxdt, b, testOptions())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !mat.Equal(a, c) {
		t.Error("identical inputs produced different coefficients")
	}
}
