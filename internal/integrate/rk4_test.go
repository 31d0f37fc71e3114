package integrate

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/sindy/internal/models"
)

// decay is dx = -k*x with the closed-form solution x0*exp(-k*t).
type decay struct{ k float64 }

func (d decay) Name() string               { return "decay" }
func (d decay) StateDim() int              { return 1 }
func (d decay) DefaultState() models.State { return models.State{1.0} }

func (d decay) Derivative(x models.State, _ float64) models.State {
	return models.State{-d.k * x[0]}
}

func TestStepExponentialDecay(t *testing.T) {
	sys := decay{k: 1.0}
	integ := NewRK4()

	x := models.State{1.0}
	dt := 0.01
	for i := 0; i < 100; i++ {
		x = integ.Step(sys, x, float64(i)*dt, dt)
	}

	want := math.Exp(-1.0)
	if math.Abs(x[0]-want) > 1e-9 {
		t.Errorf("x(1) = %g, want %g", x[0], want)
	}
}

func TestStepFourthOrderConvergence(t *testing.T) {
	sys := decay{k: 1.0}

	errAt := func(dt float64) float64 {
		integ := NewRK4()
		x := models.State{1.0}
		steps := int(1.0 / dt)
		for i := 0; i < steps; i++ {
			x = integ.Step(sys, x, float64(i)*dt, dt)
		}
		return math.Abs(x[0] - math.Exp(-1.0))
	}

	coarse := errAt(0.1)
	fine := errAt(0.05)
	ratio := coarse / fine
	// Halving dt should cut the global error by about 2^4.
	if ratio < 10 || ratio > 25 {
		t.Errorf("error ratio %g, want near 16", ratio)
	}
}

func TestTrajectoryShapes(t *testing.T) {
	sys := models.NewLinear2D()
	states, derivs, times, err := Trajectory(context.Background(), sys, sys.DefaultState(), 0.01, 1.0)
	if err != nil {
		t.Fatalf("trajectory failed: %v", err)
	}

	rows, cols := states.Dims()
	if rows != 2 || cols != 101 {
		t.Fatalf("states %dx%d, want 2x101", rows, cols)
	}
	if dr, dc := derivs.Dims(); dr != rows || dc != cols {
		t.Fatalf("derivs %dx%d, want %dx%d", dr, dc, rows, cols)
	}
	if len(times) != cols {
		t.Fatalf("times length %d, want %d", len(times), cols)
	}
	if times[0] != 0 || math.Abs(times[100]-1.0) > 1e-12 {
		t.Errorf("time span [%g, %g], want [0, 1]", times[0], times[100])
	}
}

func TestTrajectoryDerivativesAreExact(t *testing.T) {
	sys := models.NewLinear2D()
	states, derivs, times, err := Trajectory(context.Background(), sys, sys.DefaultState(), 0.1, 1.0)
	if err != nil {
		t.Fatalf("trajectory failed: %v", err)
	}

	_, cols := states.Dims()
	for s := 0; s < cols; s++ {
		x := models.State{states.At(0, s), states.At(1, s)}
		dx := sys.Derivative(x, times[s])
		for v := 0; v < 2; v++ {
			if got := derivs.At(v, s); got != dx[v] {
				t.Errorf("sample %d var %d: derivative %g, want %g", s, v, got, dx[v])
			}
		}
	}
}

func TestTrajectoryMatchesClosedForm(t *testing.T) {
	sys := decay{k: 0.5}
	states, _, times, err := Trajectory(context.Background(), sys, models.State{2.0}, 0.01, 4.0)
	if err != nil {
		t.Fatalf("trajectory failed: %v", err)
	}

	_, cols := states.Dims()
	for s := 0; s < cols; s++ {
		want := 2.0 * math.Exp(-0.5*times[s])
		if got := states.At(0, s); math.Abs(got-want) > 1e-8 {
			t.Errorf("t=%g: got %g, want %g", times[s], got, want)
		}
	}
}

func TestTrajectoryBadStep(t *testing.T) {
	sys := models.NewLinear2D()
	if _, _, _, err := Trajectory(context.Background(), sys, sys.DefaultState(), 0, 1.0); !errors.Is(err, ErrBadStep) {
		t.Errorf("expected ErrBadStep for dt=0, got %v", err)
	}
	if _, _, _, err := Trajectory(context.Background(), sys, sys.DefaultState(), 0.01, -1); !errors.Is(err, ErrBadStep) {
		t.Errorf("expected ErrBadStep for negative duration, got %v", err)
	}
}

func TestTrajectoryCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sys := models.NewLinear2D()
	_, _, _, err := Trajectory(ctx, sys, sys.DefaultState(), 0.01, 1.0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
