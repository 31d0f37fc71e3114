// Package integrate generates trajectories from known systems by numerical
// integration, feeding the discovery pipeline with synthetic data.
package integrate

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/sindy/internal/models"
)

// ErrBadStep indicates a non-positive timestep or duration.
var ErrBadStep = errors.New("integrate: dt and duration must be positive")

// RK4 is the classical fourth-order Runge-Kutta integrator.
type RK4 struct {
	scratch models.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(sys models.System, x models.State, t, dt float64) models.State {
	n := len(x)
	if len(r.scratch) != n {
		r.scratch = make(models.State, n)
	}

	k1 := sys.Derivative(x, t)
	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*k1[i]
	}
	k2 := sys.Derivative(r.scratch, t+dt*0.5)
	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*k2[i]
	}
	k3 := sys.Derivative(r.scratch, t+dt*0.5)
	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*k3[i]
	}
	k4 := sys.Derivative(r.scratch, t+dt)

	result := make(models.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return result
}

// Trajectory integrates sys from x0 and returns the sampled states laid out
// one row per variable and one column per sample, plus the sample times. The
// exact derivatives at each sample are returned alongside, so callers can
// regress against clean targets instead of finite differences.
func Trajectory(ctx context.Context, sys models.System, x0 models.State, dt, duration float64) (states, derivs *mat.Dense, times []float64, err error) {
	if dt <= 0 || duration <= 0 {
		return nil, nil, nil, fmt.Errorf("%w: dt=%g duration=%g", ErrBadStep, dt, duration)
	}

	steps := int(duration / dt)
	vars := sys.StateDim()
	states = mat.NewDense(vars, steps+1, nil)
	derivs = mat.NewDense(vars, steps+1, nil)
	times = make([]float64, steps+1)

	integ := NewRK4()
	x := x0.Clone()
	t := 0.0

	for s := 0; s <= steps; s++ {
		select {
		case <-ctx.Done():
			return nil, nil, nil, ctx.Err()
		default:
		}

		dx := sys.Derivative(x, t)
		for v := 0; v < vars; v++ {
			states.Set(v, s, x[v])
			derivs.Set(v, s, dx[v])
		}
		times[s] = t

		if s < steps {
			x = integ.Step(sys, x, t, dt)
			t += dt
		}
	}
	return states, derivs, times, nil
}
