package models

import (
	"math"
	"testing"
)

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		sys, err := Lookup(name)
		if err != nil {
			t.Fatalf("lookup %q failed: %v", name, err)
		}
		if sys.Name() != name {
			t.Errorf("system reports name %q, registered as %q", sys.Name(), name)
		}
		if got := len(sys.DefaultState()); got != sys.StateDim() {
			t.Errorf("%s: default state has %d entries, StateDim is %d", name, got, sys.StateDim())
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("pendulum"); err == nil {
		t.Error("expected error for unknown system")
	}
}

func TestLinear2DDerivative(t *testing.T) {
	sys := NewLinear2D()
	dx := sys.Derivative(State{2.0, 1.0}, 0)

	if math.Abs(dx[0]+0.2) > 1e-15 {
		t.Errorf("dx1 = %g, want -0.2", dx[0])
	}
	if math.Abs(dx[1]-3.9) > 1e-15 {
		t.Errorf("dx2 = %g, want 3.9", dx[1])
	}

	a, b, c := sys.Coefficients()
	if a != -0.1 || b != 2.0 || c != -0.1 {
		t.Errorf("coefficients (%g, %g, %g), want (-0.1, 2, -0.1)", a, b, c)
	}
}

func TestLorenzDerivative(t *testing.T) {
	sys := NewLorenz()
	dx := sys.Derivative(State{1.0, 2.0, 3.0}, 0)

	// sigma*(y-x), x*(rho-z)-y, x*y-beta*z with the classic parameters.
	if math.Abs(dx[0]-10.0) > 1e-12 {
		t.Errorf("dx1 = %g, want 10", dx[0])
	}
	if math.Abs(dx[1]-23.0) > 1e-12 {
		t.Errorf("dx2 = %g, want 23", dx[1])
	}
	if math.Abs(dx[2]-(2.0-8.0)) > 1e-12 {
		t.Errorf("dx3 = %g, want -6", dx[2])
	}
}

func TestVanDerPolDerivative(t *testing.T) {
	sys := NewVanDerPol()
	dx := sys.Derivative(State{2.0, 1.0}, 0)

	if dx[0] != 1.0 {
		t.Errorf("dx1 = %g, want 1", dx[0])
	}
	// mu*(1-x^2)*y - x = 1.5*(-3)*1 - 2 = -6.5.
	if math.Abs(dx[1]+6.5) > 1e-12 {
		t.Errorf("dx2 = %g, want -6.5", dx[1])
	}
}

func TestStateClone(t *testing.T) {
	s := State{1, 2, 3}
	c := s.Clone()
	c[0] = 9
	if s[0] != 1 {
		t.Error("clone shares backing array with original")
	}
}
