// Package models provides known autonomous ODE systems used to generate
// synthetic trajectories for demos and end-to-end testing of the discovery
// pipeline.
package models

import "fmt"

// State is one sample of a system's state vector.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// System is an autonomous ODE dX/dt = f(X, t).
type System interface {
	Name() string
	Derivative(x State, t float64) State
	StateDim() int
	DefaultState() State
}

// Lookup returns a system by name.
func Lookup(name string) (System, error) {
	switch name {
	case "linear2d":
		return NewLinear2D(), nil
	case "lorenz":
		return NewLorenz(), nil
	case "vanderpol":
		return NewVanDerPol(), nil
	default:
		return nil, fmt.Errorf("models: unknown system: %s", name)
	}
}

// Names lists the available systems.
func Names() []string {
	return []string{"linear2d", "lorenz", "vanderpol"}
}
