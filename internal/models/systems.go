package models

// Linear2D is the two-term linear system dx1 = a*x1, dx2 = b*x1 + c*x2.
// With the default coefficients its governing equations have exactly two
// non-zero terms per library sweep, which makes it the canonical recovery
// benchmark.
type Linear2D struct{ a, b, c float64 }

func NewLinear2D() *Linear2D            { return &Linear2D{-0.1, 2.0, -0.1} }
func (l *Linear2D) Name() string        { return "linear2d" }
func (l *Linear2D) StateDim() int       { return 2 }
func (l *Linear2D) DefaultState() State { return State{2.0, 1.0} }

func (l *Linear2D) Derivative(x State, _ float64) State {
	return State{l.a * x[0], l.b*x[0] + l.c*x[1]}
}

// Coefficients reports the true dynamics for comparison against discovery.
func (l *Linear2D) Coefficients() (a, b, c float64) { return l.a, l.b, l.c }

// Lorenz is the chaotic Lorenz attractor.
type Lorenz struct{ sigma, rho, beta float64 }

func NewLorenz() *Lorenz              { return &Lorenz{10.0, 28.0, 8.0 / 3.0} }
func (l *Lorenz) Name() string        { return "lorenz" }
func (l *Lorenz) StateDim() int       { return 3 }
func (l *Lorenz) DefaultState() State { return State{1.0, 1.0, 1.0} }

func (l *Lorenz) Derivative(s State, _ float64) State {
	return State{l.sigma * (s[1] - s[0]), s[0]*(l.rho-s[2]) - s[1], s[0]*s[1] - l.beta*s[2]}
}

// VanDerPol is the Van der Pol oscillator with nonlinearity mu.
type VanDerPol struct{ mu float64 }

func NewVanDerPol() *VanDerPol           { return &VanDerPol{1.5} }
func (v *VanDerPol) Name() string        { return "vanderpol" }
func (v *VanDerPol) StateDim() int       { return 2 }
func (v *VanDerPol) DefaultState() State { return State{2.0, 0.0} }

func (v *VanDerPol) Derivative(s State, _ float64) State {
	return State{s[1], v.mu*(1-s[0]*s[0])*s[1] - s[0]}
}
