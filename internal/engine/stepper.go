package engine

import "github.com/phaselab/phaselab/internal/system"

// Stepper advances a state by one fixed step h.
type Stepper interface {
	Step(l *system.Layout, y State, t, h float64) State
}

// RK4 is the classic 4th-order Runge-Kutta method. The stage input
// buffer is reused across steps; Derivs returns a fresh slice per
// stage.
type RK4 struct {
	scratch State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.scratch) != n {
		r.scratch = make(State, n)
	}
}

func (r *RK4) Step(l *system.Layout, y State, t, h float64) State {
	n := len(y)
	r.ensureScratch(n)

	k1 := Derivs(l, y, t)
	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + h*0.5*k1[i]
	}
	k2 := Derivs(l, r.scratch, t+h*0.5)
	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + h*0.5*k2[i]
	}
	k3 := Derivs(l, r.scratch, t+h*0.5)
	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + h*k3[i]
	}
	k4 := Derivs(l, r.scratch, t+h)

	result := make(State, n)
	h6 := h / 6.0
	for i := 0; i < n; i++ {
		result[i] = y[i] + h6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return result
}

// Euler is the 1st-order method, kept for accuracy comparisons.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(l *system.Layout, y State, t, h float64) State {
	d := Derivs(l, y, t)
	result := make(State, len(y))
	for i := range y {
		result[i] = y[i] + h*d[i]
	}
	return result
}
