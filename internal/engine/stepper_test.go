package engine

import (
	"math"
	"testing"

	"github.com/phaselab/phaselab/internal/system"
)

func linearGrowth() *system.Layout {
	return system.Build([]system.Particle{{
		Name: "p",
		Vars: []system.Variable{{Name: "x", Order: 1, Initial: "1", Expr: "x"}},
	}})
}

func TestRK4_TaylorExpansion(t *testing.T) {
	// One RK4 step of x' = x from x=1 must reproduce the 4th-order
	// Taylor polynomial of exp(h) exactly.
	l := linearGrowth()
	r := NewRK4()

	for _, h := range []float64{0.1, 0.5, 1.0} {
		got := r.Step(l, State(l.Initial), 0, h)[0]
		want := 1 + h + h*h/2 + h*h*h/6 + h*h*h*h/24
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("h=%v: got %.15f, want %.15f", h, got, want)
		}
	}
}

func TestRK4_ExponentialAccuracy(t *testing.T) {
	l := linearGrowth()
	r := NewRK4()

	x := State(l.Initial).Clone()
	dt := 0.01
	for i := 0; i < 100; i++ {
		x = r.Step(l, x, float64(i)*dt, dt)
	}

	if err := math.Abs(x[0] - math.E); err > 1e-7 {
		t.Errorf("x(1) = %.10f, want e within 1e-7 (error %.2e)", x[0], err)
	}
}

func TestRK4_HarmonicOscillator(t *testing.T) {
	// Order-2 variable exercises companion form and the x_dot alias.
	l := system.Build([]system.Particle{{
		Name: "osc",
		Vars: []system.Variable{{Name: "x", Order: 2, Initial: "1", InitialDot: "0", Expr: "-x"}},
	}})
	r := NewRK4()

	x := State(l.Initial).Clone()
	dt := 0.01
	steps := 100
	for i := 0; i < steps; i++ {
		x = r.Step(l, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestEuler_LessAccurateThanRK4(t *testing.T) {
	dt := 0.01
	integrate := func(s Stepper) float64 {
		l := linearGrowth()
		x := State(l.Initial).Clone()
		for i := 0; i < 100; i++ {
			x = s.Step(l, x, float64(i)*dt, dt)
		}
		return math.Abs(x[0] - math.E)
	}

	eulerErr := integrate(NewEuler())
	rk4Err := integrate(NewRK4())

	if eulerErr <= rk4Err {
		t.Errorf("euler error %.2e should exceed rk4 error %.2e", eulerErr, rk4Err)
	}
	if eulerErr > 0.02 {
		t.Errorf("euler error %.2e unexpectedly large", eulerErr)
	}
}

func TestDerivs_CrossParticle(t *testing.T) {
	// Particle 2 chases particle 1 through the id-suffixed alias.
	l := system.Build([]system.Particle{
		{Name: "lead", Vars: []system.Variable{{Name: "x", Order: 1, Initial: "3", Expr: "0"}}},
		{Name: "chase", Vars: []system.Variable{{Name: "x", Order: 1, Initial: "1", Expr: "x1 - x"}}},
	})

	d := Derivs(l, State(l.Initial), 0)
	if d[0] != 0 {
		t.Errorf("lead derivative = %v, want 0", d[0])
	}
	if d[1] != 2 {
		t.Errorf("chase derivative = %v, want 3-1=2", d[1])
	}
}

func TestDerivs_FaultyExpressionZeroes(t *testing.T) {
	l := system.Build([]system.Particle{{
		Name: "p",
		Vars: []system.Variable{
			{Name: "a", Order: 1, Initial: "1", Expr: "no_such_name * 2"},
			{Name: "b", Order: 1, Initial: "1", Expr: "5"},
		},
	}})

	d := Derivs(l, State(l.Initial), 0)
	if d[0] != 0 {
		t.Errorf("faulting equation should contribute 0, got %v", d[0])
	}
	if d[1] != 5 {
		t.Errorf("healthy equation must still run, got %v", d[1])
	}
}

func BenchmarkRK4_Lorenz(b *testing.B) {
	l := system.Build(lorenzParticles())
	r := NewRK4()
	x := State(l.Initial).Clone()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = r.Step(l, x, float64(i)*0.01, 0.01)
	}
	_ = x
}
